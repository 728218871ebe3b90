package services_test

import (
	"context"
	"testing"

	"github.com/cabinetrenov/renov-api/config"
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

func notificationConfig(emails ...string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.FrontURL = "https://backoffice.cabinetrenov.com/"
	cfg.Notify.Emails = emails
	return cfg
}

func sampleQuote() *models.QuoteRequest {
	return &models.QuoteRequest{
		ID:        12,
		Formation: "Habilitation électrique",
		Name:      "Yassine",
		Email:     "yassine@example.ma",
		Phone:     strPtr("+212600000000"),
		Status:    models.QuoteStatusPending,
	}
}

func TestNotificationService_QuoteWithoutAdminCreatesVirtualNotification(t *testing.T) {
	store := &fakeNotificationStore{}
	queue := &recordingQueue{}
	svc := services.NewNotificationService(store, &fakeUserStore{}, queue, notificationConfig())

	require.NoError(t, svc.NotifyQuoteRequest(context.Background(), sampleQuote()))

	all := store.all()
	require.Len(t, all, 1)
	n := all[0]
	assert.Equal(t, models.VirtualRecipientID, n.NotifiableID)
	assert.Equal(t, models.NotifiableUser, n.NotifiableType)
	assert.Equal(t, models.NotificationNewQuoteRequest, n.Type)
	assert.Equal(t, models.NotificationNewQuoteRequest, n.Data.Kind)
	assert.Equal(t, "Yassine", n.Data.Name)
	assert.Equal(t, "yassine@example.ma", n.Data.Email)
	require.NotNil(t, n.Data.Formation)
	assert.Equal(t, "Habilitation électrique", *n.Data.Formation)
	_, err := uuid.Parse(n.ID)
	assert.NoError(t, err)
	assert.Nil(t, n.ReadAt)

	assert.Empty(t, queue.messages())
}

func TestNotificationService_QuoteWithAdminMailsAndStoresOnce(t *testing.T) {
	store := &fakeNotificationStore{}
	queue := &recordingQueue{}
	users := &fakeUserStore{users: []*models.User{
		{ID: 3, Name: "Editor", Email: "editor@cabinetrenov.com"},
		{ID: 7, Name: "Admin", Email: "admin@cabinetrenov.com", IsAdmin: true},
	}}
	svc := services.NewNotificationService(store, users, queue, notificationConfig("direction@cabinetrenov.com", "commercial@cabinetrenov.com"))

	require.NoError(t, svc.NotifyQuoteRequest(context.Background(), sampleQuote()))

	all := store.all()
	require.Len(t, all, 1)
	assert.Equal(t, int64(7), all[0].NotifiableID)

	mails := queue.messages()
	require.Len(t, mails, 2)
	assert.Equal(t, []string{"direction@cabinetrenov.com", "commercial@cabinetrenov.com"}, mails[0].To)
	assert.Equal(t, []string{"admin@cabinetrenov.com"}, mails[1].To)
	for _, m := range mails {
		assert.Equal(t, "Nouvelle demande de devis #12", m.Subject)
		assert.Contains(t, m.HTML, "https://backoffice.cabinetrenov.com/dashboard/students")
		assert.Contains(t, m.HTML, "Habilitation électrique")
		assert.Equal(t, "yassine@example.ma", m.ReplyTo)
	}
}

func TestNotificationService_FullQueueDoesNotFail(t *testing.T) {
	store := &fakeNotificationStore{}
	queue := &recordingQueue{full: true}
	svc := services.NewNotificationService(store, &fakeUserStore{}, queue, notificationConfig("direction@cabinetrenov.com"))

	require.NoError(t, svc.NotifyQuoteRequest(context.Background(), sampleQuote()))
	assert.Len(t, store.all(), 1)
}

func TestNotificationService_ContactIsDatabaseOnly(t *testing.T) {
	store := &fakeNotificationStore{}
	queue := &recordingQueue{}
	svc := services.NewNotificationService(store, &fakeUserStore{}, queue, notificationConfig("direction@cabinetrenov.com"))

	msg := &models.ContactMessage{ID: 4, Name: "Hind", Email: "hind@example.ma", Phone: "0612345678", Subject: strPtr("Devis"), Message: "Bonjour", Status: models.ContactStatusNew}
	require.NoError(t, svc.NotifyContactMessage(context.Background(), msg))

	all := store.all()
	require.Len(t, all, 1)
	assert.Equal(t, models.NotificationNewContact, all[0].Type)
	assert.Equal(t, models.VirtualRecipientID, all[0].NotifiableID)
	assert.Equal(t, "Devis", *all[0].Data.Subject)
	assert.Empty(t, queue.messages())
}

func TestNotificationService_ListScoping(t *testing.T) {
	ctx := context.Background()
	store := &fakeNotificationStore{}
	users := &fakeUserStore{users: []*models.User{{ID: 1, Name: "Admin", IsAdmin: true}, {ID: 2, Name: "Omar"}}}
	svc := services.NewNotificationService(store, users, &recordingQueue{}, notificationConfig())

	require.NoError(t, store.Create(ctx, &models.Notification{ID: "a", NotifiableType: models.NotifiableUser, NotifiableID: 1}))
	require.NoError(t, store.Create(ctx, &models.Notification{ID: "b", NotifiableType: models.NotifiableUser, NotifiableID: 2}))
	require.NoError(t, store.Create(ctx, &models.Notification{ID: "c", NotifiableType: models.NotifiableUser, NotifiableID: 0}))

	own, err := svc.List(ctx, &models.Actor{UserID: 2}, 0)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "b", own[0].ID)

	admin, err := svc.List(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, admin, 1)
	assert.Equal(t, "a", admin[0].ID)

	noAdmin := services.NewNotificationService(store, &fakeUserStore{}, &recordingQueue{}, notificationConfig())
	global, err := noAdmin.List(ctx, nil, 2)
	require.NoError(t, err)
	assert.Len(t, global, 2)
	assert.Equal(t, "c", global[0].ID)
}

func TestNotificationService_MarkReadFallsBackToGlobalLookup(t *testing.T) {
	ctx := context.Background()
	store := &fakeNotificationStore{}
	svc := services.NewNotificationService(store, &fakeUserStore{}, &recordingQueue{}, notificationConfig())
	require.NoError(t, store.Create(ctx, &models.Notification{ID: "owned-by-a", NotifiableType: models.NotifiableUser, NotifiableID: 1}))

	n, err := svc.MarkRead(ctx, &models.Actor{UserID: 2, Name: "B"}, "owned-by-a")

	require.NoError(t, err)
	require.NotNil(t, n.ReadAt)
	assert.Equal(t, int64(1), n.NotifiableID)

	count, err := svc.UnreadCount(ctx, &models.Actor{UserID: 1})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_MarkReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := &fakeNotificationStore{}
	svc := services.NewNotificationService(store, &fakeUserStore{}, &recordingQueue{}, notificationConfig())
	require.NoError(t, store.Create(ctx, &models.Notification{ID: "n1", NotifiableType: models.NotifiableUser, NotifiableID: 1}))

	first, err := svc.MarkRead(ctx, &models.Actor{UserID: 1}, "n1")
	require.NoError(t, err)
	readAt := *first.ReadAt

	second, err := svc.MarkRead(ctx, &models.Actor{UserID: 1}, "n1")
	require.NoError(t, err)
	assert.Equal(t, readAt, *second.ReadAt)
}

func TestNotificationService_MarkReadNotFound(t *testing.T) {
	svc := services.NewNotificationService(&fakeNotificationStore{}, &fakeUserStore{}, &recordingQueue{}, notificationConfig())

	_, err := svc.MarkRead(context.Background(), &models.Actor{UserID: 1}, "missing")

	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestNotificationService_UnreadCountGlobalWithoutAdmin(t *testing.T) {
	ctx := context.Background()
	store := &fakeNotificationStore{}
	svc := services.NewNotificationService(store, &fakeUserStore{}, &recordingQueue{}, notificationConfig())
	require.NoError(t, svc.NotifyQuoteRequest(ctx, sampleQuote()))
	require.NoError(t, svc.NotifyContactMessage(ctx, &models.ContactMessage{ID: 1, Name: "Hind"}))

	count, err := svc.UnreadCount(ctx, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
