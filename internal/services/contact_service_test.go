package services_test

import (
	"context"
	"testing"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newContactService() (*services.ContactService, *fakeContactStore, *MockNotifier) {
	store := newFakeContactStore(newTickingClock())
	notifier := new(MockNotifier)
	notifier.On("NotifyContactMessage", mock.Anything, mock.Anything).Return(nil)
	return services.NewContactService(store, notifier), store, notifier
}

func contactInput(website *string) *models.CreateContactMessageInput {
	return &models.CreateContactMessageInput{
		Name:    "Hind",
		Email:   "hind@example.ma",
		Phone:   "+212612345678",
		Subject: strPtr("Formation intra"),
		Message: "Bonjour, nous souhaitons une session sur site.",
		Website: website,
	}
}

func TestContactService_CreateLegitimateMessage(t *testing.T) {
	svc, _, notifier := newContactService()

	for _, website := range []*string{nil, strPtr("")} {
		msg, err := svc.Create(context.Background(), contactInput(website), models.SubmissionContext{IP: "10.1.1.1", Referer: "https://cabinetrenov.com/contact"})

		require.NoError(t, err)
		assert.False(t, msg.IsSpam)
		assert.Equal(t, models.ContactStatusNew, msg.Status)
		require.NotNil(t, msg.Meta.Referer)
		assert.Equal(t, "https://cabinetrenov.com/contact", *msg.Meta.Referer)
	}
	notifier.AssertNumberOfCalls(t, "NotifyContactMessage", 2)
}

func TestContactService_HoneypotFlagsSpam(t *testing.T) {
	svc, store, _ := newContactService()

	msg, err := svc.Create(context.Background(), contactInput(strPtr("http://spam.example")), models.SubmissionContext{})

	require.NoError(t, err)
	assert.True(t, msg.IsSpam)
	assert.Equal(t, models.ContactStatusArchived, msg.Status)

	stored, err := store.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsSpam)
}

func TestContactService_UpdateStampsEveryTime(t *testing.T) {
	svc, _, _ := newContactService()
	ctx := context.Background()
	msg, err := svc.Create(ctx, contactInput(nil), models.SubmissionContext{})
	require.NoError(t, err)

	read := models.ContactStatusRead
	first, err := svc.Update(ctx, msg.ID, &models.UpdateContactMessageInput{Status: &read}, &models.Actor{Name: "Samira"})
	require.NoError(t, err)
	assert.Equal(t, "Samira", *first.ProcessedBy)

	second, err := svc.Update(ctx, msg.ID, &models.UpdateContactMessageInput{InternalNotes: strPtr("Devis envoyé")}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ContactProcessorFallback, *second.ProcessedBy)
	assert.Equal(t, models.ContactStatusRead, second.Status)
	assert.Equal(t, "Devis envoyé", *second.InternalNotes)
	assert.True(t, !second.ProcessedAt.Before(*first.ProcessedAt))
}

func TestContactService_ListFiltersByStatus(t *testing.T) {
	svc, _, _ := newContactService()
	ctx := context.Background()
	_, err := svc.Create(ctx, contactInput(nil), models.SubmissionContext{})
	require.NoError(t, err)
	_, err = svc.Create(ctx, contactInput(strPtr("bot")), models.SubmissionContext{})
	require.NoError(t, err)

	page, err := svc.List(ctx, models.ContactMessageFilter{Status: string(models.ContactStatusArchived)})

	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.True(t, page.Data[0].IsSpam)
	assert.Equal(t, services.ContactMessagesPerPage, page.PerPage)
}

func TestContactService_DeleteUsesActorName(t *testing.T) {
	svc, store, _ := newContactService()
	ctx := context.Background()
	msg, err := svc.Create(ctx, contactInput(nil), models.SubmissionContext{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, msg.ID, &models.Actor{Name: "Omar"}))

	trashed, err := store.ListTrashed(ctx)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.Equal(t, "Omar", trashed[0].DeletedBy)
	assert.Equal(t, "Hind", trashed[0].Title)
}
