package handlers

import (
	"context"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/stretchr/testify/mock"
)

type MockTrashService struct{ mock.Mock }

func (m *MockTrashService) List(ctx context.Context) ([]models.TrashEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]models.TrashEntry)
	return entries, args.Error(1)
}

func (m *MockTrashService) Restore(ctx context.Context, kind string, id int64) (models.EntityKind, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0).(models.EntityKind), args.Error(1)
}

func (m *MockTrashService) PurgeKind(ctx context.Context, kind string, id int64) error {
	return m.Called(ctx, kind, id).Error(0)
}

func (m *MockTrashService) Purge(ctx context.Context, id int64) (models.EntityKind, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.EntityKind), args.Error(1)
}

func (m *MockTrashService) Empty(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockContactService struct{ mock.Mock }

func (m *MockContactService) Create(ctx context.Context, in *models.CreateContactMessageInput, sub models.SubmissionContext) (*models.ContactMessage, error) {
	args := m.Called(ctx, in, sub)
	msg, _ := args.Get(0).(*models.ContactMessage)
	return msg, args.Error(1)
}

func (m *MockContactService) List(ctx context.Context, filter models.ContactMessageFilter) (models.Page[*models.ContactMessage], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(models.Page[*models.ContactMessage]), args.Error(1)
}

func (m *MockContactService) Get(ctx context.Context, id int64) (*models.ContactMessage, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*models.ContactMessage)
	return msg, args.Error(1)
}

func (m *MockContactService) Update(ctx context.Context, id int64, in *models.UpdateContactMessageInput, actor *models.Actor) (*models.ContactMessage, error) {
	args := m.Called(ctx, id, in, actor)
	msg, _ := args.Get(0).(*models.ContactMessage)
	return msg, args.Error(1)
}

func (m *MockContactService) Delete(ctx context.Context, id int64, actor *models.Actor) error {
	return m.Called(ctx, id, actor).Error(0)
}

type MockQuoteRequestService struct{ mock.Mock }

func (m *MockQuoteRequestService) Create(ctx context.Context, in *models.CreateQuoteRequestInput, sub models.SubmissionContext) (*models.QuoteRequest, error) {
	args := m.Called(ctx, in, sub)
	q, _ := args.Get(0).(*models.QuoteRequest)
	return q, args.Error(1)
}

func (m *MockQuoteRequestService) List(ctx context.Context, filter models.QuoteRequestFilter) (models.Page[*models.QuoteRequest], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(models.Page[*models.QuoteRequest]), args.Error(1)
}

func (m *MockQuoteRequestService) Get(ctx context.Context, id int64) (*models.QuoteRequest, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*models.QuoteRequest)
	return q, args.Error(1)
}

func (m *MockQuoteRequestService) Update(ctx context.Context, id int64, in *models.UpdateQuoteRequestInput, actor *models.Actor) (*models.QuoteRequest, error) {
	args := m.Called(ctx, id, in, actor)
	q, _ := args.Get(0).(*models.QuoteRequest)
	return q, args.Error(1)
}

func (m *MockQuoteRequestService) Delete(ctx context.Context, id int64, actor *models.Actor) error {
	return m.Called(ctx, id, actor).Error(0)
}

type MockFormationService struct{ mock.Mock }

func (m *MockFormationService) List(ctx context.Context, filter models.FormationFilter) ([]*models.Formation, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]*models.Formation)
	return list, args.Error(1)
}

func (m *MockFormationService) Get(ctx context.Context, id int64) (*models.Formation, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*models.Formation)
	return f, args.Error(1)
}

func (m *MockFormationService) Create(ctx context.Context, in *models.FormationInput) (*models.Formation, error) {
	args := m.Called(ctx, in)
	f, _ := args.Get(0).(*models.Formation)
	return f, args.Error(1)
}

func (m *MockFormationService) Update(ctx context.Context, id int64, in *models.FormationInput) (*models.Formation, error) {
	args := m.Called(ctx, id, in)
	f, _ := args.Get(0).(*models.Formation)
	return f, args.Error(1)
}

func (m *MockFormationService) Delete(ctx context.Context, id int64, actor *models.Actor) error {
	return m.Called(ctx, id, actor).Error(0)
}

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) List(ctx context.Context, filter models.CategoryFilter) (models.Page[*models.Category], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(models.Page[*models.Category]), args.Error(1)
}

func (m *MockCategoryService) Tree(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*models.Category)
	return list, args.Error(1)
}

func (m *MockCategoryService) Roots(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*models.Category)
	return list, args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, in *models.CreateCategoryInput) (*models.Category, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, id int64, in *models.UpdateCategoryInput) (*models.Category, error) {
	args := m.Called(ctx, id, in)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) NotifyQuoteRequest(ctx context.Context, q *models.QuoteRequest) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockNotificationService) NotifyContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, actor *models.Actor, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, actor, limit)
	list, _ := args.Get(0).([]*models.Notification)
	return list, args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, actor *models.Actor) (int, error) {
	args := m.Called(ctx, actor)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, actor *models.Actor, id string) (*models.Notification, error) {
	args := m.Called(ctx, actor, id)
	n, _ := args.Get(0).(*models.Notification)
	return n, args.Error(1)
}

var (
	_ services.TrashServiceInterface        = (*MockTrashService)(nil)
	_ services.ContactServiceInterface      = (*MockContactService)(nil)
	_ services.QuoteRequestServiceInterface = (*MockQuoteRequestService)(nil)
	_ services.FormationServiceInterface    = (*MockFormationService)(nil)
	_ services.CategoryServiceInterface     = (*MockCategoryService)(nil)
	_ services.NotificationServiceInterface = (*MockNotificationService)(nil)
)
