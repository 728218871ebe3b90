package services

import (
	"context"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/pkg/jwt"
)

// Notifier is told about every entity created from the public site
type Notifier interface {
	NotifyQuoteRequest(ctx context.Context, q *models.QuoteRequest) error
	NotifyContactMessage(ctx context.Context, m *models.ContactMessage) error
}

// NotificationServiceInterface defines the back-office notification operations
type NotificationServiceInterface interface {
	Notifier
	List(ctx context.Context, actor *models.Actor, limit int) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, actor *models.Actor) (int, error)
	MarkRead(ctx context.Context, actor *models.Actor, id string) (*models.Notification, error)
}

// FormationServiceInterface defines the formation catalog operations
type FormationServiceInterface interface {
	List(ctx context.Context, filter models.FormationFilter) ([]*models.Formation, error)
	Get(ctx context.Context, id int64) (*models.Formation, error)
	Create(ctx context.Context, in *models.FormationInput) (*models.Formation, error)
	Update(ctx context.Context, id int64, in *models.FormationInput) (*models.Formation, error)
	Delete(ctx context.Context, id int64, actor *models.Actor) error
}

// QuoteRequestServiceInterface defines the quote request operations
type QuoteRequestServiceInterface interface {
	Create(ctx context.Context, in *models.CreateQuoteRequestInput, sub models.SubmissionContext) (*models.QuoteRequest, error)
	List(ctx context.Context, filter models.QuoteRequestFilter) (models.Page[*models.QuoteRequest], error)
	Get(ctx context.Context, id int64) (*models.QuoteRequest, error)
	Update(ctx context.Context, id int64, in *models.UpdateQuoteRequestInput, actor *models.Actor) (*models.QuoteRequest, error)
	Delete(ctx context.Context, id int64, actor *models.Actor) error
}

// ContactServiceInterface defines the contact message operations
type ContactServiceInterface interface {
	Create(ctx context.Context, in *models.CreateContactMessageInput, sub models.SubmissionContext) (*models.ContactMessage, error)
	List(ctx context.Context, filter models.ContactMessageFilter) (models.Page[*models.ContactMessage], error)
	Get(ctx context.Context, id int64) (*models.ContactMessage, error)
	Update(ctx context.Context, id int64, in *models.UpdateContactMessageInput, actor *models.Actor) (*models.ContactMessage, error)
	Delete(ctx context.Context, id int64, actor *models.Actor) error
}

// CategoryServiceInterface defines the category tree operations
type CategoryServiceInterface interface {
	List(ctx context.Context, filter models.CategoryFilter) (models.Page[*models.Category], error)
	Tree(ctx context.Context) ([]*models.Category, error)
	Roots(ctx context.Context) ([]*models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, in *models.CreateCategoryInput) (*models.Category, error)
	Update(ctx context.Context, id int64, in *models.UpdateCategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}

// TrashServiceInterface defines the trash operations
type TrashServiceInterface interface {
	List(ctx context.Context) ([]models.TrashEntry, error)
	Restore(ctx context.Context, kind string, id int64) (models.EntityKind, error)
	PurgeKind(ctx context.Context, kind string, id int64) error
	Purge(ctx context.Context, id int64) (models.EntityKind, error)
	Empty(ctx context.Context) (int64, error)
}

// AdminAuthServiceInterface defines back-office authentication
type AdminAuthServiceInterface interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Authenticate(token string) (*jwt.UserClaims, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
	Logout(claims *jwt.UserClaims)
}

// Ensure services implement their interfaces
var _ NotificationServiceInterface = (*NotificationService)(nil)
var _ FormationServiceInterface = (*FormationService)(nil)
var _ QuoteRequestServiceInterface = (*QuoteRequestService)(nil)
var _ ContactServiceInterface = (*ContactService)(nil)
var _ CategoryServiceInterface = (*CategoryService)(nil)
var _ TrashServiceInterface = (*TrashService)(nil)
var _ AdminAuthServiceInterface = (*AdminAuthService)(nil)
