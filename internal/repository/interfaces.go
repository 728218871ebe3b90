package repository

import (
	"context"
	"time"

	"github.com/cabinetrenov/renov-api/internal/models"
)

// Trashable is the soft-delete capability shared by every entity that can go to the trash.
// Registering a new entity with the trash service only requires implementing it.
type Trashable interface {
	// Kind is the entity tag used in trash entries and routes
	Kind() models.EntityKind

	// SoftDelete records the deleter and hides an active row. ErrNotFound when no active row matches.
	SoftDelete(ctx context.Context, id int64, deletedBy string) error

	// ListTrashed projects every soft-deleted row to a trash entry
	ListTrashed(ctx context.Context) ([]models.TrashEntry, error)

	// Restore clears the deletion marker of a row, deleted or not. deleted_by is kept.
	Restore(ctx context.Context, id int64) error

	// Purge physically removes a row, deleted or not
	Purge(ctx context.Context, id int64) error

	// PurgeTrashed physically removes every soft-deleted row and returns how many went away
	PurgeTrashed(ctx context.Context) (int64, error)
}

// FormationStore persists formations
type FormationStore interface {
	Trashable
	List(ctx context.Context, filter models.FormationFilter) ([]*models.Formation, error)
	GetByID(ctx context.Context, id int64) (*models.Formation, error)
	Create(ctx context.Context, f *models.Formation) error
	Update(ctx context.Context, f *models.Formation) error
}

// QuoteRequestStore persists quote requests
type QuoteRequestStore interface {
	Trashable
	List(ctx context.Context, filter models.QuoteRequestFilter, perPage int) ([]*models.QuoteRequest, int, error)
	GetByID(ctx context.Context, id int64) (*models.QuoteRequest, error)
	Create(ctx context.Context, q *models.QuoteRequest) error
	Update(ctx context.Context, q *models.QuoteRequest) error
}

// ContactMessageStore persists contact messages
type ContactMessageStore interface {
	Trashable
	List(ctx context.Context, filter models.ContactMessageFilter, perPage int) ([]*models.ContactMessage, int, error)
	GetByID(ctx context.Context, id int64) (*models.ContactMessage, error)
	Create(ctx context.Context, m *models.ContactMessage) error
	Update(ctx context.Context, m *models.ContactMessage) error
}

// CategoryStore persists the category tree
type CategoryStore interface {
	List(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, int, error)
	Roots(ctx context.Context) ([]*models.Category, error)
	Tree(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	HasChildren(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// NotificationStore persists notifications. A nil recipient means every recipient.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, recipientID *int64, limit int) ([]*models.Notification, error)
	Find(ctx context.Context, id string, recipientID *int64) (*models.Notification, error)
	MarkRead(ctx context.Context, id string, at time.Time) (*models.Notification, error)
	CountUnread(ctx context.Context, recipientID *int64) (int, error)
}

// UserStore reads back-office accounts
type UserStore interface {
	// FirstAdmin returns the admin with the lowest id, or nil when there is none
	FirstAdmin(ctx context.Context) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpsertAdmin(ctx context.Context, name, email, passwordHash string) (*models.User, error)
}
