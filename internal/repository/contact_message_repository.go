package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

// ContactMessageRepository handles contact_messages data access
type ContactMessageRepository struct {
	*trashTable
}

// NewContactMessageRepository creates a new contact message repository
func NewContactMessageRepository(pool *pgxpool.Pool) *ContactMessageRepository {
	return &ContactMessageRepository{
		trashTable: &trashTable{
			pool:         pool,
			kind:         models.EntityContactMessages,
			table:        "contact_messages",
			titleColumns: "NULL::text, name, subject",
			resource:     "contact message",
		},
	}
}

var _ ContactMessageStore = (*ContactMessageRepository)(nil)

// List returns one page of active contact messages, newest first, with the total match count
func (r *ContactMessageRepository) List(ctx context.Context, filter models.ContactMessageFilter, perPage int) ([]*models.ContactMessage, int, error) {
	start := time.Now()

	where := "deleted_at IS NULL"
	args := []interface{}{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += " AND status = $1"
	}

	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM contact_messages WHERE "+where, args...).Scan(&total)
	if err != nil {
		observe("contact_messages.count", start, err)
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}

	args = append(args, perPage, models.PageOffset(filter.Page, perPage))
	query := fmt.Sprintf(`
		SELECT %s
		FROM contact_messages
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, models.ContactMessageColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		observe("contact_messages.list", start, err)
		return nil, 0, fmt.Errorf("failed to query contact messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.ContactMessage{}
	for rows.Next() {
		m, err := models.ScanContactMessage(rows)
		if err != nil {
			observe("contact_messages.list", start, err)
			return nil, 0, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, m)
	}

	err = rows.Err()
	observe("contact_messages.list", start, err, zap.Int("count", len(messages)), zap.Int("total", total))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to iterate contact messages: %w", err)
	}
	return messages, total, nil
}

// GetByID returns an active contact message
func (r *ContactMessageRepository) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	start := time.Now()
	query := fmt.Sprintf(`SELECT %s FROM contact_messages WHERE id = $1 AND deleted_at IS NULL`, models.ContactMessageColumns)

	m, err := models.ScanContactMessage(r.pool.QueryRow(ctx, query, id))
	observe("contact_messages.get", start, err, zap.Int64("id", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("contact message")
		}
		return nil, fmt.Errorf("failed to get contact message %d: %w", id, err)
	}
	return m, nil
}

// Create inserts a contact message and fills its id and timestamps
func (r *ContactMessageRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	start := time.Now()

	meta, err := json.Marshal(m.Meta)
	if err != nil {
		return fmt.Errorf("failed to encode contact meta: %w", err)
	}

	query := `
		INSERT INTO contact_messages (name, email, phone, company, subject, message, website, is_spam,
			status, ip_address, user_agent, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		m.Name, m.Email, m.Phone, m.Company, m.Subject, m.Message, m.Website, m.IsSpam,
		m.Status, m.IPAddress, m.UserAgent, meta,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	observe("contact_messages.create", start, err, zap.Bool("spam", m.IsSpam))
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// Update writes status, notes and processing attribution of an active contact message
func (r *ContactMessageRepository) Update(ctx context.Context, m *models.ContactMessage) error {
	start := time.Now()
	query := `
		UPDATE contact_messages
		SET status = $2, internal_notes = $3, processed_by = $4, processed_at = $5, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, m.ID, m.Status, m.InternalNotes, m.ProcessedBy, m.ProcessedAt).Scan(&m.UpdatedAt)
	observe("contact_messages.update", start, err, zap.Int64("id", m.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFoundError("contact message")
		}
		return fmt.Errorf("failed to update contact message %d: %w", m.ID, err)
	}
	return nil
}
