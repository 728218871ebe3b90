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

// NotificationRepository handles notification data access
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

var _ NotificationStore = (*NotificationRepository)(nil)

// Create inserts a notification. ID and CreatedAt must already be set.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	start := time.Now()

	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (id, type, notifiable_type, notifiable_id, data, read_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err = r.pool.Exec(ctx, query, n.ID, n.Type, n.NotifiableType, n.NotifiableID, data, n.ReadAt, n.CreatedAt)
	observe("notifications.create", start, err, zap.String("type", string(n.Type)), zap.Int64("notifiable_id", n.NotifiableID))
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	n.UpdatedAt = n.CreatedAt
	return nil
}

// List returns the latest notifications of a recipient, or of everyone when recipientID is nil
func (r *NotificationRepository) List(ctx context.Context, recipientID *int64, limit int) ([]*models.Notification, error) {
	start := time.Now()

	where, args := recipientClause(recipientID)
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT %s FROM notifications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d
	`, models.NotificationColumns, where, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		observe("notifications.list", start, err)
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n, err := models.ScanNotification(rows)
		if err != nil {
			observe("notifications.list", start, err)
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	err = rows.Err()
	observe("notifications.list", start, err, zap.Int("count", len(notifications)))
	if err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}

// Find returns a notification by id, restricted to a recipient unless recipientID is nil
func (r *NotificationRepository) Find(ctx context.Context, id string, recipientID *int64) (*models.Notification, error) {
	start := time.Now()

	where, args := recipientClause(recipientID)
	args = append(args, id)
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE %s AND id::text = $%d`,
		models.NotificationColumns, where, len(args))

	n, err := models.ScanNotification(r.pool.QueryRow(ctx, query, args...))
	observe("notifications.find", start, err, zap.String("id", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("notification")
		}
		return nil, fmt.Errorf("failed to find notification %s: %w", id, err)
	}
	return n, nil
}

// MarkRead sets read_at on a notification that is still unread and returns it
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, at time.Time) (*models.Notification, error) {
	start := time.Now()
	query := fmt.Sprintf(`
		UPDATE notifications
		SET read_at = COALESCE(read_at, $2), updated_at = $2
		WHERE id::text = $1
		RETURNING %s
	`, models.NotificationColumns)

	n, err := models.ScanNotification(r.pool.QueryRow(ctx, query, id, at))
	observe("notifications.mark_read", start, err, zap.String("id", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("notification")
		}
		return nil, fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	return n, nil
}

// CountUnread counts unread notifications of a recipient, or of everyone when recipientID is nil
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID *int64) (int, error) {
	start := time.Now()

	where, args := recipientClause(recipientID)
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE read_at IS NULL AND "+where, args...).Scan(&count)
	observe("notifications.count_unread", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func recipientClause(recipientID *int64) (string, []interface{}) {
	if recipientID == nil {
		return "TRUE", []interface{}{}
	}
	return "notifiable_type = $1 AND notifiable_id = $2", []interface{}{models.NotifiableUser, *recipientID}
}
