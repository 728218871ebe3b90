package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

// trashTable implements Trashable over one table carrying deleted_at and deleted_by.
// titleColumns select title, name and subject in that order (NULL where the table has none).
type trashTable struct {
	pool         *pgxpool.Pool
	kind         models.EntityKind
	table        string
	titleColumns string
	resource     string
}

func (t *trashTable) Kind() models.EntityKind {
	return t.kind
}

func (t *trashTable) SoftDelete(ctx context.Context, id int64, deletedBy string) error {
	start := time.Now()
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_by = $2, deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, t.table)

	tag, err := t.pool.Exec(ctx, query, id, deletedBy)
	if err == nil && tag.RowsAffected() == 0 {
		err = apperrors.NotFoundError(t.resource)
	}
	observe(t.table+".soft_delete", start, err, zap.Int64("id", id))
	if err != nil {
		return fmt.Errorf("failed to soft delete %s %d: %w", t.resource, id, err)
	}
	return nil
}

func (t *trashTable) ListTrashed(ctx context.Context) ([]models.TrashEntry, error) {
	start := time.Now()
	query := fmt.Sprintf(`
		SELECT id, %s, deleted_by, deleted_at
		FROM %s
		WHERE deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`, t.titleColumns, t.table)

	rows, err := t.pool.Query(ctx, query)
	if err != nil {
		observe(t.table+".list_trashed", start, err)
		return nil, fmt.Errorf("failed to list trashed %s: %w", t.table, err)
	}
	defer rows.Close()

	entries := []models.TrashEntry{}
	for rows.Next() {
		var (
			entry                models.TrashEntry
			title, name, subject *string
			deletedBy            *string
			deletedAt            time.Time
		)
		if err := rows.Scan(&entry.ID, &title, &name, &subject, &deletedBy, &deletedAt); err != nil {
			observe(t.table+".list_trashed", start, err)
			return nil, fmt.Errorf("failed to scan trashed %s: %w", t.table, err)
		}
		entry.Entity = t.kind
		entry.Title = models.TrashTitle(title, name, subject)
		entry.DeletedBy = models.DeletedByOrFallback(deletedBy)
		entry.DeletedAt = &deletedAt
		entries = append(entries, entry)
	}

	err = rows.Err()
	observe(t.table+".list_trashed", start, err, zap.Int("count", len(entries)))
	if err != nil {
		return nil, fmt.Errorf("failed to iterate trashed %s: %w", t.table, err)
	}
	return entries, nil
}

func (t *trashTable) Restore(ctx context.Context, id int64) error {
	start := time.Now()
	query := fmt.Sprintf(`UPDATE %s SET deleted_at = NULL WHERE id = $1`, t.table)

	tag, err := t.pool.Exec(ctx, query, id)
	if err == nil && tag.RowsAffected() == 0 {
		err = apperrors.NotFoundError(t.resource)
	}
	observe(t.table+".restore", start, err, zap.Int64("id", id))
	if err != nil {
		return fmt.Errorf("failed to restore %s %d: %w", t.resource, id, err)
	}
	return nil
}

func (t *trashTable) Purge(ctx context.Context, id int64) error {
	start := time.Now()
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.table)

	tag, err := t.pool.Exec(ctx, query, id)
	if err == nil && tag.RowsAffected() == 0 {
		err = apperrors.NotFoundError(t.resource)
	}
	observe(t.table+".purge", start, err, zap.Int64("id", id))
	if err != nil {
		return fmt.Errorf("failed to purge %s %d: %w", t.resource, id, err)
	}
	return nil
}

func (t *trashTable) PurgeTrashed(ctx context.Context) (int64, error) {
	start := time.Now()
	query := fmt.Sprintf(`DELETE FROM %s WHERE deleted_at IS NOT NULL`, t.table)

	tag, err := t.pool.Exec(ctx, query)
	observe(t.table+".purge_trashed", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to empty trashed %s: %w", t.table, err)
	}
	return tag.RowsAffected(), nil
}
