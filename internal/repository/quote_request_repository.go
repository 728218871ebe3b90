package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

// QuoteRequestRepository handles demandes_devis data access
type QuoteRequestRepository struct {
	*trashTable
}

// NewQuoteRequestRepository creates a new quote request repository
func NewQuoteRequestRepository(pool *pgxpool.Pool) *QuoteRequestRepository {
	return &QuoteRequestRepository{
		trashTable: &trashTable{
			pool:         pool,
			kind:         models.EntityQuoteRequests,
			table:        "demandes_devis",
			titleColumns: "NULL::text, name, NULL::text",
			resource:     "quote request",
		},
	}
}

var _ QuoteRequestStore = (*QuoteRequestRepository)(nil)

// List returns one page of active quote requests, newest first, with the total match count
func (r *QuoteRequestRepository) List(ctx context.Context, filter models.QuoteRequestFilter, perPage int) ([]*models.QuoteRequest, int, error) {
	start := time.Now()

	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argN := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		p := argN("%" + s + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE %[1]s OR email ILIKE %[1]s OR phone ILIKE %[1]s OR formation ILIKE %[1]s OR notes ILIKE %[1]s OR traitement_notes ILIKE %[1]s)", p))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = "+argN(filter.Status))
	}
	if f := strings.TrimSpace(filter.Formation); f != "" {
		conditions = append(conditions, "formation ILIKE "+argN("%"+f+"%"))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM demandes_devis WHERE "+where, args...).Scan(&total)
	if err != nil {
		observe("demandes_devis.count", start, err)
		return nil, 0, fmt.Errorf("failed to count quote requests: %w", err)
	}

	limit := argN(perPage)
	offset := argN(models.PageOffset(filter.Page, perPage))
	query := fmt.Sprintf(`
		SELECT %s
		FROM demandes_devis
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT %s OFFSET %s
	`, models.QuoteRequestColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		observe("demandes_devis.list", start, err)
		return nil, 0, fmt.Errorf("failed to query quote requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.QuoteRequest{}
	for rows.Next() {
		q, err := models.ScanQuoteRequest(rows)
		if err != nil {
			observe("demandes_devis.list", start, err)
			return nil, 0, fmt.Errorf("failed to scan quote request: %w", err)
		}
		requests = append(requests, q)
	}

	err = rows.Err()
	observe("demandes_devis.list", start, err, zap.Int("count", len(requests)), zap.Int("total", total))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to iterate quote requests: %w", err)
	}
	return requests, total, nil
}

// GetByID returns an active quote request
func (r *QuoteRequestRepository) GetByID(ctx context.Context, id int64) (*models.QuoteRequest, error) {
	start := time.Now()
	query := fmt.Sprintf(`SELECT %s FROM demandes_devis WHERE id = $1 AND deleted_at IS NULL`, models.QuoteRequestColumns)

	q, err := models.ScanQuoteRequest(r.pool.QueryRow(ctx, query, id))
	observe("demandes_devis.get", start, err, zap.Int64("id", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("quote request")
		}
		return nil, fmt.Errorf("failed to get quote request %d: %w", id, err)
	}
	return q, nil
}

// Create inserts a quote request and fills its id and timestamps
func (r *QuoteRequestRepository) Create(ctx context.Context, q *models.QuoteRequest) error {
	start := time.Now()
	query := `
		INSERT INTO demandes_devis (formation, name, email, phone, notes, status, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		q.Formation, q.Name, q.Email, q.Phone, q.Notes, q.Status, q.ClientIP, q.UserAgent,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	observe("demandes_devis.create", start, err)
	if err != nil {
		return fmt.Errorf("failed to create quote request: %w", err)
	}
	return nil
}

// Update writes the editable and processing fields of an active quote request
func (r *QuoteRequestRepository) Update(ctx context.Context, q *models.QuoteRequest) error {
	start := time.Now()
	query := `
		UPDATE demandes_devis
		SET formation = $2, name = $3, email = $4, phone = $5, notes = $6, status = $7,
			processed_at = $8, processed_by = $9, traitement_notes = $10, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		q.ID, q.Formation, q.Name, q.Email, q.Phone, q.Notes, q.Status,
		q.ProcessedAt, q.ProcessedBy, q.TraitementNotes,
	).Scan(&q.UpdatedAt)
	observe("demandes_devis.update", start, err, zap.Int64("id", q.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFoundError("quote request")
		}
		return fmt.Errorf("failed to update quote request %d: %w", q.ID, err)
	}
	return nil
}
