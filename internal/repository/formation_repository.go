package repository

import (
	"context"
	"encoding/json"
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

// FormationRepository handles formation data access
type FormationRepository struct {
	*trashTable
}

// NewFormationRepository creates a new formation repository
func NewFormationRepository(pool *pgxpool.Pool) *FormationRepository {
	return &FormationRepository{
		trashTable: &trashTable{
			pool:         pool,
			kind:         models.EntityFormations,
			table:        "formations",
			titleColumns: "title, NULL::text, NULL::text",
			resource:     "formation",
		},
	}
}

var _ FormationStore = (*FormationRepository)(nil)

// List returns active formations matching the filter, newest first
func (r *FormationRepository) List(ctx context.Context, filter models.FormationFilter) ([]*models.Formation, error) {
	start := time.Now()

	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argN := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		p := argN("%" + s + "%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE %s OR category ILIKE %s OR description ILIKE %s)", p, p, p))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = "+argN(filter.Category))
	}
	if filter.Language != "" {
		conditions = append(conditions, "language = "+argN(filter.Language))
	}
	if filter.Objective != "" {
		encoded, err := json.Marshal([]string{filter.Objective})
		if err != nil {
			return nil, fmt.Errorf("failed to encode objective filter: %w", err)
		}
		conditions = append(conditions, "objectives @> "+argN(string(encoded))+"::jsonb")
	}
	if filter.Popular != nil {
		conditions = append(conditions, "popular = "+argN(*filter.Popular))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM formations
		WHERE %s
		ORDER BY created_at DESC, id DESC
	`, models.FormationColumns, strings.Join(conditions, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		observe("formations.list", start, err)
		return nil, fmt.Errorf("failed to query formations: %w", err)
	}
	defer rows.Close()

	formations := []*models.Formation{}
	for rows.Next() {
		f, err := models.ScanFormation(rows)
		if err != nil {
			observe("formations.list", start, err)
			return nil, fmt.Errorf("failed to scan formation: %w", err)
		}
		formations = append(formations, f)
	}

	err = rows.Err()
	observe("formations.list", start, err, zap.Int("count", len(formations)))
	if err != nil {
		return nil, fmt.Errorf("failed to iterate formations: %w", err)
	}
	return formations, nil
}

// GetByID returns an active formation
func (r *FormationRepository) GetByID(ctx context.Context, id int64) (*models.Formation, error) {
	start := time.Now()
	query := fmt.Sprintf(`SELECT %s FROM formations WHERE id = $1 AND deleted_at IS NULL`, models.FormationColumns)

	f, err := models.ScanFormation(r.pool.QueryRow(ctx, query, id))
	observe("formations.get", start, err, zap.Int64("id", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("formation")
		}
		return nil, fmt.Errorf("failed to get formation %d: %w", id, err)
	}
	return f, nil
}

// Create inserts a formation and fills its id and timestamps
func (r *FormationRepository) Create(ctx context.Context, f *models.Formation) error {
	start := time.Now()

	objectives, err := json.Marshal(f.Objectives)
	if err != nil {
		return fmt.Errorf("failed to encode objectives: %w", err)
	}

	query := `
		INSERT INTO formations (title, category, certification, participants, level, description,
			objectives, icon_key, language, popular)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		f.Title, f.Category, f.Certification, f.Participants, f.Level, f.Description,
		objectives, f.IconKey, f.Language, f.Popular,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	observe("formations.create", start, err)
	if err != nil {
		return fmt.Errorf("failed to create formation: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of an active formation
func (r *FormationRepository) Update(ctx context.Context, f *models.Formation) error {
	start := time.Now()

	objectives, err := json.Marshal(f.Objectives)
	if err != nil {
		return fmt.Errorf("failed to encode objectives: %w", err)
	}

	query := `
		UPDATE formations
		SET title = $2, category = $3, certification = $4, participants = $5, level = $6,
			description = $7, objectives = $8, icon_key = $9, language = $10, popular = $11,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		f.ID, f.Title, f.Category, f.Certification, f.Participants, f.Level,
		f.Description, objectives, f.IconKey, f.Language, f.Popular,
	).Scan(&f.UpdatedAt)
	observe("formations.update", start, err, zap.Int64("id", f.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFoundError("formation")
		}
		return fmt.Errorf("failed to update formation %d: %w", f.ID, err)
	}
	return nil
}
