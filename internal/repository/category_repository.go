package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

// CategoryRepository handles category data access
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

var _ CategoryStore = (*CategoryRepository)(nil)

func (r *CategoryRepository) queryCategories(ctx context.Context, operation, query string, args ...interface{}) ([]*models.Category, error) {
	start := time.Now()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		c, err := models.ScanCategory(rows)
		if err != nil {
			observe(operation, start, err)
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	err = rows.Err()
	observe(operation, start, err, zap.Int("count", len(categories)))
	if err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// List returns one flat page of categories ordered by parent then sort order
func (r *CategoryRepository) List(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argN := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ParentID != nil {
		conditions = append(conditions, "parent_id = "+argN(*filter.ParentID))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		conditions = append(conditions, "name ILIKE "+argN("%"+s+"%"))
	}
	where := strings.Join(conditions, " AND ")

	start := time.Now()
	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM categories WHERE "+where, args...).Scan(&total)
	observe("categories.count", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	limit := argN(filter.PerPage)
	offset := argN(models.PageOffset(filter.Page, filter.PerPage))
	query := fmt.Sprintf(`
		SELECT %s FROM categories
		WHERE %s
		ORDER BY parent_id NULLS FIRST, sort_order, id
		LIMIT %s OFFSET %s
	`, models.CategoryColumns, where, limit, offset)

	categories, err := r.queryCategories(ctx, "categories.list", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// Roots returns the categories without parent, by name
func (r *CategoryRepository) Roots(ctx context.Context) ([]*models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE parent_id IS NULL ORDER BY name`, models.CategoryColumns)
	return r.queryCategories(ctx, "categories.roots", query)
}

// Tree returns root categories by sort order, each with its direct children attached
func (r *CategoryRepository) Tree(ctx context.Context) ([]*models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY sort_order, id`, models.CategoryColumns)
	all, err := r.queryCategories(ctx, "categories.tree", query)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Category, len(all))
	for _, c := range all {
		c.Children = []*models.Category{}
		byID[c.ID] = c
	}

	roots := []*models.Category{}
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Children = append(parent.Children, c)
		}
	}
	return roots, nil
}

// GetByID returns a category with its direct children
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	start := time.Now()
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, models.CategoryColumns)

	c, err := models.ScanCategory(r.pool.QueryRow(ctx, query, id))
	observe("categories.get", start, err, zap.Int64("id", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("category")
		}
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}

	childQuery := fmt.Sprintf(`SELECT %s FROM categories WHERE parent_id = $1 ORDER BY sort_order, id`, models.CategoryColumns)
	children, err := r.queryCategories(ctx, "categories.children", childQuery, id)
	if err != nil {
		return nil, err
	}
	c.Children = children
	return c, nil
}

// SlugExists reports whether another category already uses slug
func (r *CategoryRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	start := time.Now()
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`, slug, excludeID,
	).Scan(&exists)
	observe("categories.slug_exists", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to check category slug: %w", err)
	}
	return exists, nil
}

// HasChildren reports whether a category has subcategories
func (r *CategoryRepository) HasChildren(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE parent_id = $1)`, id).Scan(&exists)
	observe("categories.has_children", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to check category children: %w", err)
	}
	return exists, nil
}

// Create inserts a category
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	start := time.Now()
	query := `
		INSERT INTO categories (name, slug, icon_key, description, parent_id, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		c.Name, c.Slug, c.IconKey, c.Description, c.ParentID, c.IsActive, c.SortOrder,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	observe("categories.create", start, err)
	if err != nil {
		return translateCategoryError(err, "create")
	}
	return nil
}

// Update writes every field of a category
func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	start := time.Now()
	query := `
		UPDATE categories
		SET name = $2, slug = $3, icon_key = $4, description = $5, parent_id = $6,
			is_active = $7, sort_order = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		c.ID, c.Name, c.Slug, c.IconKey, c.Description, c.ParentID, c.IsActive, c.SortOrder,
	).Scan(&c.UpdatedAt)
	observe("categories.update", start, err, zap.Int64("id", c.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFoundError("category")
		}
		return translateCategoryError(err, "update")
	}
	return nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err == nil && tag.RowsAffected() == 0 {
		err = apperrors.NotFoundError("category")
	}
	observe("categories.delete", start, err, zap.Int64("id", id))
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return nil
}

func translateCategoryError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperrors.ConflictError("category slug already exists")
		case "23503":
			return apperrors.InvalidInputError("parent_id", "parent category does not exist")
		}
	}
	return fmt.Errorf("failed to %s category: %w", op, err)
}

// FirstOrCreate inserts c unless its slug is taken and loads the stored id and timestamps either way.
// Existing rows are left untouched.
func (r *CategoryRepository) FirstOrCreate(ctx context.Context, c *models.Category) (created bool, err error) {
	start := time.Now()
	query := `
		WITH ins AS (
			INSERT INTO categories (name, slug, icon_key, description, parent_id, is_active, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (slug) DO NOTHING
			RETURNING id, created_at, updated_at
		)
		SELECT id, created_at, updated_at, TRUE FROM ins
		UNION ALL
		SELECT id, created_at, updated_at, FALSE FROM categories WHERE slug = $2
		LIMIT 1
	`

	err = r.pool.QueryRow(ctx, query,
		c.Name, c.Slug, c.IconKey, c.Description, c.ParentID, c.IsActive, c.SortOrder,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &created)
	observe("categories.first_or_create", start, err, zap.String("slug", c.Slug))
	if err != nil {
		return false, translateCategoryError(err, "create")
	}
	return created, nil
}
