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

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

const userColumns = `id, name, email, password_hash, is_admin, created_at, updated_at`

// UserRepository handles back-office account data access
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ UserStore = (*UserRepository)(nil)

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// FirstAdmin returns the admin with the lowest id, or nil when there is none
func (r *UserRepository) FirstAdmin(ctx context.Context) (*models.User, error) {
	start := time.Now()
	query := fmt.Sprintf(`SELECT %s FROM users WHERE is_admin ORDER BY id LIMIT 1`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query))
	observe("users.first_admin", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find admin user: %w", err)
	}
	return u, nil
}

// GetByEmail returns a user by case-insensitive email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()
	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email) = $1`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
	observe("users.get_by_email", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("user")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// GetByID returns a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	start := time.Now()
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	observe("users.get", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("user")
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return u, nil
}

// UpsertAdmin creates the admin account or resets its name and password
func (r *UserRepository) UpsertAdmin(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	start := time.Now()
	query := fmt.Sprintf(`
		INSERT INTO users (name, email, password_hash, is_admin)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash, is_admin = TRUE, updated_at = NOW()
		RETURNING %s
	`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, name, strings.ToLower(strings.TrimSpace(email)), passwordHash))
	observe("users.upsert_admin", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert admin user: %w", err)
	}
	return u, nil
}
