// Command seed creates the back-office administrator and the category taxonomy.
// It is safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cabinetrenov/renov-api/config"
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/repository"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/cabinetrenov/renov-api/pkg/db"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/slug"
	"go.uber.org/zap"
)

func main() {
	adminEmail := flag.String("admin-email", envOr("SEED_ADMIN_EMAIL", "admin@cabinet-renov.ma"), "administrator email")
	adminName := flag.String("admin-name", envOr("SEED_ADMIN_NAME", "Admin"), "administrator display name")
	skipCategories := flag.Bool("skip-categories", false, "only seed the administrator")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: "renov-seed",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if len(password) < 12 {
		logger.Fatal("SEED_ADMIN_PASSWORD must be set to at least 12 characters")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:        cfg.Database.URL,
		MaxConns:   2,
		MinConns:   1,
		CACertPath: cfg.Database.CACertPath,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := seedAdmin(ctx, repository.NewUserRepository(pool), *adminName, *adminEmail, password); err != nil {
		logger.Fatal("Failed to seed administrator", zap.Error(err))
	}

	if !*skipCategories {
		if err := seedCategories(ctx, repository.NewCategoryRepository(pool)); err != nil {
			logger.Fatal("Failed to seed categories", zap.Error(err))
		}
	}

	logger.Info("Seeding completed")
}

func seedAdmin(ctx context.Context, users *repository.UserRepository, name, email, password string) error {
	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}

	user, err := users.UpsertAdmin(ctx, name, strings.ToLower(strings.TrimSpace(email)), hash)
	if err != nil {
		return err
	}

	logger.Info("Administrator ready", zap.Int64("id", user.ID), zap.String("email", user.Email))
	return nil
}

func seedCategories(ctx context.Context, categories *repository.CategoryRepository) error {
	var created int
	for _, group := range taxonomy {
		icon := group.IconKey
		root := &models.Category{
			Name:     group.Name,
			Slug:     slug.Generate(group.Name),
			IconKey:  &icon,
			IsActive: true,
		}
		isNew, err := categories.FirstOrCreate(ctx, root)
		if err != nil {
			return fmt.Errorf("root %q: %w", group.Name, err)
		}
		if isNew {
			created++
		}

		for i, name := range group.Subs {
			parentID := root.ID
			sub := &models.Category{
				Name:      name,
				Slug:      subSlug(group.Name, name),
				ParentID:  &parentID,
				IsActive:  true,
				SortOrder: i,
			}
			isNew, err := categories.FirstOrCreate(ctx, sub)
			if err != nil {
				return fmt.Errorf("subcategory %q: %w", name, err)
			}
			if isNew {
				created++
			}
		}
	}

	logger.Info("Categories seeded", zap.Int("created", created))
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
