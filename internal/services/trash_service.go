package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/repository"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"github.com/cabinetrenov/renov-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

// softDelete records who deleted the row, falling back to the system label, and hides it
func softDelete(ctx context.Context, store repository.Trashable, id int64, actor *models.Actor) error {
	deletedBy := strings.TrimSpace(models.ActorName(actor))
	if deletedBy == "" {
		deletedBy = models.DeletedByFallback
	}

	if err := store.SoftDelete(ctx, id, deletedBy); err != nil {
		return err
	}

	metrics.TrashOperations.WithLabelValues(string(store.Kind()), "soft_delete").Inc()
	logger.Info("Record moved to trash",
		zap.String("entity", string(store.Kind())),
		zap.Int64("id", id),
		zap.String("deleted_by", deletedBy))
	return nil
}

// TrashService aggregates the soft-deleted rows of every registered entity.
// Registration order is the scan order of the bare-id purge.
type TrashService struct {
	stores []repository.Trashable
	byKind map[models.EntityKind]repository.Trashable
}

// NewTrashService creates a trash service over stores, in scan order
func NewTrashService(stores ...repository.Trashable) *TrashService {
	byKind := make(map[models.EntityKind]repository.Trashable, len(stores))
	for _, s := range stores {
		byKind[s.Kind()] = s
	}
	return &TrashService{stores: stores, byKind: byKind}
}

// List returns every trashed record, most recently deleted first
func (s *TrashService) List(ctx context.Context) ([]models.TrashEntry, error) {
	ctx, span := tracing.StartSpan(ctx, "trash.list")
	defer span.End()

	entries := []models.TrashEntry{}
	for _, store := range s.stores {
		trashed, err := store.ListTrashed(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list trashed %s: %w", store.Kind(), err)
		}
		entries = append(entries, trashed...)
	}

	span.SetAttributes(attribute.Int("trash.entries", len(entries)))
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].DeletedAt, entries[j].DeletedAt
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	return entries, nil
}

// resolve looks up an entity tag. Unknown tags are a BadRequest.
func (s *TrashService) resolve(kind string) (repository.Trashable, error) {
	store, ok := s.byKind[models.EntityKind(kind)]
	if !ok {
		return nil, apperrors.BadRequestError(fmt.Sprintf("unknown entity kind %q", kind))
	}
	return store, nil
}

// Restore brings a record of the given kind back from the trash
func (s *TrashService) Restore(ctx context.Context, kind string, id int64) (models.EntityKind, error) {
	store, err := s.resolve(kind)
	if err != nil {
		return "", err
	}

	if err := store.Restore(ctx, id); err != nil {
		return "", err
	}

	metrics.TrashOperations.WithLabelValues(string(store.Kind()), "restore").Inc()
	logger.Info("Record restored", zap.String("entity", kind), zap.Int64("id", id))
	return store.Kind(), nil
}

// PurgeKind permanently removes a record of the given kind, trashed or not
func (s *TrashService) PurgeKind(ctx context.Context, kind string, id int64) error {
	store, err := s.resolve(kind)
	if err != nil {
		return err
	}
	return s.purge(ctx, store, id)
}

// Purge permanently removes the first record with this id, scanning entities in
// registration order. Ids shared by several entities only reach the first one.
//
// Deprecated: use PurgeKind, which cannot hit the wrong entity.
func (s *TrashService) Purge(ctx context.Context, id int64) (models.EntityKind, error) {
	ctx, span := tracing.StartSpan(ctx, "trash.purge_by_id", attribute.Int64("record.id", id))
	defer span.End()

	for _, store := range s.stores {
		err := s.purge(ctx, store, id)
		if err == nil {
			return store.Kind(), nil
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
	}
	return "", apperrors.NotFoundError("trashed record")
}

func (s *TrashService) purge(ctx context.Context, store repository.Trashable, id int64) error {
	if err := store.Purge(ctx, id); err != nil {
		return err
	}
	metrics.TrashOperations.WithLabelValues(string(store.Kind()), "purge").Inc()
	logger.Warn("Record purged", zap.String("entity", string(store.Kind())), zap.Int64("id", id))
	return nil
}

// Empty permanently removes every trashed record of every entity and returns how many went away
func (s *TrashService) Empty(ctx context.Context) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "trash.empty")
	defer span.End()

	var total int64
	for _, store := range s.stores {
		n, err := store.PurgeTrashed(ctx)
		if err != nil {
			return total, fmt.Errorf("failed to empty trashed %s: %w", store.Kind(), err)
		}
		total += n
		metrics.TrashOperations.WithLabelValues(string(store.Kind()), "empty").Add(float64(n))
	}

	span.SetAttributes(attribute.Int64("trash.purged", total))
	logger.Warn("Trash emptied", zap.Int64("purged", total))
	return total, nil
}
