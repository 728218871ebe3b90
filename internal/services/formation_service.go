package services

import (
	"context"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/repository"
)

// FormationService handles the formation catalog
type FormationService struct {
	repo repository.FormationStore
}

// NewFormationService creates a new formation service
func NewFormationService(repo repository.FormationStore) *FormationService {
	return &FormationService{repo: repo}
}

func (s *FormationService) List(ctx context.Context, filter models.FormationFilter) ([]*models.Formation, error) {
	return s.repo.List(ctx, filter)
}

func (s *FormationService) Get(ctx context.Context, id int64) (*models.Formation, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a formation from a normalized and validated input
func (s *FormationService) Create(ctx context.Context, in *models.FormationInput) (*models.Formation, error) {
	f := &models.Formation{}
	in.ApplyTo(f)

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Update replaces every editable field of an active formation
func (s *FormationService) Update(ctx context.Context, id int64, in *models.FormationInput) (*models.Formation, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.ApplyTo(f)
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Delete moves a formation to the trash
func (s *FormationService) Delete(ctx context.Context, id int64, actor *models.Actor) error {
	return softDelete(ctx, s.repo, id, actor)
}
