package services

import (
	"context"
	"strings"

	"github.com/cabinetrenov/renov-api/internal/cache"
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/repository"
	"github.com/cabinetrenov/renov-api/pkg/slug"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

// DefaultCategoriesPerPage is the flat list page size when none is requested
const DefaultCategoriesPerPage = 20

var (
	ErrCategoryParentRequired = apperrors.Rule("Le parent est obligatoire pour une sous-catégorie.")
	ErrCategoryHasChildren    = apperrors.Rule("Supprimez ou déplacez les sous-catégories d’abord.")
	ErrCategorySlugTaken      = apperrors.Rule("Ce slug est déjà utilisé.")
	ErrCategoryParentInvalid  = apperrors.Rule("La catégorie parente est invalide.")
)

// CategoryService manages the category tree. Public reads go through the cache.
type CategoryService struct {
	repo  repository.CategoryStore
	cache *cache.CategoryCache
}

// NewCategoryService creates a new category service
func NewCategoryService(repo repository.CategoryStore, categoryCache *cache.CategoryCache) *CategoryService {
	return &CategoryService{repo: repo, cache: categoryCache}
}

// List returns a flat page of categories
func (s *CategoryService) List(ctx context.Context, filter models.CategoryFilter) (models.Page[*models.Category], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = DefaultCategoriesPerPage
	}

	page, err := s.cache.List(ctx, filter, func(ctx context.Context) (cache.CategoryPage, error) {
		items, total, err := s.repo.List(ctx, filter)
		return cache.CategoryPage{Items: items, Total: total}, err
	})
	if err != nil {
		return models.Page[*models.Category]{}, err
	}
	return models.NewPage(page.Items, filter.Page, filter.PerPage, page.Total), nil
}

// Tree returns root categories with their children
func (s *CategoryService) Tree(ctx context.Context) ([]*models.Category, error) {
	return s.cache.Tree(ctx, s.repo.Tree)
}

// Roots returns root categories by name
func (s *CategoryService) Roots(ctx context.Context) ([]*models.Category, error) {
	return s.cache.Roots(ctx, s.repo.Roots)
}

// Get returns a category with its children
func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a category. The slug defaults to the slugified name.
func (s *CategoryService) Create(ctx context.Context, in *models.CreateCategoryInput) (*models.Category, error) {
	if in.Type != nil && *in.Type == models.CategoryTypeSubcategory && in.ParentID == nil {
		return nil, ErrCategoryParentRequired
	}

	c := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		IconKey:     in.IconKey,
		Description: in.Description,
		ParentID:    in.ParentID,
		IsActive:    true,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}

	c.Slug = slug.Generate(c.Name)
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		c.Slug = strings.TrimSpace(*in.Slug)
	}

	if err := s.checkParent(ctx, c.ParentID, 0); err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, c.Slug, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return c, nil
}

// Update applies a partial update. Renaming without an explicit slug regenerates it.
func (s *CategoryService) Update(ctx context.Context, id int64, in *models.UpdateCategoryInput) (*models.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	switch {
	case in.Slug != nil && strings.TrimSpace(*in.Slug) != "":
		c.Slug = strings.TrimSpace(*in.Slug)
	case in.Name != nil:
		c.Slug = slug.Generate(c.Name)
	}
	if in.IconKey != nil {
		c.IconKey = in.IconKey
	}
	if in.Description != nil {
		c.Description = in.Description
	}
	if in.ParentID != nil {
		if err := s.checkParent(ctx, in.ParentID, id); err != nil {
			return nil, err
		}
		c.ParentID = in.ParentID
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}

	if err := s.checkSlug(ctx, c.Slug, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return c, nil
}

// Delete removes a category that has no subcategories
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	hasChildren, err := s.repo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return ErrCategoryHasChildren
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *CategoryService) checkParent(ctx context.Context, parentID *int64, selfID int64) error {
	if parentID == nil {
		return nil
	}
	if *parentID == selfID {
		return ErrCategoryParentInvalid
	}
	if _, err := s.repo.GetByID(ctx, *parentID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return ErrCategoryParentInvalid
		}
		return err
	}
	return nil
}

func (s *CategoryService) checkSlug(ctx context.Context, value string, excludeID int64) error {
	if value == "" {
		return apperrors.InvalidInputError("slug", "cannot be derived from name")
	}
	taken, err := s.repo.SlugExists(ctx, value, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrCategorySlugTaken
	}
	return nil
}
