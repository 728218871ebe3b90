package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// Category is a node of the formation taxonomy. Roots have no parent.
type Category struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	IconKey     *string     `json:"icon_key"`
	Description *string     `json:"description"`
	ParentID    *int64      `json:"parent_id"`
	IsActive    bool        `json:"is_active"`
	SortOrder   int         `json:"sort_order"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Children    []*Category `json:"children,omitempty"`
}

// CategoryType distinguishes roots from subcategories on creation
type CategoryType string

const (
	CategoryTypeRoot        CategoryType = "category"
	CategoryTypeSubcategory CategoryType = "subcategory"
)

// CreateCategoryInput is the create payload of a category
type CreateCategoryInput struct {
	Name        string        `json:"name" binding:"required,max=255"`
	Slug        *string       `json:"slug" binding:"omitempty,max=255"`
	IconKey     *string       `json:"icon_key" binding:"omitempty,max=255"`
	Description *string       `json:"description"`
	ParentID    *int64        `json:"parent_id"`
	IsActive    *bool         `json:"is_active"`
	SortOrder   *int          `json:"sort_order" binding:"omitempty,min=0"`
	Type        *CategoryType `json:"type" binding:"omitempty,oneof=category subcategory"`
}

// UpdateCategoryInput is the partial update of a category. Nil fields are left unchanged.
type UpdateCategoryInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug" binding:"omitempty,max=255"`
	IconKey     *string `json:"icon_key" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	ParentID    *int64  `json:"parent_id"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order" binding:"omitempty,min=0"`
}

// CategoryFilter holds the flat public list filters
type CategoryFilter struct {
	ParentID *int64
	Search   string
	Page     int
	PerPage  int
}

// CategoryColumns is the column list expected by ScanCategory
const CategoryColumns = `id, name, slug, icon_key, description, parent_id, is_active, sort_order, created_at, updated_at`

// ScanCategory scans a row selected with CategoryColumns
func ScanCategory(row pgx.Row) (*Category, error) {
	var c Category
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.IconKey,
		&c.Description,
		&c.ParentID,
		&c.IsActive,
		&c.SortOrder,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
