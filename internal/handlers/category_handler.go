package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/gin-gonic/gin"
)

const maxCategoriesPerPage = 100

// CategoryHandler serves the formation category taxonomy
type CategoryHandler struct {
	service services.CategoryServiceInterface
}

func NewCategoryHandler(service services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /api/public/categories.
// With ?tree=1 it returns the root categories with their children,
// otherwise a paginated flat list.
func (h *CategoryHandler) List(c *gin.Context) {
	if tree, _ := queryBool(c, "tree"); tree {
		categories, err := h.service.Tree(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
		return
	}

	filter := models.CategoryFilter{
		Search:  strings.TrimSpace(c.Query("search")),
		Page:    queryInt(c, "page", 1),
		PerPage: min(queryInt(c, "per_page", services.DefaultCategoriesPerPage), maxCategoriesPerPage),
	}
	if raw := c.Query("parent_id"); raw != "" {
		parentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, "Le champ parent_id est invalide.", err)
			return
		}
		filter.ParentID = &parentID
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Roots handles GET /api/public/categories/roots
func (h *CategoryHandler) Roots(c *gin.Context) {
	roots, err := h.service.Roots(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roots)
}

// Show handles GET /api/public/categories/:id
func (h *CategoryHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	category, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var in models.CreateCategoryInput
	if !bindJSON(c, &in) {
		return
	}

	category, err := h.service.Create(c.Request.Context(), &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// Update handles PUT/PATCH /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in models.UpdateCategoryInput
	if !bindJSON(c, &in) {
		return
	}

	category, err := h.service.Update(c.Request.Context(), id, &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /api/categories/:id. Categories are removed for good.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
