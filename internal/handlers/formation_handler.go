package handlers

import (
	"net/http"

	"github.com/cabinetrenov/renov-api/internal/middleware"
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/gin-gonic/gin"
)

// FormationHandler serves the course catalog
type FormationHandler struct {
	service services.FormationServiceInterface
}

func NewFormationHandler(service services.FormationServiceInterface) *FormationHandler {
	return &FormationHandler{service: service}
}

// List handles GET /api/formations
func (h *FormationHandler) List(c *gin.Context) {
	filter := models.FormationFilter{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		Language:  c.Query("language"),
		Objective: c.Query("objective"),
	}
	if popular, ok := queryBool(c, "popular"); ok {
		filter.Popular = &popular
	}

	formations, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if formations == nil {
		formations = []*models.Formation{}
	}

	c.JSON(http.StatusOK, gin.H{"data": formations})
}

// Show handles GET /api/formations/:id
func (h *FormationHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	f, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": f})
}

// Create handles POST /api/formations
func (h *FormationHandler) Create(c *gin.Context) {
	var in models.FormationInput
	if !bindJSON(c, &in) {
		return
	}

	f, err := h.service.Create(c.Request.Context(), &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": f})
}

// Update handles PUT/PATCH /api/formations/:id
func (h *FormationHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in models.FormationInput
	if !bindJSON(c, &in) {
		return
	}

	f, err := h.service.Update(c.Request.Context(), id, &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": f})
}

// Delete handles DELETE /api/formations/:id and moves the formation to the trash
func (h *FormationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
