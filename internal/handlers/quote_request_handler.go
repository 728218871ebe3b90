package handlers

import (
	"net/http"
	"strings"

	"github.com/cabinetrenov/renov-api/internal/middleware"
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/gin-gonic/gin"
)

// QuoteRequestHandler handles demandes de devis
type QuoteRequestHandler struct {
	service services.QuoteRequestServiceInterface
}

func NewQuoteRequestHandler(service services.QuoteRequestServiceInterface) *QuoteRequestHandler {
	return &QuoteRequestHandler{service: service}
}

// Create handles the public POST /api/demandes-devis
func (h *QuoteRequestHandler) Create(c *gin.Context) {
	var in models.CreateQuoteRequestInput
	if !bindJSON(c, &in) {
		return
	}

	q, err := h.service.Create(c.Request.Context(), &in, submissionContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": q})
}

// List handles GET /api/demandes-devis
func (h *QuoteRequestHandler) List(c *gin.Context) {
	filter := models.QuoteRequestFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		Status:    c.Query("status"),
		Formation: strings.TrimSpace(c.Query("formation")),
		Page:      queryInt(c, "page", 1),
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Show handles GET /api/demandes-devis/:id
func (h *QuoteRequestHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	q, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": q})
}

// Update handles PUT/PATCH /api/demandes-devis/:id, including status transitions
func (h *QuoteRequestHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in models.UpdateQuoteRequestInput
	if !bindJSON(c, &in) {
		return
	}

	q, err := h.service.Update(c.Request.Context(), id, &in, middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": q})
}

// Delete handles DELETE /api/demandes-devis/:id and moves the request to the trash
func (h *QuoteRequestHandler) Delete(c *gin.Context) {
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
