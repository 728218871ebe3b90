package handlers

import (
	"net/http"
	"strconv"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/gin-gonic/gin"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

const (
	msgUnknownKind   = "Type non reconnu."
	msgEntryNotFound = "Élément introuvable."
	msgPurgeNotFound = "Introuvable."
	msgPurged        = "Supprimé définitivement."
	msgTrashEmptied  = "Corbeille vidée."
)

// TrashHandler exposes the soft-deleted formations, quote requests and contact messages
type TrashHandler struct {
	service services.TrashServiceInterface
}

func NewTrashHandler(service services.TrashServiceInterface) *TrashHandler {
	return &TrashHandler{service: service}
}

// List handles GET /api/trash
func (h *TrashHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Restore handles POST /api/trash/:key/:id/restore where key is the entity kind
func (h *TrashHandler) Restore(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, msgEntryNotFound, err)
		return
	}

	kind, err := h.service.Restore(c.Request.Context(), c.Param("key"), id)
	if err != nil {
		h.respondTrashError(c, err, msgEntryNotFound)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: kind.Label() + " restauré avec succès."})
}

// PurgeKind handles DELETE /api/trash/:key/:id
func (h *TrashHandler) PurgeKind(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, msgPurgeNotFound, err)
		return
	}

	if err := h.service.PurgeKind(c.Request.Context(), c.Param("key"), id); err != nil {
		h.respondTrashError(c, err, msgPurgeNotFound)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: msgPurged})
}

// PurgeByID handles DELETE /api/trash/:key where key is a bare record id.
// The first entity kind holding that id is purged.
//
// Deprecated: ids are not unique across kinds, use PurgeKind.
func (h *TrashHandler) PurgeByID(c *gin.Context) {
	c.Header("Deprecation", "true")
	c.Header("Link", `</api/trash/{kind}/{id}>; rel="successor-version"`)

	id, err := strconv.ParseInt(c.Param("key"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, msgPurgeNotFound, err)
		return
	}

	if _, err := h.service.Purge(c.Request.Context(), id); err != nil {
		h.respondTrashError(c, err, msgPurgeNotFound)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: msgPurged})
}

// Empty handles DELETE /api/trash/empty/all
func (h *TrashHandler) Empty(c *gin.Context) {
	purged, err := h.service.Empty(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgTrashEmptied, "purged": purged})
}

func (h *TrashHandler) respondTrashError(c *gin.Context, err error, notFound string) {
	switch {
	case apperrors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, msgUnknownKind, err)
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, notFound, err)
	default:
		respondServiceError(c, err)
	}
}
