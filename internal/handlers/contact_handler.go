package handlers

import (
	"net/http"

	"github.com/cabinetrenov/renov-api/internal/middleware"
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	msgContactReceived = "Message reçu avec succès."
	msgContactSpam     = "Message reçu (marqué comme spam)."
	msgContactUpdated  = "Message mis à jour avec succès."
	msgContactTrashed  = "Message déplacé dans la corbeille."
)

// ContactHandler handles messages from the public contact form
type ContactHandler struct {
	service services.ContactServiceInterface
}

func NewContactHandler(service services.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// Create handles the public POST /api/contact-messages.
// Spam is accepted like any other message so bots get no signal.
func (h *ContactHandler) Create(c *gin.Context) {
	var in models.CreateContactMessageInput
	if !bindJSON(c, &in) {
		return
	}

	msg, err := h.service.Create(c.Request.Context(), &in, submissionContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := msgContactReceived
	if msg.IsSpam {
		message = msgContactSpam
	}

	c.JSON(http.StatusCreated, gin.H{"message": message, "data": msg})
}

// List handles GET /api/contact-messages
func (h *ContactHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), models.ContactMessageFilter{
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Show handles GET /api/contact-messages/:id
func (h *ContactHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	msg, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": msg})
}

// Update handles PUT/PATCH /api/contact-messages/:id
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in models.UpdateContactMessageInput
	if !bindJSON(c, &in) {
		return
	}

	msg, err := h.service.Update(c.Request.Context(), id, &in, middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgContactUpdated, "data": msg})
}

// Delete handles DELETE /api/contact-messages/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: msgContactTrashed})
}
