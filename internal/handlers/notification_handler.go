package handlers

import (
	"net/http"

	"github.com/cabinetrenov/renov-api/internal/middleware"
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the dashboard notification bell
type NotificationHandler struct {
	service services.NotificationServiceInterface
}

func NewNotificationHandler(service services.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /api/notifications?limit=N
func (h *NotificationHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", models.DefaultNotificationLimit)

	notifications, err := h.service.List(c.Request.Context(), middleware.GetActor(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": models.UnreadCount{Count: count}})
}

// MarkRead handles PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	n, err := h.service.MarkRead(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": n})
}
