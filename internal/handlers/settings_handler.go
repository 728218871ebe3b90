package handlers

import (
	"net/http"

	"github.com/cabinetrenov/renov-api/config"
	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the public site information
type SettingsHandler struct {
	site config.SiteConfig
}

func NewSettingsHandler(site config.SiteConfig) *SettingsHandler {
	return &SettingsHandler{site: site}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app_name":      h.site.AppName,
		"app_version":   h.site.AppVersion,
		"contact_email": h.site.ContactEmail,
		"phone":         h.site.ContactPhone,
		"address":       h.site.Address,
	})
}
