package handlers

import (
	"net/http"

	"github.com/cabinetrenov/renov-api/internal/middleware"
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles back-office login and session endpoints
type AuthHandler struct {
	auth services.AdminAuthServiceInterface
}

func NewAuthHandler(auth services.AdminAuthServiceInterface) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Unauthenticated.", nil)
		return
	}

	user, err := h.auth.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

// Logout handles POST /api/auth/logout. The current token stops working immediately.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := middleware.GetClaims(c); claims != nil {
		h.auth.Logout(claims)
	}
	c.Status(http.StatusNoContent)
}
