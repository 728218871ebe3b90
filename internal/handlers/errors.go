package handlers

import (
	"errors"
	"net/http"

	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends a {"message": ...} body and attaches err to the request log
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"message": message})
}

// respondServiceError maps a service error onto the HTTP status the dashboard expects
func respondServiceError(c *gin.Context, err error) {
	var rule *apperrors.RuleError
	switch {
	case errors.As(err, &rule):
		respondError(c, http.StatusUnprocessableEntity, rule.Message, err)
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusUnprocessableEntity, "Les données fournies sont invalides.", err)
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Ressource introuvable.", err)
	case apperrors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, "Requête invalide.", err)
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Unauthenticated.", err)
	case apperrors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, "Conflit avec l'état actuel de la ressource.", err)
	default:
		logger.LogError(err, "Request failed",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
		)
		respondError(c, http.StatusInternalServerError, "Erreur interne du serveur.", err)
	}
}
