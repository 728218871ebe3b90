package middleware

import (
	"net/http"
	"strings"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/pkg/jwt"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	claimsContextKey = "auth_claims"
	actorContextKey  = "auth_actor"
)

// Authenticator resolves a bearer token to its claims
type Authenticator interface {
	Authenticate(token string) (*jwt.UserClaims, error)
}

// BearerAuthMiddleware requires a valid "Authorization: Bearer <token>" header
// and stores the caller in the request context.
func BearerAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			logger.Warn("Missing bearer token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		claims, err := auth.Authenticate(token)
		if err != nil {
			logger.Warn("Invalid bearer token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Set(actorContextKey, &models.Actor{UserID: claims.UserID, Name: claims.Name})
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetClaims returns the token claims set by BearerAuthMiddleware, or nil
func GetClaims(c *gin.Context) *jwt.UserClaims {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.UserClaims)
	return claims
}

// GetActor returns the authenticated back-office user, or nil on public routes
func GetActor(c *gin.Context) *models.Actor {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*models.Actor)
	return actor
}
