package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/cabinetrenov/renov-api/internal/middleware"
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/pkg/jwt"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

const testToken = "test-token"

var testActor = &models.Actor{UserID: 1, Name: "Samira"}

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "development"})
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

type staticAuthenticator struct{}

func (staticAuthenticator) Authenticate(token string) (*jwt.UserClaims, error) {
	if token != testToken {
		return nil, errors.New("invalid token")
	}
	return &jwt.UserClaims{UserID: testActor.UserID, Name: testActor.Name}, nil
}

// newTestRouter returns an engine and a group that requires testToken
func newTestRouter() (*gin.Engine, *gin.RouterGroup) {
	router := gin.New()
	api := router.Group("/api")
	admin := api.Group("")
	admin.Use(middleware.BearerAuthMiddleware(staticAuthenticator{}))
	return router, admin
}

func doRequest(router http.Handler, method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
