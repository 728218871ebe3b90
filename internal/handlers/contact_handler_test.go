package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

func newContactRouter(svc *MockContactService) *gin.Engine {
	router, admin := newTestRouter()
	h := NewContactHandler(svc)
	router.POST("/api/contact-messages", h.Create)
	admin.GET("/contact-messages", h.List)
	admin.PATCH("/contact-messages/:id", h.Update)
	admin.DELETE("/contact-messages/:id", h.Delete)
	return router
}

const validContact = `{"name":"Hind","email":"hind@example.ma","phone":"06 12-34 56 78","message":"Bonjour"}`

func TestContactHandler_CreateNormalizesPhone(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in *models.CreateContactMessageInput) bool {
		return in.Phone == "0612345678"
	}), mock.Anything).Return(&models.ContactMessage{ID: 1, Status: models.ContactStatusNew}, nil)

	w := doRequest(newContactRouter(svc), http.MethodPost, "/api/contact-messages", validContact, false)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Message reçu avec succès.", body["message"])
	svc.AssertExpectations(t)
}

func TestContactHandler_CreateSpamLooksAccepted(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.ContactMessage{ID: 2, IsSpam: true, Status: models.ContactStatusArchived}, nil)

	body := `{"name":"Bot","email":"bot@example.com","phone":"0612345678","message":"Buy","website":"http://spam.example"}`
	w := doRequest(newContactRouter(svc), http.MethodPost, "/api/contact-messages", body, false)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Message reçu (marqué comme spam).")
}

func TestContactHandler_CreateValidation(t *testing.T) {
	svc := new(MockContactService)

	w := doRequest(newContactRouter(svc), http.MethodPost, "/api/contact-messages",
		`{"name":"Hind","email":"not-an-email","phone":"12ab","message":""}`, false)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "email")
	assert.Equal(t, []string{"Le numéro de téléphone est invalide."}, body.Errors["phone"])
	assert.Contains(t, body.Errors, "message")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestContactHandler_CreateMalformedJSON(t *testing.T) {
	w := doRequest(newContactRouter(new(MockContactService)), http.MethodPost, "/api/contact-messages", `{"name":`, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactHandler_UpdatePassesActor(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Update", mock.Anything, int64(9), mock.MatchedBy(func(in *models.UpdateContactMessageInput) bool {
		return in.Status != nil && *in.Status == models.ContactStatusProcessed
	}), testActor).Return(&models.ContactMessage{ID: 9, Status: models.ContactStatusProcessed}, nil)

	w := doRequest(newContactRouter(svc), http.MethodPatch, "/api/contact-messages/9", `{"status":"Traité"}`, true)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Message mis à jour avec succès.")
	svc.AssertExpectations(t)
}

func TestContactHandler_UpdateRejectsUnknownStatus(t *testing.T) {
	svc := new(MockContactService)

	w := doRequest(newContactRouter(svc), http.MethodPatch, "/api/contact-messages/9", `{"status":"Spam"}`, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContactHandler_Delete(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Delete", mock.Anything, int64(3), testActor).Return(nil)
	svc.On("Delete", mock.Anything, int64(4), testActor).Return(apperrors.NotFoundError("contact message"))
	router := newContactRouter(svc)

	w := doRequest(router, http.MethodDelete, "/api/contact-messages/3", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Message déplacé dans la corbeille."}`, w.Body.String())

	w = doRequest(router, http.MethodDelete, "/api/contact-messages/4", "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactHandler_ListPaginates(t *testing.T) {
	svc := new(MockContactService)
	svc.On("List", mock.Anything, models.ContactMessageFilter{Status: "Lu", Page: 2}).
		Return(models.NewPage([]*models.ContactMessage{{ID: 30}}, 2, 25, 26), nil)

	w := doRequest(newContactRouter(svc), http.MethodGet, "/api/contact-messages?status=Lu&page=2", "", true)

	require.Equal(t, http.StatusOK, w.Code)
	var page models.Page[*models.ContactMessage]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	assert.Len(t, page.Data, 1)
}
