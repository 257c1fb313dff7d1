package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoraclinic/medora-site/backend/internal/api/handlers"
	"github.com/medoraclinic/medora-site/backend/internal/api/middleware"
	"github.com/medoraclinic/medora-site/backend/internal/api/routes"
)

func newTestRouter(auth *middleware.Authenticator) http.Handler {
	return routes.NewRouter(
		handlers.NewProcedureHandler(nil),
		handlers.NewSurgeonHandler(nil),
		handlers.NewCaseHandler(nil),
		handlers.NewAssetHandler(nil),
		auth,
		nil,
		[]string{"*"},
		nil,
	).SetupRoutes()
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(middleware.NewAuthenticator("secret"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRouter_AdminRoutesRequireToken(t *testing.T) {
	h := newTestRouter(middleware.NewAuthenticator("secret"))

	routesToCheck := []struct{ method, target string }{
		{"POST", "/api/admin/upload"},
		{"DELETE", "/api/admin/delete?key=a.jpg"},
		{"DELETE", "/api/admin/images/surgeons/1/hero.jpg"},
		{"GET", "/api/admin/images"},
		{"POST", "/api/admin/update-surgeon-image"},
		{"GET", "/api/admin/cases?slug=facelift"},
		{"GET", "/api/admin/surgeons-full"},
	}

	for _, rt := range routesToCheck {
		t.Run(rt.method+" "+rt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(rt.method, rt.target, nil))

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"success":false,"message":"Unauthorized: Invalid or missing token"}`, w.Body.String())
		})
	}
}

func TestRouter_TokenSignedWithOtherSecretRejected(t *testing.T) {
	h := newTestRouter(middleware.NewAuthenticator("secret"))
	token, err := middleware.NewAuthenticator("other").IssueToken("admin", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/admin/images", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_MethodNotAllowedIsJSON(t *testing.T) {
	h := newTestRouter(middleware.NewAuthenticator("secret"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/cases", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Method not allowed"}`, w.Body.String())
}

func TestRouter_PreflightAdvertisesMethods(t *testing.T) {
	h := newTestRouter(middleware.NewAuthenticator("secret"))

	req := httptest.NewRequest("OPTIONS", "/api/surgeons", nil)
	req.Header.Set("Origin", "https://medora.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))

	req = httptest.NewRequest("OPTIONS", "/api/admin/upload", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
