package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoraclinic/medora-site/backend/internal/api/handlers"
	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

func newStubCaseService() *stubCaseService {
	return &stubCaseService{cases: map[string][]*entities.ProcedureCase{
		"facelift": {{ID: "c1", CaseNumber: "1", ImageCount: 2}},
	}}
}

func TestCaseHandler_ListCases(t *testing.T) {
	handler := handlers.NewCaseHandler(newStubCaseService())

	w := httptest.NewRecorder()
	handler.ListCases(w, httptest.NewRequest("GET", "/api/cases?slug=facelift", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handlers.PublicCacheControl, w.Header().Get("Cache-Control"))
	assert.Len(t, decodeBody(t, w)["cases"], 1)

	w = httptest.NewRecorder()
	handler.ListCases(w, httptest.NewRequest("GET", "/api/admin/cases?slug=unknown", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))
	assert.Equal(t, []interface{}{}, decodeBody(t, w)["cases"])

	w = httptest.NewRecorder()
	handler.ListCases(w, httptest.NewRequest("GET", "/api/cases", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaseHandler_UpsertCase(t *testing.T) {
	service := newStubCaseService()
	handler := handlers.NewCaseHandler(service)

	body := `{"slug":"ignored","case_number":"5","description":"Two weeks post-op","image_count":3}`
	w := httptest.NewRecorder()
	handler.UpsertCase(w, httptest.NewRequest("POST", "/api/admin/cases?slug=facelift", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, service.upserts, 1)
	assert.Equal(t, "facelift", service.upserts[0].Slug)
	require.NotNil(t, service.upserts[0].ImageCount)
	assert.Equal(t, 3, *service.upserts[0].ImageCount)

	resp := decodeBody(t, w)
	assert.Equal(t, "5", resp["case"].(map[string]interface{})["case_number"])
}

func TestCaseHandler_UpsertCase_Errors(t *testing.T) {
	handler := handlers.NewCaseHandler(newStubCaseService())

	w := httptest.NewRecorder()
	handler.UpsertCase(w, httptest.NewRequest("POST", "/api/admin/cases", strings.NewReader(`{"slug":"facelift"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Slug and case_number are required", decodeBody(t, w)["message"])

	w = httptest.NewRecorder()
	handler.UpsertCase(w, httptest.NewRequest("POST", "/api/admin/cases", strings.NewReader(`{"slug":"nope","case_number":"1"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Procedure not found", decodeBody(t, w)["message"])
}

func TestCaseHandler_DeleteCase(t *testing.T) {
	service := newStubCaseService()
	handler := handlers.NewCaseHandler(service)

	w := httptest.NewRecorder()
	handler.DeleteCase(w, httptest.NewRequest("DELETE", "/api/admin/cases?slug=facelift&case_number=1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Case deleted", decodeBody(t, w)["message"])
	assert.Equal(t, [][2]string{{"facelift", "1"}}, service.deleted)
}
