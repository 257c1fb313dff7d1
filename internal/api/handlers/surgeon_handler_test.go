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
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

func TestSurgeonHandler_ListSurgeons(t *testing.T) {
	handler := handlers.NewSurgeonHandler(&stubSurgeonService{})

	w := httptest.NewRecorder()
	handler.ListSurgeons(w, httptest.NewRequest("GET", "/api/surgeons", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalSurgeons"])
	assert.Equal(t, []interface{}{"Facelift"}, data["allSpecialties"])
}

func TestSurgeonHandler_GetSurgeonDetail(t *testing.T) {
	handler := handlers.NewSurgeonHandler(&stubSurgeonService{
		detail: &entities.LocalizedSurgeon{SurgeonID: "heather-lee", Name: "Heather Lee"},
	})

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantLang   string
	}{
		{"found", "/api/surgeon-detail?surgeon_id=heather-lee&lang=zh-Hans", http.StatusOK, "zh"},
		{"missing id", "/api/surgeon-detail", http.StatusBadRequest, ""},
		{"unknown", "/api/surgeon-detail?surgeon_id=ghost", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.GetSurgeonDetail(w, httptest.NewRequest("GET", tt.target, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			if tt.wantLang != "" {
				assert.Equal(t, tt.wantLang, body["lang"])
			}
		})
	}
}

func TestSurgeonHandler_UpdateSurgeonImage(t *testing.T) {
	service := &stubSurgeonService{}
	handler := handlers.NewSurgeonHandler(service)

	body := `{"surgeonId":"7","slot":"hero","imageUrl":"https://img.example.com/surgeons/7/hero.jpg","version":1}`
	w := httptest.NewRecorder()
	handler.UpdateSurgeonImage(w, httptest.NewRequest("POST", "/api/admin/update-surgeon-image", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "Image updated successfully", resp["message"])
	require.Len(t, service.updates, 1)
	assert.Equal(t, "7", service.updates[0].SurgeonRef)
	require.NotNil(t, service.updates[0].Version)
	assert.Equal(t, int64(1), *service.updates[0].Version)
}

func TestSurgeonHandler_UpdateSurgeonImage_NullClearsSlot(t *testing.T) {
	service := &stubSurgeonService{}
	handler := handlers.NewSurgeonHandler(service)

	w := httptest.NewRecorder()
	handler.UpdateSurgeonImage(w, httptest.NewRequest("POST", "/api/admin/update-surgeon-image",
		strings.NewReader(`{"surgeonId":"7","slot":"certification","imageUrl":null}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, service.updates, 1)
	assert.Equal(t, "", service.updates[0].ImageURL)
}

func TestSurgeonHandler_UpdateSurgeonImage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"invalid slot", `{"surgeonId":"7","slot":"office"}`, apperrors.NewValidationError("Invalid slot. Must be one of: hero, certification, with_patients"), http.StatusBadRequest},
		{"stale version", `{"surgeonId":"7","slot":"hero","version":1}`, apperrors.NewConflictError("Surgeon images were modified by another request"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewSurgeonHandler(&stubSurgeonService{err: tt.err})

			w := httptest.NewRecorder()
			handler.UpdateSurgeonImage(w, httptest.NewRequest("POST", "/api/admin/update-surgeon-image", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, false, decodeBody(t, w)["success"])
		})
	}
}
