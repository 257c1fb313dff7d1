package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/medoraclinic/medora-site/backend/internal/application/services"
	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// MaxUploadBytes caps the multipart body of an upload
const MaxUploadBytes = 32 << 20

// AssetManagementService defines the handler dependency for the image bucket
type AssetManagementService interface {
	Upload(ctx context.Context, req services.UploadRequest) (*entities.UploadResult, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]entities.StoredObject, error)
	References(ctx context.Context, entityType, entityID string) ([]*entities.AssetReference, error)
}

// AssetHandler handles admin image requests
type AssetHandler struct {
	assets AssetManagementService
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assets AssetManagementService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// Upload handles POST /api/admin/upload (multipart: file, path, filename)
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	result, err := h.assets.Upload(r.Context(), services.UploadRequest{
		Path:         r.FormValue("path"),
		Filename:     r.FormValue("filename"),
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Data:         data,
		EntityType:   r.FormValue("entity_type"),
		EntityID:     r.FormValue("entity_id"),
		Role:         r.FormValue("role"),
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithSuccess(w, envelope{
		"message": "Upload successful",
		"url":     result.URL,
		"key":     result.Key,
		"size":    result.Size,
	})
}

// DeleteByKey handles DELETE /api/admin/delete?key=
func (h *AssetHandler) DeleteByKey(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if err := h.assets.Delete(r.Context(), key); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithSuccess(w, envelope{
		"message": "Delete successful",
		"key":     key,
	})
}

// DeleteByPath handles DELETE /api/admin/images/{path...}
func (h *AssetHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("path")
	if key == "" {
		respondWithError(w, http.StatusBadRequest, "Image path is required")
		return
	}

	if err := h.assets.Delete(r.Context(), key); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithSuccess(w, envelope{
		"message": "Image deleted successfully",
		"key":     key,
	})
}

// ListImages handles GET /api/admin/images?prefix=
func (h *AssetHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.assets.List(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithSuccess(w, envelope{"images": images})
}

// ListReferences handles GET /api/admin/assets?entity_type=&entity_id=
func (h *AssetHandler) ListReferences(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entityType, entityID := q.Get("entity_type"), q.Get("entity_id")
	if entityType == "" || entityID == "" {
		respondWithError(w, http.StatusBadRequest, "entity_type and entity_id are required")
		return
	}

	refs, err := h.assets.References(r.Context(), entityType, entityID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithSuccess(w, envelope{"assets": refs})
}

func isAdminPath(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/admin/")
}
