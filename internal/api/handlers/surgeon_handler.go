package handlers

import (
	"context"
	"net/http"

	"github.com/medoraclinic/medora-site/backend/internal/application/services"
	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/i18n"
)

// SurgeonDirectoryService defines the handler dependency for surgeon pages
// and photo management
type SurgeonDirectoryService interface {
	Directory(ctx context.Context, lang string) (*entities.SurgeonDirectory, error)
	Detail(ctx context.Context, surgeonID, lang string) (*entities.LocalizedSurgeon, error)
	ListRecords(ctx context.Context) ([]entities.SurgeonRecord, error)
	UpdateImageSlot(ctx context.Context, req services.ImageSlotUpdate) (*services.ImageSlotResult, error)
}

// SurgeonHandler handles surgeon-related requests
type SurgeonHandler struct {
	surgeons SurgeonDirectoryService
}

// NewSurgeonHandler creates a new surgeon handler
func NewSurgeonHandler(surgeons SurgeonDirectoryService) *SurgeonHandler {
	return &SurgeonHandler{surgeons: surgeons}
}

// ListSurgeons handles GET /api/surgeons
func (h *SurgeonHandler) ListSurgeons(w http.ResponseWriter, r *http.Request) {
	dir, err := h.surgeons.Directory(r.Context(), requestLanguage(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", PublicCacheControl)
	respondWithSuccess(w, envelope{"data": dir})
}

// GetSurgeonDetail handles GET /api/surgeon-detail?surgeon_id=&lang=
func (h *SurgeonHandler) GetSurgeonDetail(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Normalize(requestLanguage(r))

	surgeon, err := h.surgeons.Detail(r.Context(), r.URL.Query().Get("surgeon_id"), lang)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", PublicCacheControl)
	respondWithSuccess(w, envelope{
		"data": surgeon,
		"lang": lang,
	})
}

// ListSurgeonRecords handles GET /api/surgeons-full and its admin twin
func (h *SurgeonHandler) ListSurgeonRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.surgeons.ListRecords(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if !isAdminPath(r) {
		w.Header().Set("Cache-Control", PublicCacheControl)
	}
	respondWithSuccess(w, envelope{"surgeons": records})
}

type updateSurgeonImageRequest struct {
	SurgeonID string  `json:"surgeonId"`
	Slot      string  `json:"slot"`
	ImageURL  *string `json:"imageUrl"`
	Version   *int64  `json:"version"`
}

// UpdateSurgeonImage handles POST /api/admin/update-surgeon-image. A null or
// empty imageUrl clears the slot.
func (h *SurgeonHandler) UpdateSurgeonImage(w http.ResponseWriter, r *http.Request) {
	var req updateSurgeonImageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	update := services.ImageSlotUpdate{
		SurgeonRef: req.SurgeonID,
		Slot:       req.Slot,
		Version:    req.Version,
	}
	if req.ImageURL != nil {
		update.ImageURL = *req.ImageURL
	}

	result, err := h.surgeons.UpdateImageSlot(r.Context(), update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithSuccess(w, envelope{
		"message": "Image updated successfully",
		"images":  result.Images,
		"version": result.Version,
	})
}
