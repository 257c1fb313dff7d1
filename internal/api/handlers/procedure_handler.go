package handlers

import (
	"context"
	"net/http"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// ProcedureContentService defines the handler dependency for procedure pages
type ProcedureContentService interface {
	ResolveProcedure(ctx context.Context, raw, lang string) (*entities.ProcedureBundle, error)
	ListProcedures(ctx context.Context, category entities.Category, lang string) ([]entities.ProcedureSummary, error)
}

// ProcedureHandler handles procedure-related requests
type ProcedureHandler struct {
	content ProcedureContentService
}

// NewProcedureHandler creates a new procedure handler
func NewProcedureHandler(content ProcedureContentService) *ProcedureHandler {
	return &ProcedureHandler{content: content}
}

// ListProcedures handles GET /api/procedures
func (h *ProcedureHandler) ListProcedures(w http.ResponseWriter, r *http.Request) {
	category := entities.Category(r.URL.Query().Get("category"))

	procedures, err := h.content.ListProcedures(r.Context(), category, requestLanguage(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", PublicCacheControl)
	respondWithSuccess(w, envelope{
		"data":  procedures,
		"count": len(procedures),
	})
}

// GetProcedure handles GET /api/procedures/{name}
func (h *ProcedureHandler) GetProcedure(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.content.ResolveProcedure(r.Context(), r.PathValue("name"), requestLanguage(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", PublicCacheControl)
	respondWithSuccess(w, envelope{
		"data": bundle,
		"lang": bundle.LanguageCode,
	})
}

// requestLanguage prefers ?lang= and falls back to Accept-Language
func requestLanguage(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return r.Header.Get("Accept-Language")
}
