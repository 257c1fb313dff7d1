package handlers

import (
	"context"
	"net/http"

	"github.com/medoraclinic/medora-site/backend/internal/application/services"
	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// CaseManagementService defines the handler dependency for before/after cases
type CaseManagementService interface {
	CasesBySlug(ctx context.Context, slug string) ([]*entities.ProcedureCase, error)
	Upsert(ctx context.Context, in services.CaseInput) (*entities.ProcedureCase, error)
	Delete(ctx context.Context, slug, caseNumber string) error
}

// CaseHandler handles public and admin case requests
type CaseHandler struct {
	cases CaseManagementService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(cases CaseManagementService) *CaseHandler {
	return &CaseHandler{cases: cases}
}

// ListCases handles GET /api/cases?slug= and GET /api/admin/cases?slug=
func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.cases.CasesBySlug(r.Context(), r.URL.Query().Get("slug"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if !isAdminPath(r) {
		w.Header().Set("Cache-Control", PublicCacheControl)
	}
	respondWithSuccess(w, envelope{"cases": cases})
}

// UpsertCase handles POST /api/admin/cases. ?slug= overrides the body slug.
func (h *CaseHandler) UpsertCase(w http.ResponseWriter, r *http.Request) {
	var in services.CaseInput
	if err := decodeJSON(r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if slug := r.URL.Query().Get("slug"); slug != "" {
		in.Slug = slug
	}

	saved, err := h.cases.Upsert(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithSuccess(w, envelope{"case": saved})
}

// DeleteCase handles DELETE /api/admin/cases?slug=&case_number=
func (h *CaseHandler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.cases.Delete(r.Context(), q.Get("slug"), q.Get("case_number")); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithSuccess(w, envelope{"message": "Case deleted"})
}
