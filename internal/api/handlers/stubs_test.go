package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medoraclinic/medora-site/backend/internal/application/services"
	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

type stubContentService struct {
	bundles map[string]*entities.ProcedureBundle
	gotRaw  string
	gotLang string
}

func (s *stubContentService) ResolveProcedure(ctx context.Context, raw, lang string) (*entities.ProcedureBundle, error) {
	s.gotRaw, s.gotLang = raw, lang
	if b, ok := s.bundles[raw]; ok {
		return b, nil
	}
	return nil, apperrors.NewNotFoundError("Procedure not found")
}

func (s *stubContentService) ListProcedures(ctx context.Context, category entities.Category, lang string) ([]entities.ProcedureSummary, error) {
	if category != "" && !category.Valid() {
		return nil, apperrors.NewValidationError("category must be one of: face, body, non-surgical")
	}
	return []entities.ProcedureSummary{{Procedure: entities.Procedure{DisplayName: "Facelift"}}}, nil
}

type stubSurgeonService struct {
	detail  *entities.LocalizedSurgeon
	updates []services.ImageSlotUpdate
	err     error
}

func (s *stubSurgeonService) Directory(ctx context.Context, lang string) (*entities.SurgeonDirectory, error) {
	return &entities.SurgeonDirectory{
		SurgeonsBySpecialty: map[string][]entities.SurgeonSummary{"Facelift": {{SurgeonID: "heather-lee"}}},
		AllSpecialties:      []string{"Facelift"},
		TotalSurgeons:       1,
	}, nil
}

func (s *stubSurgeonService) Detail(ctx context.Context, surgeonID, lang string) (*entities.LocalizedSurgeon, error) {
	if surgeonID == "" {
		return nil, apperrors.NewValidationError("surgeon_id is required")
	}
	if s.detail == nil || s.detail.SurgeonID != surgeonID {
		return nil, apperrors.NewNotFoundError("Surgeon not found")
	}
	return s.detail, nil
}

func (s *stubSurgeonService) ListRecords(ctx context.Context) ([]entities.SurgeonRecord, error) {
	return []entities.SurgeonRecord{{ID: "1", SurgeonID: "heather-lee", Images: map[string]string{}}}, nil
}

func (s *stubSurgeonService) UpdateImageSlot(ctx context.Context, req services.ImageSlotUpdate) (*services.ImageSlotResult, error) {
	s.updates = append(s.updates, req)
	if s.err != nil {
		return nil, s.err
	}
	images := map[string]string{}
	if req.ImageURL != "" {
		images[req.Slot] = req.ImageURL
	}
	return &services.ImageSlotResult{Images: images, Version: 2}, nil
}

type stubCaseService struct {
	cases   map[string][]*entities.ProcedureCase
	upserts []services.CaseInput
	deleted [][2]string
}

func (s *stubCaseService) CasesBySlug(ctx context.Context, slug string) ([]*entities.ProcedureCase, error) {
	if slug == "" {
		return nil, apperrors.NewValidationError("Slug is required")
	}
	if c, ok := s.cases[slug]; ok {
		return c, nil
	}
	return []*entities.ProcedureCase{}, nil
}

func (s *stubCaseService) Upsert(ctx context.Context, in services.CaseInput) (*entities.ProcedureCase, error) {
	if in.Slug == "" || in.CaseNumber == "" {
		return nil, apperrors.NewValidationError("Slug and case_number are required")
	}
	if _, ok := s.cases[in.Slug]; !ok {
		return nil, apperrors.NewNotFoundError("Procedure not found")
	}
	s.upserts = append(s.upserts, in)
	return &entities.ProcedureCase{ID: "c1", CaseNumber: in.CaseNumber, Description: in.Description}, nil
}

func (s *stubCaseService) Delete(ctx context.Context, slug, caseNumber string) error {
	if _, ok := s.cases[slug]; !ok {
		return apperrors.NewNotFoundError("Procedure not found")
	}
	s.deleted = append(s.deleted, [2]string{slug, caseNumber})
	return nil
}

type stubAssetService struct {
	uploads []services.UploadRequest
	deleted []string
	objects []entities.StoredObject
	err     error
}

func (s *stubAssetService) Upload(ctx context.Context, req services.UploadRequest) (*entities.UploadResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.uploads = append(s.uploads, req)
	key := req.Filename
	if key == "" {
		key = req.OriginalName
	}
	if req.Path != "" {
		key = req.Path + "/" + key
	}
	return &entities.UploadResult{URL: "https://img.example.com/" + key, Key: key, Size: int64(len(req.Data))}, nil
}

func (s *stubAssetService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return apperrors.NewValidationError("Key is required")
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubAssetService) List(ctx context.Context, prefix string) ([]entities.StoredObject, error) {
	return s.objects, nil
}

func (s *stubAssetService) References(ctx context.Context, entityType, entityID string) ([]*entities.AssetReference, error) {
	return []*entities.AssetReference{{EntityType: entityType, EntityID: entityID, Role: "hero"}}, nil
}
