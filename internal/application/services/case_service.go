package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/repositories"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

// CaseService handles before/after cases keyed by procedure slug
type CaseService struct {
	procedures repositories.ProcedureRepository
	cases      repositories.ProcedureCaseRepository
	cache      *CacheInvalidationService
}

// NewCaseService creates a new case service
func NewCaseService(procedures repositories.ProcedureRepository, cases repositories.ProcedureCaseRepository, cache *CacheInvalidationService) *CaseService {
	return &CaseService{
		procedures: procedures,
		cases:      cases,
		cache:      cache,
	}
}

// CaseInput is the admin payload for creating or replacing a case
type CaseInput struct {
	Slug          string  `json:"slug"`
	CaseNumber    string  `json:"case_number"`
	Description   string  `json:"description"`
	ProviderName  string  `json:"provider_name"`
	PatientAge    *int    `json:"patient_age"`
	PatientGender *string `json:"patient_gender"`
	ImageCount    *int    `json:"image_count"`
	SortOrder     *int    `json:"sort_order"`
}

// CasesBySlug lists the cases of a procedure. An unknown slug yields an
// empty list.
func (s *CaseService) CasesBySlug(ctx context.Context, slug string) ([]*entities.ProcedureCase, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperrors.NewValidationError("Slug is required")
	}

	procedure, err := s.procedures.GetBySlug(ctx, slug)
	if apperrors.IsNotFound(err) {
		return []*entities.ProcedureCase{}, nil
	}
	if err != nil {
		return nil, err
	}

	cases, err := s.cases.ListByProcedure(ctx, procedure.ID)
	if err != nil {
		return nil, err
	}
	if cases == nil {
		cases = []*entities.ProcedureCase{}
	}
	return cases, nil
}

// Upsert creates the case or replaces the one with the same case number.
// image_count is advisory: a missing or non-positive count becomes
// DefaultCaseImageCount and counts above four keep the four-view layout.
func (s *CaseService) Upsert(ctx context.Context, in CaseInput) (*entities.ProcedureCase, error) {
	if strings.TrimSpace(in.Slug) == "" || strings.TrimSpace(in.CaseNumber) == "" {
		return nil, apperrors.NewValidationError("Slug and case_number are required")
	}

	procedure, err := s.procedureBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}

	c := &entities.ProcedureCase{
		ID:            uuid.New().String(),
		ProcedureID:   procedure.ID,
		CaseNumber:    strings.TrimSpace(in.CaseNumber),
		Description:   in.Description,
		ProviderName:  in.ProviderName,
		PatientAge:    in.PatientAge,
		PatientGender: in.PatientGender,
		ImageCount:    entities.DefaultCaseImageCount,
	}
	if c.ProviderName == "" {
		c.ProviderName = entities.DefaultProviderName
	}
	if in.ImageCount != nil && *in.ImageCount > 0 {
		c.ImageCount = *in.ImageCount
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}

	saved, err := s.cases.Upsert(ctx, c)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, routeCases, routeProcedures)
	return saved, nil
}

// Delete removes a case by slug and case number
func (s *CaseService) Delete(ctx context.Context, slug, caseNumber string) error {
	if strings.TrimSpace(slug) == "" || strings.TrimSpace(caseNumber) == "" {
		return apperrors.NewValidationError("Slug and case_number are required")
	}

	procedure, err := s.procedureBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.cases.Delete(ctx, procedure.ID, strings.TrimSpace(caseNumber)); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, routeCases, routeProcedures)
	return nil
}

func (s *CaseService) procedureBySlug(ctx context.Context, slug string) (*entities.Procedure, error) {
	procedure, err := s.procedures.GetBySlug(ctx, strings.TrimSpace(slug))
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError("Procedure not found")
	}
	return procedure, err
}
