package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/medoraclinic/medora-site/backend/internal/assets"
	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/repositories"
	"github.com/medoraclinic/medora-site/backend/internal/i18n"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
	"github.com/medoraclinic/medora-site/backend/pkg/slug"
)

// ContentService resolves human-readable procedure names into fully loaded,
// localized procedure bundles
type ContentService struct {
	procedures repositories.ProcedureRepository
	cases      repositories.ProcedureCaseRepository
	resolver   *assets.Resolver
}

// NewContentService creates a new content service
func NewContentService(procedures repositories.ProcedureRepository, cases repositories.ProcedureCaseRepository, resolver *assets.Resolver) *ContentService {
	return &ContentService{
		procedures: procedures,
		cases:      cases,
		resolver:   resolver,
	}
}

// ResolveProcedure finds a procedure by URL-encoded name and loads its
// children in lang. Lookup is by exact slug first, then by a
// case-insensitive display-name prefix.
func (s *ContentService) ResolveProcedure(ctx context.Context, raw, lang string) (*entities.ProcedureBundle, error) {
	name := decodeName(raw)
	if name == "" {
		return nil, apperrors.NewValidationError("procedure name is required")
	}
	lang = i18n.Normalize(lang)

	procedure, matchedBy, err := s.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	children, err := s.procedures.Children(ctx, procedure.ID, lang)
	if err != nil {
		return nil, err
	}
	i18n.SortChildren(children)

	cases, err := s.cases.ListByProcedure(ctx, procedure.ID)
	if err != nil {
		return nil, err
	}

	return &entities.ProcedureBundle{
		Procedure:         *procedure,
		ProcedureChildren: *children,
		LanguageCode:      lang,
		LocalizedName:     i18n.Label(procedure.DisplayName, lang),
		MatchedBy:         matchedBy,
		Images:            s.resolver.ProcedureImages(procedure.DisplayName),
		Cases:             s.presentCases(procedure.DisplayName, cases),
	}, nil
}

func (s *ContentService) lookup(ctx context.Context, name string) (*entities.Procedure, string, error) {
	if key := slug.Make(name); key != "" {
		procedure, err := s.procedures.GetBySlug(ctx, key)
		if err == nil {
			return procedure, entities.MatchedBySlug, nil
		}
		if !apperrors.IsNotFound(err) {
			return nil, "", err
		}
	}

	matches, err := s.procedures.FindByNamePrefix(ctx, name, 1)
	if err != nil {
		return nil, "", err
	}
	if len(matches) == 0 {
		return nil, "", apperrors.NewNotFoundError("Procedure not found")
	}
	return matches[0], entities.MatchedByPrefix, nil
}

// ListProcedures returns catalog cards, optionally limited to one category
func (s *ContentService) ListProcedures(ctx context.Context, category entities.Category, lang string) ([]entities.ProcedureSummary, error) {
	if category != "" && !category.Valid() {
		return nil, apperrors.NewValidationError("category must be one of: face, body, non-surgical")
	}
	lang = i18n.Normalize(lang)

	procedures, err := s.procedures.List(ctx, repositories.ProcedureFilter{Category: category})
	if err != nil {
		return nil, err
	}

	out := make([]entities.ProcedureSummary, 0, len(procedures))
	for _, p := range procedures {
		out = append(out, entities.ProcedureSummary{
			Procedure:     *p,
			LocalizedName: i18n.Label(p.DisplayName, lang),
			CategoryLabel: i18n.Label(categoryLabel(p.Category), lang),
			HeroImage:     s.resolver.ProcedureImage(p.DisplayName, assets.RoleHero),
		})
	}
	return out, nil
}

func (s *ContentService) presentCases(procedureName string, cases []*entities.ProcedureCase) []entities.PresentedCase {
	out := make([]entities.PresentedCase, 0, len(cases))
	for _, c := range cases {
		out = append(out, s.resolver.PresentCase(procedureName, c))
	}
	return out
}

// decodeName undoes URL encoding. Input that is not valid percent-encoding
// is used as is.
func decodeName(raw string) string {
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	return strings.TrimSpace(raw)
}

func categoryLabel(c entities.Category) string {
	switch c {
	case entities.CategoryBody:
		return "Body"
	case entities.CategoryNonSurgical:
		return "Non-Surgical"
	default:
		return "Face"
	}
}
