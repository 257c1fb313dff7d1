package services

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/repositories"
	"github.com/medoraclinic/medora-site/backend/internal/i18n"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/observability"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

// SurgeonService handles the surgeon directory and admin photo management
type SurgeonService struct {
	repo  repositories.SurgeonRepository
	cache *CacheInvalidationService
}

// NewSurgeonService creates a new surgeon service
func NewSurgeonService(repo repositories.SurgeonRepository, cache *CacheInvalidationService) *SurgeonService {
	return &SurgeonService{
		repo:  repo,
		cache: cache,
	}
}

// ImageSlotUpdate sets or clears one surgeon image slot. An empty ImageURL
// clears the slot. A non-nil Version must equal the stored images version.
type ImageSlotUpdate struct {
	SurgeonRef string
	Slot       string
	ImageURL   string
	Version    *int64
}

// ImageSlotResult is the images map after an update
type ImageSlotResult struct {
	Images  map[string]string `json:"images"`
	Version int64             `json:"version"`
}

// Directory returns every surgeon grouped under each of their specialties
func (s *SurgeonService) Directory(ctx context.Context, lang string) (*entities.SurgeonDirectory, error) {
	lang = i18n.Normalize(lang)

	surgeons, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	dir := &entities.SurgeonDirectory{
		SurgeonsBySpecialty: make(map[string][]entities.SurgeonSummary),
		AllSpecialties:      []string{},
		TotalSurgeons:       len(surgeons),
	}
	for _, surgeon := range surgeons {
		card := i18n.SummarizeSurgeon(surgeon, lang)
		for _, specialty := range card.Specialties {
			if _, ok := dir.SurgeonsBySpecialty[specialty]; !ok {
				dir.AllSpecialties = append(dir.AllSpecialties, specialty)
			}
			dir.SurgeonsBySpecialty[specialty] = append(dir.SurgeonsBySpecialty[specialty], card)
		}
	}
	sort.Strings(dir.AllSpecialties)

	return dir, nil
}

// Detail returns one surgeon in lang
func (s *SurgeonService) Detail(ctx context.Context, surgeonID, lang string) (*entities.LocalizedSurgeon, error) {
	surgeonID = strings.TrimSpace(surgeonID)
	if surgeonID == "" {
		return nil, apperrors.NewValidationError("surgeon_id is required")
	}

	surgeon, err := s.repo.GetBySurgeonID(ctx, surgeonID)
	if err != nil {
		return nil, err
	}

	localized := i18n.ResolveSurgeon(surgeon, i18n.Normalize(lang))
	return &localized, nil
}

// ListRecords returns the admin rows used to manage surgeon photos
func (s *SurgeonService) ListRecords(ctx context.Context) ([]entities.SurgeonRecord, error) {
	surgeons, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]entities.SurgeonRecord, 0, len(surgeons))
	for _, surgeon := range surgeons {
		images := surgeon.Images
		if images == nil {
			images = map[string]string{}
		}
		specialties := surgeon.Specialties
		if specialties == nil {
			specialties = []string{}
		}
		records = append(records, entities.SurgeonRecord{
			ID:              surgeon.ID,
			SurgeonID:       surgeon.SurgeonID,
			Name:            surgeon.Name,
			Title:           surgeon.Title,
			ExperienceYears: surgeon.ExperienceYears,
			ImageURL:        surgeon.ImageURL,
			Specialties:     specialties,
			Images:          images,
			ImagesVersion:   surgeon.ImagesVersion,
		})
	}
	return records, nil
}

// UpdateImageSlot validates the request, then writes the new images map
// with a compare-and-swap on the images version
func (s *SurgeonService) UpdateImageSlot(ctx context.Context, req ImageSlotUpdate) (*ImageSlotResult, error) {
	ref := strings.TrimSpace(req.SurgeonRef)
	if ref == "" || req.Slot == "" {
		return nil, apperrors.NewValidationError("Missing required fields: surgeonId, slot")
	}
	slot := entities.ImageSlot(req.Slot)
	if !slot.IsWritable() {
		return nil, apperrors.NewValidationError("Invalid slot. Must be one of: hero, certification, with_patients")
	}

	current, err := s.repo.GetImages(ctx, ref)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != current.Version {
		return nil, apperrors.NewConflictError("Surgeon images were modified by another request")
	}

	images := make(map[string]string, len(current.Images)+1)
	maps.Copy(images, current.Images)
	if req.ImageURL == "" {
		delete(images, string(slot))
	} else {
		images[string(slot)] = req.ImageURL
	}

	version, err := s.repo.ReplaceImages(ctx, current.ID, images, current.Version)
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("surgeon", current.ID).
		Str("slot", string(slot)).
		Bool("cleared", req.ImageURL == "").
		Int64("version", version).
		Msg("surgeon image updated")

	s.cache.Invalidate(ctx, routeSurgeons)

	return &ImageSlotResult{Images: images, Version: version}, nil
}
