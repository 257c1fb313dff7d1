package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/repositories"
	"github.com/medoraclinic/medora-site/backend/internal/i18n"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/observability"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
	"github.com/medoraclinic/medora-site/backend/pkg/slug"
)

// ContentFile is the procedures_content_{lang}.json document
type ContentFile struct {
	Procedures []ProcedureContent `json:"procedures"`
}

// ProcedureContent is one procedure entry of a content file
type ProcedureContent struct {
	ProcedureName           string                 `json:"procedureName"`
	Overview                string                 `json:"overview"`
	Anesthesia              string                 `json:"anesthesia"`
	Procedure               string                 `json:"procedure"`
	Recovery                *RecoveryContent       `json:"recovery"`
	Benefits                []string               `json:"benefits"`
	Candidacy               []string               `json:"candidacy"`
	Techniques              []TechniqueContent     `json:"techniques"`
	RecoveryTimeline        []TimelineContent      `json:"recoveryTimeline"`
	RecoveryTips            []string               `json:"recoveryTips"`
	ComplementaryProcedures []ComplementaryContent `json:"complementaryProcedures"`
	RisksAndConsiderations  []string               `json:"risksAndConsiderations"`
	Risks                   []string               `json:"risks"`
}

// RecoveryContent holds the recovery milestones
type RecoveryContent struct {
	RecoveryTime   string `json:"recovery_time"`
	ReadyToGoOut   string `json:"ready_to_go_out"`
	ResumeExercise string `json:"resume_exercise"`
	FinalResults   string `json:"final_results"`
}

type TechniqueContent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type TimelineContent struct {
	Timepoint string `json:"timepoint"`
	Guidance  string `json:"guidance"`
}

// ComplementaryContent accepts either a bare name or {name, reason}
type ComplementaryContent struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// UnmarshalJSON implements json.Unmarshaler
func (c *ComplementaryContent) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = ComplementaryContent{Name: name}
		return nil
	}

	var obj struct {
		Name              string `json:"name"`
		ComplementaryName string `json:"complementary_name"`
		Reason            string `json:"reason"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*c = ComplementaryContent{Name: obj.Name, Reason: obj.Reason}
	if c.Name == "" {
		c.Name = obj.ComplementaryName
	}
	return nil
}

// ImportReport counts the outcome of an import run. Skipped procedures
// already existed and count as successes.
type ImportReport struct {
	Created    int
	Skipped    int
	Collisions int
	Failed     int
}

// Succeeded is the number of procedures that are in the catalog after the run
func (r ImportReport) Succeeded() int {
	return r.Created + r.Skipped
}

// ContentStore is the repository surface the importer needs
type ContentStore interface {
	repositories.ProcedureRepository
	repositories.ProcedureContentWriter
}

// ImportService loads procedure content files into the catalog
type ImportService struct {
	store ContentStore
}

// NewImportService creates a new import service
func NewImportService(store ContentStore) *ImportService {
	return &ImportService{store: store}
}

// ImportEnglish creates every procedure of file that is not yet in the
// catalog. Procedures are keyed on their exact display name, so a second run
// only adds new entries. A name whose slug is already taken by another
// procedure is skipped.
func (s *ImportService) ImportEnglish(ctx context.Context, file *ContentFile) ImportReport {
	logger := observability.LoggerFromContext(ctx)
	var report ImportReport

	names := make([]string, 0, len(file.Procedures))
	for _, p := range file.Procedures {
		names = append(names, strings.TrimSpace(p.ProcedureName))
	}
	for _, c := range slug.Collisions(names) {
		logger.Warn().Str("slug", c.Slug).Strs("names", c.Names).Msg("procedure names share a slug; later names will be skipped")
	}

	for i := range file.Procedures {
		content := &file.Procedures[i]
		outcome, err := s.importOne(ctx, content)
		if err != nil {
			report.Failed++
			logger.Error().Err(err).Str("procedure", content.ProcedureName).Msg("failed to import procedure")
			continue
		}
		switch outcome {
		case outcomeCreated:
			report.Created++
		case outcomeSkipped:
			report.Skipped++
		case outcomeCollision:
			report.Collisions++
		}
	}

	logger.Info().
		Int("created", report.Created).
		Int("skipped", report.Skipped).
		Int("collisions", report.Collisions).
		Int("failed", report.Failed).
		Msg("procedure import finished")
	return report
}

type importOutcome int

const (
	outcomeCreated importOutcome = iota
	outcomeSkipped
	outcomeCollision
)

func (s *ImportService) importOne(ctx context.Context, content *ProcedureContent) (importOutcome, error) {
	name := strings.TrimSpace(content.ProcedureName)
	if name == "" {
		return 0, apperrors.NewValidationError("procedureName is required")
	}

	if _, err := s.store.GetByDisplayName(ctx, name); err == nil {
		return outcomeSkipped, nil
	} else if !apperrors.IsNotFound(err) {
		return 0, err
	}

	key := slug.Make(name)
	if key == "" {
		return 0, apperrors.NewValidationError(fmt.Sprintf("procedure name %q has an empty slug", name))
	}
	if existing, err := s.store.GetBySlug(ctx, key); err == nil {
		observability.LoggerFromContext(ctx).Warn().
			Str("procedure", name).
			Str("existing", existing.DisplayName).
			Str("slug", key).
			Msg("slug collision, skipping procedure")
		return outcomeCollision, nil
	} else if !apperrors.IsNotFound(err) {
		return 0, err
	}

	procedure := &entities.Procedure{
		ID:          uuid.New().String(),
		DisplayName: name,
		Slug:        key,
		Category:    Categorize(name),
	}
	if err := s.store.Create(ctx, procedure); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			return outcomeCollision, nil
		}
		return 0, err
	}

	if err := s.store.InsertContent(ctx, procedure.ID, content.Children(i18n.DefaultLanguage)); err != nil {
		return 0, err
	}
	return outcomeCreated, nil
}

// ImportTranslations replaces the lang content of each procedure. Entries
// of translated are matched by position to english, and the catalog row is
// found by the English name.
func (s *ImportService) ImportTranslations(ctx context.Context, lang string, english, translated *ContentFile) (ImportReport, error) {
	var report ImportReport
	if i18n.IsDefault(lang) || !i18n.IsSupported(lang) {
		return report, apperrors.NewValidationError(fmt.Sprintf("unsupported translation language %q", lang))
	}

	logger := observability.LoggerFromContext(ctx).With().Str("lang", lang).Logger()
	if len(english.Procedures) != len(translated.Procedures) {
		logger.Warn().
			Int("english", len(english.Procedures)).
			Int("translated", len(translated.Procedures)).
			Msg("translation file length differs from English")
	}

	n := min(len(english.Procedures), len(translated.Procedures))
	for i := 0; i < n; i++ {
		name := english.Procedures[i].ProcedureName
		procedure, err := s.findByEnglishName(ctx, name)
		if err == nil {
			err = s.store.ReplaceContent(ctx, procedure.ID, lang, translated.Procedures[i].Children(lang))
		}
		if err != nil {
			report.Failed++
			logger.Error().Err(err).Str("procedure", name).Msg("failed to import translation")
			continue
		}
		report.Created++
	}

	logger.Info().Int("imported", report.Created).Int("failed", report.Failed).Msg("translation import finished")
	return report, nil
}

func (s *ImportService) findByEnglishName(ctx context.Context, name string) (*entities.Procedure, error) {
	clean := stripBracketed(name)
	procedure, err := s.store.GetByDisplayName(ctx, clean)
	if err == nil || !apperrors.IsNotFound(err) {
		return procedure, err
	}

	matches, err := s.store.FindByNamePrefix(ctx, clean, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("procedure %q not found", clean))
	}
	return matches[0], nil
}

var bracketed = regexp.MustCompile(`\s*(\([^)]*\)|\[[^\]]*\]|\{[^}]*\}|【[^】]*】|（[^）]*）)`)

// stripBracketed removes parenthesised qualifiers from a name
func stripBracketed(name string) string {
	return strings.TrimSpace(bracketed.ReplaceAllString(name, ""))
}

// Children converts the entry into child rows in lang, with sort_order
// taken from list position
func (c *ProcedureContent) Children(lang string) *entities.ProcedureChildren {
	out := &entities.ProcedureChildren{
		Translations: []entities.ProcedureTranslation{{
			ID:                   uuid.New().String(),
			LanguageCode:         lang,
			Overview:             c.Overview,
			Anesthesia:           c.Anesthesia,
			ProcedureDescription: c.Procedure,
		}},
	}

	if c.Recovery != nil {
		out.Recovery = append(out.Recovery, entities.ProcedureRecovery{
			ID:             uuid.New().String(),
			LanguageCode:   lang,
			RecoveryTime:   c.Recovery.RecoveryTime,
			ReadyToGoOut:   c.Recovery.ReadyToGoOut,
			ResumeExercise: c.Recovery.ResumeExercise,
			FinalResults:   c.Recovery.FinalResults,
		})
	}
	for i, text := range c.Benefits {
		out.Benefits = append(out.Benefits, entities.ProcedureBenefit{ID: uuid.New().String(), LanguageCode: lang, BenefitText: text, SortOrder: i})
	}
	for i, text := range c.Candidacy {
		out.Candidacy = append(out.Candidacy, entities.ProcedureCandidacy{ID: uuid.New().String(), LanguageCode: lang, CandidacyText: text, SortOrder: i})
	}
	for i, t := range c.Techniques {
		out.Techniques = append(out.Techniques, entities.ProcedureTechnique{ID: uuid.New().String(), LanguageCode: lang, TechniqueName: t.Name, Description: t.Description, SortOrder: i})
	}
	for i, t := range c.RecoveryTimeline {
		out.Timeline = append(out.Timeline, entities.RecoveryTimelineEntry{ID: uuid.New().String(), LanguageCode: lang, Timepoint: t.Timepoint, Guidance: t.Guidance, SortOrder: i})
	}
	for i, text := range c.RecoveryTips {
		out.RecoveryTips = append(out.RecoveryTips, entities.RecoveryTip{ID: uuid.New().String(), LanguageCode: lang, TipText: text, SortOrder: i})
	}
	for i, p := range c.ComplementaryProcedures {
		out.Complementary = append(out.Complementary, entities.ComplementaryProcedure{ID: uuid.New().String(), LanguageCode: lang, ComplementaryName: p.Name, Reason: p.Reason, SortOrder: i})
	}
	risks := c.RisksAndConsiderations
	if len(risks) == 0 {
		risks = c.Risks
	}
	for i, text := range risks {
		out.Risks = append(out.Risks, entities.ProcedureRisk{ID: uuid.New().String(), LanguageCode: lang, RiskText: text, SortOrder: i})
	}
	return out
}

var (
	nonSurgicalKeywords = []string{
		"botox", "filler", "injectable", "peel", "laser", "microdermabrasion", "microneedling",
		"prp", "prf", "photofacial", "ipl", "avéli", "collagen", "non-surgical",
	}
	faceKeywords = []string{
		"brow", "face", "eyelid", "rhinoplasty", "nose", "chin", "cheek", "forehead", "temple",
		"otoplasty", "ear", "neck", "jaw", "lip", "mohs", "facial", "zygomatic", "submalar", "buccal",
	}
	bodyKeywords = []string{
		"breast", "body", "tummy", "abdomen", "liposuction", "arm", "thigh", "buttock", "bbl",
		"mommy", "lipo", "labiaplasty", "gynecomastia", "panniculectomy", "lift", "mons pubis", "weight loss",
	}
)

var categoryKeywords = slices.Concat(nonSurgicalKeywords, faceKeywords, bodyKeywords)

// Categorize assigns a catalog category from keywords in the name.
// Non-surgical is checked first, then face, then body. Anything else is face.
// Keywords match at the start of a word, and a longer keyword starting at the
// same place shadows a shorter one, so "liposuction" is body even though it
// starts with the face keyword "lip".
func Categorize(name string) entities.Category {
	lower := strings.ToLower(name)
	contains := func(keyword string) bool { return matchesKeyword(lower, keyword) }

	switch {
	case slices.ContainsFunc(nonSurgicalKeywords, contains):
		return entities.CategoryNonSurgical
	case slices.ContainsFunc(faceKeywords, contains):
		return entities.CategoryFace
	case slices.ContainsFunc(bodyKeywords, contains):
		return entities.CategoryBody
	default:
		return entities.CategoryFace
	}
}

func matchesKeyword(s, keyword string) bool {
	for offset := 0; ; {
		i := strings.Index(s[offset:], keyword)
		if i < 0 {
			return false
		}
		i += offset
		if atWordStart(s, i) && !shadowed(s[i:], keyword) {
			return true
		}
		offset = i + 1
	}
}

func atWordStart(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !unicode.IsLetter(r)
}

func shadowed(rest, keyword string) bool {
	for _, k := range categoryKeywords {
		if len(k) > len(keyword) && strings.HasPrefix(rest, k) {
			return true
		}
	}
	return false
}
