package entities

import (
	"time"
)

// Category is the closed set of catalog sections a procedure belongs to.
type Category string

const (
	CategoryFace        Category = "face"
	CategoryBody        Category = "body"
	CategoryNonSurgical Category = "non-surgical"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryFace, CategoryBody, CategoryNonSurgical:
		return true
	}
	return false
}

// Procedure is a catalog entry. Slug is derived from DisplayName and unique.
type Procedure struct {
	ID          string    `json:"id" db:"id"`
	DisplayName string    `json:"procedure_name" db:"procedure_name"`
	Slug        string    `json:"slug" db:"slug"`
	Category    Category  `json:"category" db:"category"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProcedureTranslation holds the long-form text of a procedure in one
// language. At most one row exists per (ProcedureID, LanguageCode).
type ProcedureTranslation struct {
	ID                   string `json:"id" db:"id"`
	ProcedureID          string `json:"procedure_id" db:"procedure_id"`
	LanguageCode         string `json:"language_code" db:"language_code"`
	Overview             string `json:"overview" db:"overview"`
	Anesthesia           string `json:"anesthesia" db:"anesthesia"`
	ProcedureDescription string `json:"procedure_description" db:"procedure_description"`
}

// ProcedureRecovery summarises recovery milestones in one language.
type ProcedureRecovery struct {
	ID             string `json:"id" db:"id"`
	ProcedureID    string `json:"procedure_id" db:"procedure_id"`
	LanguageCode   string `json:"language_code" db:"language_code"`
	RecoveryTime   string `json:"recovery_time" db:"recovery_time"`
	ReadyToGoOut   string `json:"ready_to_go_out" db:"ready_to_go_out"`
	ResumeExercise string `json:"resume_exercise" db:"resume_exercise"`
	FinalResults   string `json:"final_results" db:"final_results"`
}

// ChildRow is the ordering contract shared by every per-language child table.
type ChildRow interface {
	Order() int
}

// ProcedureBenefit is one bullet of the benefits list.
type ProcedureBenefit struct {
	ID           string `json:"id" db:"id"`
	ProcedureID  string `json:"procedure_id" db:"procedure_id"`
	LanguageCode string `json:"language_code" db:"language_code"`
	BenefitText  string `json:"benefit_text" db:"benefit_text"`
	SortOrder    int    `json:"sort_order" db:"sort_order"`
}

func (r ProcedureBenefit) Order() int { return r.SortOrder }

// ProcedureCandidacy is one "good candidate if" bullet.
type ProcedureCandidacy struct {
	ID            string `json:"id" db:"id"`
	ProcedureID   string `json:"procedure_id" db:"procedure_id"`
	LanguageCode  string `json:"language_code" db:"language_code"`
	CandidacyText string `json:"candidacy_text" db:"candidacy_text"`
	SortOrder     int    `json:"sort_order" db:"sort_order"`
}

func (r ProcedureCandidacy) Order() int { return r.SortOrder }

// ProcedureTechnique describes one surgical technique variant.
type ProcedureTechnique struct {
	ID            string `json:"id" db:"id"`
	ProcedureID   string `json:"procedure_id" db:"procedure_id"`
	LanguageCode  string `json:"language_code" db:"language_code"`
	TechniqueName string `json:"technique_name" db:"technique_name"`
	Description   string `json:"description" db:"description"`
	SortOrder     int    `json:"sort_order" db:"sort_order"`
}

func (r ProcedureTechnique) Order() int { return r.SortOrder }

// RecoveryTimelineEntry is one step of the recovery timeline.
type RecoveryTimelineEntry struct {
	ID           string `json:"id" db:"id"`
	ProcedureID  string `json:"procedure_id" db:"procedure_id"`
	LanguageCode string `json:"language_code" db:"language_code"`
	Timepoint    string `json:"timepoint" db:"timepoint"`
	Guidance     string `json:"guidance" db:"guidance"`
	SortOrder    int    `json:"sort_order" db:"sort_order"`
}

func (r RecoveryTimelineEntry) Order() int { return r.SortOrder }

// RecoveryTip is one aftercare tip.
type RecoveryTip struct {
	ID           string `json:"id" db:"id"`
	ProcedureID  string `json:"procedure_id" db:"procedure_id"`
	LanguageCode string `json:"language_code" db:"language_code"`
	TipText      string `json:"tip_text" db:"tip_text"`
	SortOrder    int    `json:"sort_order" db:"sort_order"`
}

func (r RecoveryTip) Order() int { return r.SortOrder }

// ComplementaryProcedure suggests a procedure often combined with this one.
type ComplementaryProcedure struct {
	ID                string `json:"id" db:"id"`
	ProcedureID       string `json:"procedure_id" db:"procedure_id"`
	LanguageCode      string `json:"language_code" db:"language_code"`
	ComplementaryName string `json:"complementary_name" db:"complementary_name"`
	Reason            string `json:"reason" db:"reason"`
	SortOrder         int    `json:"sort_order" db:"sort_order"`
}

func (r ComplementaryProcedure) Order() int { return r.SortOrder }

// ProcedureRisk is one risk or consideration.
type ProcedureRisk struct {
	ID           string `json:"id" db:"id"`
	ProcedureID  string `json:"procedure_id" db:"procedure_id"`
	LanguageCode string `json:"language_code" db:"language_code"`
	RiskText     string `json:"risk_text" db:"risk_text"`
	SortOrder    int    `json:"sort_order" db:"sort_order"`
}

func (r ProcedureRisk) Order() int { return r.SortOrder }

// ProcedureChildren is every language-filtered collection of a procedure.
// Slices are never nil so they encode as [] rather than null.
type ProcedureChildren struct {
	Translations  []ProcedureTranslation   `json:"procedure_translations"`
	Recovery      []ProcedureRecovery      `json:"procedure_recovery"`
	Benefits      []ProcedureBenefit       `json:"procedure_benefits"`
	Candidacy     []ProcedureCandidacy     `json:"procedure_candidacy"`
	Techniques    []ProcedureTechnique     `json:"procedure_techniques"`
	Timeline      []RecoveryTimelineEntry  `json:"procedure_recovery_timeline"`
	RecoveryTips  []RecoveryTip            `json:"procedure_recovery_tips"`
	Complementary []ComplementaryProcedure `json:"complementary_procedures"`
	Risks         []ProcedureRisk          `json:"procedure_risks"`
}

// ProcedureImages are the role images of a procedure page.
type ProcedureImages struct {
	Hero      string `json:"hero"`
	Benefits  string `json:"benefits"`
	Candidate string `json:"candidate"`
}

// ProcedureBundle is a resolved procedure plus its ordered child collections
// for one language, as returned to the procedure page.
type ProcedureBundle struct {
	Procedure
	ProcedureChildren
	LanguageCode  string          `json:"language_code"`
	LocalizedName string          `json:"localized_name"`
	MatchedBy     string          `json:"matched_by"`
	Images        ProcedureImages `json:"images"`
	Cases         []PresentedCase `json:"cases"`
}

// ProcedureSummary is a catalog card.
type ProcedureSummary struct {
	Procedure
	LocalizedName string `json:"localized_name"`
	CategoryLabel string `json:"category_label"`
	HeroImage     string `json:"hero_image"`
}

const (
	// MatchedBySlug marks a bundle found by exact slug.
	MatchedBySlug = "slug"
	// MatchedByPrefix marks a bundle found by display-name prefix fallback.
	MatchedByPrefix = "prefix"
)
