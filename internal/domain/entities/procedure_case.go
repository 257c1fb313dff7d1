package entities

import (
	"time"
)

// DefaultProviderName is credited when a case is saved without a provider.
const DefaultProviderName = "Dr. Heather Lee"

// DefaultCaseImageCount is assumed when a case is saved without image_count.
const DefaultCaseImageCount = 2

// ProcedureCase is one before/after case. CaseNumber is unique within a
// procedure only; (ProcedureID, CaseNumber) is the upsert key.
type ProcedureCase struct {
	ID            string    `json:"id" db:"id"`
	ProcedureID   string    `json:"procedure_id" db:"procedure_id"`
	CaseNumber    string    `json:"case_number" db:"case_number"`
	Description   string    `json:"description" db:"description"`
	ProviderName  string    `json:"provider_name" db:"provider_name"`
	PatientAge    *int      `json:"patient_age" db:"patient_age"`
	PatientGender *string   `json:"patient_gender" db:"patient_gender"`
	ImageCount    int       `json:"image_count" db:"image_count"`
	SortOrder     int       `json:"sort_order" db:"sort_order"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// LayoutKind names the fixed gallery arrangements selected by image count.
type LayoutKind string

const (
	LayoutSingle      LayoutKind = "single"
	LayoutBeforeAfter LayoutKind = "before-after"
	LayoutTwoPlusOne  LayoutKind = "two-large-one-small"
	LayoutTwoPlusTwo  LayoutKind = "two-large-two-small"
)

// SlotSize is the rendered size of an image slot.
type SlotSize string

const (
	SlotLarge SlotSize = "large"
	SlotSmall SlotSize = "small"
)

// CaseImageSlot is one positioned image of a case. Index is 1-based and
// matches the case-{n}-{index}.jpg object key.
type CaseImageSlot struct {
	Index int      `json:"index"`
	Size  SlotSize `json:"size"`
	URL   string   `json:"url,omitempty"`
}

// CaseLayout is the presentation chosen for a case.
type CaseLayout struct {
	Kind  LayoutKind      `json:"kind"`
	Slots []CaseImageSlot `json:"slots"`
}

// PresentedCase is a case plus the image URLs its layout needs.
type PresentedCase struct {
	ProcedureCase
	Layout CaseLayout `json:"layout"`
}
