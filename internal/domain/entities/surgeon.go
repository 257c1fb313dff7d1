package entities

import (
	"time"
)

// ImageSlot keys the Surgeon.Images map.
type ImageSlot string

const (
	SlotHero          ImageSlot = "hero"
	SlotCertification ImageSlot = "certification"
	SlotWithPatients  ImageSlot = "with_patients"
	SlotOffice        ImageSlot = "office"
)

// WritableImageSlots are the slots the admin update endpoint accepts.
var WritableImageSlots = []ImageSlot{SlotHero, SlotCertification, SlotWithPatients}

// IsWritable reports whether the admin endpoint may set s
func (s ImageSlot) IsWritable() bool {
	for _, w := range WritableImageSlots {
		if s == w {
			return true
		}
	}
	return false
}

// SurgeonBio is the long-form biography block.
type SurgeonBio struct {
	Intro        string   `json:"intro"`
	Expertise    string   `json:"expertise"`
	Philosophy   string   `json:"philosophy"`
	Achievements []string `json:"achievements"`
}

// SurgeonTranslation is a partial override of a surgeon's English fields.
// Nil or empty fields fall back to English individually.
type SurgeonTranslation struct {
	Title          string      `json:"title,omitempty"`
	Specialties    []string    `json:"specialties,omitempty"`
	Languages      []string    `json:"languages,omitempty"`
	Education      []string    `json:"education,omitempty"`
	Certifications []string    `json:"certifications,omitempty"`
	Bio            *SurgeonBio `json:"bio,omitempty"`
}

// Surgeon is a directory entry. SurgeonID is the public slug.
type Surgeon struct {
	ID              string                        `json:"id" db:"id"`
	SurgeonID       string                        `json:"surgeon_id" db:"surgeon_id"`
	Name            string                        `json:"name" db:"name"`
	Title           string                        `json:"title" db:"title"`
	ExperienceYears int                           `json:"experience_years" db:"experience_years"`
	ImageURL        string                        `json:"image_url" db:"image_url"`
	Specialties     []string                      `json:"specialties" db:"specialties"`
	Languages       []string                      `json:"languages" db:"languages"`
	Education       []string                      `json:"education" db:"education"`
	Certifications  []string                      `json:"certifications" db:"certifications"`
	ProceduresCount map[string]int                `json:"procedures_count" db:"procedures_count"`
	Bio             SurgeonBio                    `json:"bio" db:"bio"`
	Images          map[string]string             `json:"images" db:"images"`
	ImagesVersion   int64                         `json:"images_version" db:"images_version"`
	Translations    map[string]SurgeonTranslation `json:"translations,omitempty" db:"translations"`
	CreatedAt       time.Time                     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time                     `json:"updated_at" db:"updated_at"`
}

// SurgeonImages is the images map of a surgeon together with the version it
// was read at.
type SurgeonImages struct {
	ID      string
	Images  map[string]string
	Version int64
}

// LocalizedSurgeon is the public surgeon detail view in one language.
type LocalizedSurgeon struct {
	SurgeonID       string            `json:"surgeon_id"`
	Name            string            `json:"name"`
	Title           string            `json:"title"`
	ExperienceYears int               `json:"experience_years"`
	ImageURL        string            `json:"image_url"`
	Specialties     []string          `json:"specialties"`
	Languages       []string          `json:"languages"`
	Education       []string          `json:"education"`
	Certifications  []string          `json:"certifications"`
	ProceduresCount map[string]int    `json:"procedures_count"`
	Bio             SurgeonBio        `json:"bio"`
	Images          map[string]string `json:"images"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// SurgeonSummary is the listing card of a surgeon.
type SurgeonSummary struct {
	SurgeonID       string            `json:"surgeon_id"`
	Name            string            `json:"name"`
	Title           string            `json:"title"`
	ImageURL        string            `json:"image_url"`
	Images          map[string]string `json:"images"`
	Specialties     []string          `json:"specialties"`
	ExperienceYears int               `json:"experience_years"`
}

// SurgeonRecord is the admin listing row used to manage photos.
type SurgeonRecord struct {
	ID              string            `json:"id"`
	SurgeonID       string            `json:"surgeon_id"`
	Name            string            `json:"name"`
	Title           string            `json:"title"`
	ExperienceYears int               `json:"experience_years"`
	ImageURL        string            `json:"image_url"`
	Specialties     []string          `json:"specialties"`
	Images          map[string]string `json:"images"`
	ImagesVersion   int64             `json:"images_version"`
}

// SurgeonDirectory groups surgeon cards by specialty.
type SurgeonDirectory struct {
	SurgeonsBySpecialty map[string][]SurgeonSummary `json:"surgeonsBySpecialty"`
	AllSpecialties      []string                    `json:"allSpecialties"`
	TotalSurgeons       int                         `json:"totalSurgeons"`
}
