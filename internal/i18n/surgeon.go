package i18n

import (
	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// SurgeonPlaceholderImage is shown when a surgeon has neither a slot image
// nor an image_url.
const SurgeonPlaceholderImage = "https://images.unsplash.com/photo-1559839734-2b71ea197ec2?q=80&w=1740&auto=format&fit=crop"

// ResolveSurgeon returns the surgeon in lang. English, a missing translations
// map and a missing entry all return the base fields verbatim. Otherwise each
// field of the translation overrides English only when it is set.
func ResolveSurgeon(s *entities.Surgeon, lang string) entities.LocalizedSurgeon {
	out := entities.LocalizedSurgeon{
		SurgeonID:       s.SurgeonID,
		Name:            s.Name,
		Title:           s.Title,
		ExperienceYears: s.ExperienceYears,
		ImageURL:        SurgeonImage(s, entities.SlotHero),
		Specialties:     nonNil(s.Specialties),
		Languages:       nonNil(s.Languages),
		Education:       nonNil(s.Education),
		Certifications:  nonNil(s.Certifications),
		ProceduresCount: s.ProceduresCount,
		Bio:             s.Bio,
		Images:          s.Images,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if out.ProceduresCount == nil {
		out.ProceduresCount = map[string]int{}
	}
	if out.Images == nil {
		out.Images = map[string]string{}
	}

	if IsDefault(lang) || s.Translations == nil {
		return out
	}
	tr, ok := s.Translations[lang]
	if !ok {
		return out
	}

	out.Title = FirstString(tr.Title, s.Title)
	out.Specialties = nonNil(FirstSlice(tr.Specialties, s.Specialties))
	out.Languages = nonNil(FirstSlice(tr.Languages, s.Languages))
	out.Education = nonNil(FirstSlice(tr.Education, s.Education))
	out.Certifications = nonNil(FirstSlice(tr.Certifications, s.Certifications))
	if tr.Bio != nil {
		out.Bio = entities.SurgeonBio{
			Intro:        FirstString(tr.Bio.Intro, s.Bio.Intro),
			Expertise:    FirstString(tr.Bio.Expertise, s.Bio.Expertise),
			Philosophy:   FirstString(tr.Bio.Philosophy, s.Bio.Philosophy),
			Achievements: FirstSlice(tr.Bio.Achievements, s.Bio.Achievements),
		}
	}
	return out
}

// SurgeonImage resolves a slot image: images[slot], then image_url, then the
// placeholder.
func SurgeonImage(s *entities.Surgeon, slot entities.ImageSlot) string {
	return FirstString(s.Images[string(slot)], s.ImageURL, SurgeonPlaceholderImage)
}

// SummarizeSurgeon builds the listing card of s in lang.
func SummarizeSurgeon(s *entities.Surgeon, lang string) entities.SurgeonSummary {
	l := ResolveSurgeon(s, lang)
	return entities.SurgeonSummary{
		SurgeonID:       l.SurgeonID,
		Name:            l.Name,
		Title:           l.Title,
		ImageURL:        l.ImageURL,
		Images:          l.Images,
		Specialties:     l.Specialties,
		ExperienceYears: l.ExperienceYears,
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
