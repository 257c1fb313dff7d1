// Package i18n resolves localized content with English as the fallback for
// every lookup.
package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the language every chain falls back to.
const DefaultLanguage = "en"

// SupportedLanguages are the site languages, default first.
var SupportedLanguages = []string{"en", "zh", "es", "fr", "de", "ru", "ar", "vi", "id"}

var matcher = language.NewMatcher(supportedTags())

func supportedTags() []language.Tag {
	tags := make([]language.Tag, len(SupportedLanguages))
	for i, code := range SupportedLanguages {
		tags[i] = language.Make(code)
	}
	return tags
}

// Normalize maps a raw lang parameter or Accept-Language value onto a
// lowercase base language code. A close match to SupportedLanguages wins;
// any other well-formed language passes through as its base code so callers
// see it as untranslated. Empty or malformed input yields DefaultLanguage.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}

	if _, index, confidence := matcher.Match(tags...); confidence >= language.High {
		return SupportedLanguages[index]
	}

	base, _ := tags[0].Base()
	if code := base.String(); code != "" && code != "und" {
		return code
	}
	return DefaultLanguage
}

// IsSupported reports whether lang is one of SupportedLanguages
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, lang)
}

// IsDefault reports whether lang needs no translation lookup.
func IsDefault(lang string) bool {
	return lang == "" || lang == DefaultLanguage
}
