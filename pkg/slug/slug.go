// Package slug derives the canonical URL identifier for procedures and
// surgeons. Every read path, write path and the importer must go through
// Make: storage keys and database lookups are only consistent by convention.
package slug

import (
	"regexp"
	"sort"
	"strings"
)

// Version identifies the derivation rules. Bump it whenever Make changes,
// because existing rows and object keys were written with the previous rules.
const Version = 1

var (
	markGlyphs  = strings.NewReplacer("®", "", "™", "", "©", "")
	nonSlugRuns = regexp.MustCompile(`[^a-z0-9]+`)
)

// Make lowercases name, drops ®™©, collapses every run outside [a-z0-9] into
// a single hyphen and trims hyphens from both ends.
//
//	Make("BOTOX® Cosmetic")            // "botox-cosmetic"
//	Make("Brazilian Butt Lift (BBL)")  // "brazilian-butt-lift-bbl"
func Make(name string) string {
	s := strings.ToLower(name)
	s = markGlyphs.Replace(s)
	s = nonSlugRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Collision is a set of distinct display names sharing one slug.
type Collision struct {
	Slug  string
	Names []string
}

// Collisions reports every slug produced by more than one distinct name.
// Results are sorted by slug; names keep their input order.
func Collisions(names []string) []Collision {
	bySlug := make(map[string][]string)
	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		s := Make(n)
		bySlug[s] = append(bySlug[s], n)
	}

	var out []Collision
	for s, ns := range bySlug {
		if len(ns) > 1 {
			out = append(out, Collision{Slug: s, Names: ns})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
