package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var canonical = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMake_Examples(t *testing.T) {
	cases := []struct{ in, want string }{
		{"BOTOX® Cosmetic", "botox-cosmetic"},
		{"Brazilian Butt Lift (BBL)", "brazilian-butt-lift-bbl"},
		{"Rhinoplasty", "rhinoplasty"},
		{"Otoplasty (Ear Pinning)", "otoplasty-ear-pinning"},
		{"Temples Lift / Temporofrontal", "temples-lift-temporofrontal"},
		{"  --CoolSculpting™--  ", "coolsculpting"},
		{"Avéli™ Cellulite Treatment", "av-li-cellulite-treatment"},
		{"", ""},
		{"®™©", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.in), "Make(%q)", tc.in)
	}
}

func TestMake_OutputIsCanonical(t *testing.T) {
	inputs := []string{
		"Mommy Makeover",
		"Facial Rejuvenation with PRP",
		"Fat Transfer (Facial Fat Grafting)",
		"Lip Filler!!!",
		"100% Natural -- Results",
		"Ünïcödé Näme",
		"\tTabs\nand newlines\r",
	}
	for _, in := range inputs {
		got := Make(in)
		assert.Regexp(t, canonical, got, "Make(%q)", in)
		assert.NotContains(t, got, "--")
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"BOTOX® Cosmetic",
		"Brazilian Butt Lift (BBL)",
		"Midface Lift (Mid Facelift)",
		"a--b",
		"-x-",
	}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "Make(Make(%q))", in)
	}
}

func TestCollisions(t *testing.T) {
	got := Collisions([]string{
		"BOTOX® Cosmetic",
		"Rhinoplasty",
		"BOTOX Cosmetic",
		"BOTOX® Cosmetic",
		"Facelift",
	})

	if assert.Len(t, got, 1) {
		assert.Equal(t, "botox-cosmetic", got[0].Slug)
		assert.Equal(t, []string{"BOTOX® Cosmetic", "BOTOX Cosmetic"}, got[0].Names)
	}
	assert.Empty(t, Collisions([]string{"Facelift", "Neck Lift"}))
}
