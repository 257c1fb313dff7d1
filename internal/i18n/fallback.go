package i18n

import (
	"slices"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// First walks candidates in order and returns the first one present reports
// as set. The zero value is returned when none are.
func First[T any](present func(T) bool, candidates ...T) (T, bool) {
	for _, c := range candidates {
		if present(c) {
			return c, true
		}
	}
	var zero T
	return zero, false
}

// FirstString returns the first non-empty string.
func FirstString(candidates ...string) string {
	s, _ := First(func(v string) bool { return v != "" }, candidates...)
	return s
}

// FirstSlice returns the first non-empty slice.
func FirstSlice[T any](candidates ...[]T) []T {
	s, _ := First(func(v []T) bool { return len(v) > 0 }, candidates...)
	return s
}

// SortByOrder sorts child rows by sort_order in place, keeping the relative
// order of equal keys, and returns rows for chaining. A nil input becomes an
// empty slice.
func SortByOrder[T entities.ChildRow](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	slices.SortStableFunc(rows, func(a, b T) int {
		return a.Order() - b.Order()
	})
	return rows
}

// SortChildren orders every collection of c by sort_order.
func SortChildren(c *entities.ProcedureChildren) {
	if c.Translations == nil {
		c.Translations = []entities.ProcedureTranslation{}
	}
	if c.Recovery == nil {
		c.Recovery = []entities.ProcedureRecovery{}
	}
	c.Benefits = SortByOrder(c.Benefits)
	c.Candidacy = SortByOrder(c.Candidacy)
	c.Techniques = SortByOrder(c.Techniques)
	c.Timeline = SortByOrder(c.Timeline)
	c.RecoveryTips = SortByOrder(c.RecoveryTips)
	c.Complementary = SortByOrder(c.Complementary)
	c.Risks = SortByOrder(c.Risks)
}
