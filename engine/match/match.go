// Package match computes normalized string similarity for fuzzy answer
// grading. Similarity is a pure function so graders and tests agree on the
// exact score.
package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Normalize lowercases the string, trims it, and collapses internal
// whitespace runs to a single space.
func Normalize(s string) string {
	return NormalizeKeepCase(strings.ToLower(s))
}

// NormalizeKeepCase trims and collapses whitespace without case folding,
// for lessons that grade case-sensitively.
func NormalizeKeepCase(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Similarity returns a score in [0,1] comparing two strings after
// normalization: 1 - editDistance / max(len). Both empty → 1.0, exactly one
// empty → 0.0. Symmetric, and Similarity(a, a) == 1.0.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == "" && nb == "" {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}

	dist := levenshtein.ComputeDistance(na, nb)
	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}
	return 1.0 - float64(dist)/float64(maxLen)
}
