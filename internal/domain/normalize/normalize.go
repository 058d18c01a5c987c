// Package normalize prepares free-form text for matching.
//
// Normalize applies Unicode NFKC (which folds Arabic presentation forms onto
// base letters), Unicode case folding, and whitespace collapsing. Arabic
// diacritics are kept as-is. The function is total and idempotent.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases, trims and collapses whitespace runs to single spaces.
// Empty input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	// cases.Caser is stateful, so a fresh one is built per call.
	s := norm.NFKC.String(text)
	s = cases.Fold().String(s)
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// ContainsFold reports whether needle occurs in haystack after both are normalized.
// An empty needle never matches.
func ContainsFold(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}
