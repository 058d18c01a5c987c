// Package query holds the per-request search query built by the chat pipeline.
package query

import (
	"fmt"
	"unicode/utf8"

	"github.com/kailas-cloud/khadamat/internal/domain/intent"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed raw query length in runes.
	MaxQueryLength = 1000
	// MaxTerms caps the expanded term set sent to the store.
	MaxTerms     = 64
	DefaultLimit = 8
	MaxLimit     = 50
)

// Query is a validated search query.
type Query struct {
	raw        string
	normalized string
	terms      []string
	language   lang.Language
	analysis   intent.Analysis
}

// New validates and creates a query.
// The normalized text is always the first term; duplicate terms are dropped
// and the set is capped at MaxTerms.
func New(raw, normalized string, terms []string, language lang.Language, analysis intent.Analysis) (Query, error) {
	if utf8.RuneCountInString(raw) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if !language.IsValid() {
		language = lang.English
	}
	if analysis.Intent == "" {
		analysis.Intent = intent.Information
	}
	if analysis.Urgency == "" {
		analysis.Urgency = intent.Normal
	}
	if !analysis.HasCategory() {
		analysis.Category = ""
	}

	out := make([]string, 0, len(terms)+1)
	seen := make(map[string]struct{}, len(terms)+1)
	for _, t := range append([]string{normalized}, terms...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == MaxTerms {
			break
		}
	}

	return Query{
		raw:        raw,
		normalized: normalized,
		terms:      out,
		language:   language,
		analysis:   analysis,
	}, nil
}

// Raw returns the text as the user typed it.
func (q *Query) Raw() string { return q.raw }

// Normalized returns the normalized text, the canonical term.
func (q *Query) Normalized() string { return q.normalized }

// Terms returns the expanded term set, canonical term first.
func (q *Query) Terms() []string {
	out := make([]string, len(q.terms))
	copy(out, q.terms)
	return out
}

// SearchTerms returns the non-empty terms that can match a record.
func (q *Query) SearchTerms() []string {
	out := make([]string, 0, len(q.terms))
	for _, t := range q.terms {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Language returns the detected query language.
func (q *Query) Language() lang.Language { return q.language }

// Analysis returns the classifier output.
func (q *Query) Analysis() intent.Analysis { return q.analysis }

// Intent returns the detected intent.
func (q *Query) Intent() intent.Intent { return q.analysis.Intent }

// Category returns the detected category, empty when none is known.
func (q *Query) Category() service.Category { return q.analysis.Category }

// Urgency returns the detected urgency.
func (q *Query) Urgency() intent.Urgency { return q.analysis.Urgency }
