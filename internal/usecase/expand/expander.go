// Package expand broadens a normalized query into the term set searched by the matcher.
package expand

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/khadamat/internal/domain/normalize"
	"github.com/kailas-cloud/khadamat/internal/domain/variant"
)

const (
	// DefaultMinPatternRunes is the shortest pattern matched as a substring.
	// Shorter patterns only match a whole query token.
	DefaultMinPatternRunes = 3
	// minTokenRunes is the shortest query word added as a term on its own.
	minTokenRunes = 3
)

// Expander maps a query onto known variants. Safe for concurrent use.
type Expander struct {
	table           *variant.Table
	minPatternRunes int
}

// New creates an expander over table. minPatternRunes<=0 selects DefaultMinPatternRunes.
func New(table *variant.Table, minPatternRunes int) *Expander {
	if minPatternRunes <= 0 {
		minPatternRunes = DefaultMinPatternRunes
	}
	return &Expander{table: table, minPatternRunes: minPatternRunes}
}

// Expand returns the query, then the alternatives of every matching table entry
// in table order, then the query words longer than two runes. The result is
// deduplicated and never empty: Expand("") is [""].
func (e *Expander) Expand(query string) []string {
	q := normalize.Normalize(query)
	tokens := strings.Fields(q)

	terms := newTermSet(q)
	for _, entry := range e.table.Entries() {
		if !e.matches(q, tokens, entry.Pattern) {
			continue
		}
		for _, alt := range entry.Alternatives {
			terms.add(alt)
		}
	}
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) >= minTokenRunes {
			terms.add(tok)
		}
	}
	return terms.list
}

// matches reports whether a table pattern applies to the normalized query.
func (e *Expander) matches(q string, tokens []string, pattern string) bool {
	if q == "" || pattern == "" {
		return false
	}
	if utf8.RuneCountInString(pattern) < e.minPatternRunes {
		for _, tok := range tokens {
			if tok == pattern {
				return true
			}
		}
		return q == pattern
	}
	if strings.Contains(q, pattern) {
		return true
	}
	return utf8.RuneCountInString(q) >= e.minPatternRunes && strings.Contains(pattern, q)
}

type termSet struct {
	seen map[string]struct{}
	list []string
}

func newTermSet(first string) *termSet {
	return &termSet{
		seen: map[string]struct{}{first: {}},
		list: []string{first},
	}
}

func (s *termSet) add(term string) {
	if _, ok := s.seen[term]; ok {
		return
	}
	s.seen[term] = struct{}{}
	s.list = append(s.list, term)
}
