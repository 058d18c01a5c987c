// Package variant holds the curated phrase table used to broaden search recall.
//
// Each entry maps a known phrase (a canonical name, a common misspelling or a
// translation) onto alternative phrases to search for. Typo tolerance comes
// from the table, not from edit distance.
package variant

import (
	"github.com/kailas-cloud/khadamat/internal/domain/normalize"
)

// Entry maps a phrase onto the alternatives searched when the phrase is seen.
// The first alternative is the canonical phrase of the entry.
type Entry struct {
	Pattern      string   `yaml:"pattern" json:"pattern"`
	Alternatives []string `yaml:"alternatives" json:"alternatives"`
}

// Canonical returns the phrase that best names the entry.
func (e Entry) Canonical() string {
	if len(e.Alternatives) > 0 {
		return e.Alternatives[0]
	}
	return e.Pattern
}

// Table is an immutable ordered list of entries. Safe for concurrent use.
type Table struct {
	entries []Entry
}

// New normalizes entries and builds a table.
// Entries with an empty pattern are dropped; alternatives are deduplicated.
func New(entries []Entry) *Table {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		p := normalize.Normalize(e.Pattern)
		if p == "" {
			continue
		}
		seen := make(map[string]struct{}, len(e.Alternatives))
		alts := make([]string, 0, len(e.Alternatives))
		for _, a := range e.Alternatives {
			a = normalize.Normalize(a)
			if a == "" {
				continue
			}
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			alts = append(alts, a)
		}
		out = append(out, Entry{Pattern: p, Alternatives: alts})
	}
	return &Table{entries: out}
}

// Entries returns a copy of the table entries in table order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Canonical returns distinct canonical phrases in table order.
// Pass a filter to keep only some phrases (nil keeps all); limit<=0 means no limit.
func (t *Table) Canonical(limit int, keep func(string) bool) []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, e := range t.entries {
		c := e.Canonical()
		if _, ok := seen[c]; ok {
			continue
		}
		if keep != nil && !keep(c) {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
