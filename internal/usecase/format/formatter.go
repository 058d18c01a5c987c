// Package format renders search results as localized text.
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/normalize"
	"github.com/kailas-cloud/khadamat/internal/domain/search/result"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
	"github.com/kailas-cloud/khadamat/internal/domain/variant"
)

// Defaults for Options.
const (
	DefaultDescriptionMaxRunes = 120
	DefaultMaxRequirements     = 3
	DefaultSuggestionCount     = 5
)

const ellipsis = "…"

// Options tune the rendered text. Zero values select the defaults.
type Options struct {
	DescriptionMaxRunes int
	MaxRequirements     int
	SuggestionCount     int
	// ServiceBaseURL builds "<base>/<id>" links for records without an official URL.
	ServiceBaseURL string
}

// Formatter renders results. Safe for concurrent use.
type Formatter struct {
	table *variant.Table
	opts  Options
}

// New creates a formatter. The table supplies suggestions for empty results.
func New(table *variant.Table, opts Options) *Formatter {
	if opts.DescriptionMaxRunes <= 0 {
		opts.DescriptionMaxRunes = DefaultDescriptionMaxRunes
	}
	if opts.MaxRequirements <= 0 {
		opts.MaxRequirements = DefaultMaxRequirements
	}
	if opts.SuggestionCount <= 0 {
		opts.SuggestionCount = DefaultSuggestionCount
	}
	opts.ServiceBaseURL = strings.TrimRight(opts.ServiceBaseURL, "/")
	return &Formatter{table: table, opts: opts}
}

// Format renders res for a query written in language. The template language
// follows the query, not the records. Never returns an empty string.
func (f *Formatter) Format(res result.Result, originalQuery string, language lang.Language) string {
	m := messagesFor(language)
	tl := templateLanguage(language)
	query := strings.TrimSpace(originalQuery)

	if res.IsEmpty() {
		return f.notFound(m, tl, query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, m.header, res.Count(), query)
	b.WriteString("\n")

	records := res.Records()
	for i := range records {
		b.WriteString("\n")
		f.writeRecord(&b, m, tl, i+1, &records[i])
	}

	b.WriteString("\n")
	b.WriteString(m.followUp)
	return b.String()
}

// FormatStats renders catalog counters. Categories without active records are skipped.
func (f *Formatter) FormatStats(st service.Stats, language lang.Language) string {
	m := messagesFor(language)

	var b strings.Builder
	b.WriteString(m.statsTitle)
	b.WriteString("\n")
	fmt.Fprintf(&b, "• %s: %d\n", m.statsTotal, st.Total)
	fmt.Fprintf(&b, "• %s: %d\n", m.statsActive, st.Active)
	fmt.Fprintf(&b, "• %s: %d\n", m.statsOnline, st.Online)

	var lines []string
	for _, c := range service.Categories {
		if n := st.ByCategory[c]; n > 0 {
			lines = append(lines, fmt.Sprintf("• %s: %d", CategoryName(c, language), n))
		}
	}
	if len(lines) > 0 {
		b.WriteString("\n")
		b.WriteString(m.statsCategory)
		b.WriteString("\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) notFound(m *messages, tl lang.Language, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, m.notFound, query)

	if suggestions := f.suggestions(tl); len(suggestions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.tryThese)
		for _, s := range suggestions {
			b.WriteString("\n• ")
			b.WriteString(s)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.statsHint)
	return b.String()
}

// suggestions prefers canonical phrases written in the template's script.
func (f *Formatter) suggestions(tl lang.Language) []string {
	want := lang.LTR
	if tl == lang.Arabic {
		want = lang.RTL
	}
	out := f.table.Canonical(f.opts.SuggestionCount, func(s string) bool {
		return lang.DetectDirection(s) == want
	})
	if len(out) == 0 {
		out = f.table.Canonical(f.opts.SuggestionCount, nil)
	}
	return out
}

func (f *Formatter) writeRecord(b *strings.Builder, m *messages, tl lang.Language, n int, r *service.Record) {
	name, alt := names(r, tl)
	fmt.Fprintf(b, "%d. %s", n, orDefault(name, m.notSpecified))
	if alt != "" {
		fmt.Fprintf(b, " (%s)", alt)
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "   %s: %s\n", m.category, CategoryName(r.Category, tl))
	fmt.Fprintf(b, "   %s: %s\n", m.description,
		orDefault(truncate(description(r, tl), f.opts.DescriptionMaxRunes), m.notSpecified))

	reqs := requirements(r, tl)
	if len(reqs) == 0 {
		fmt.Fprintf(b, "   %s: %s\n", m.requirements, m.notSpecified)
	} else {
		fmt.Fprintf(b, "   %s:\n", m.requirements)
		for i, req := range reqs {
			if i == f.opts.MaxRequirements {
				break
			}
			fmt.Fprintf(b, "   • %s\n", req)
		}
	}

	if fee := strings.TrimSpace(r.Fee); fee != "" && !isNotSpecified(fee) {
		fmt.Fprintf(b, "   %s: %s\n", m.fee, fee)
	}
	fmt.Fprintf(b, "   %s: %s\n", m.duration, orDefault(firstNonEmpty(r.Duration, r.ProcessingTime), m.notSpecified))
	fmt.Fprintf(b, "   %s: %s\n", m.office, orDefault(r.Office, m.notSpecified))
	fmt.Fprintf(b, "   %s: %s\n", m.link, orDefault(f.link(r), m.notSpecified))
	if r.IsOnline {
		fmt.Fprintf(b, "   %s\n", m.available)
	}
}

// link prefers the official external URL over the internal service page.
func (f *Formatter) link(r *service.Record) string {
	if u := strings.TrimSpace(r.OnlineURL); u != "" {
		return u
	}
	if f.opts.ServiceBaseURL != "" && r.ID != "" {
		return f.opts.ServiceBaseURL + "/" + r.ID
	}
	return ""
}

// names returns the display name in the template language and an alternate
// name in another language when one exists.
func names(r *service.Record, tl lang.Language) (string, string) {
	var order []string
	switch tl {
	case lang.Arabic:
		order = []string{r.Name, r.NameEn, r.NameFr}
	case lang.French:
		order = []string{r.NameFr, r.NameEn, r.Name}
	default:
		order = []string{r.NameEn, r.Name, r.NameFr}
	}

	var primary string
	for _, n := range order {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if primary == "" {
			primary = n
			continue
		}
		if n != primary {
			return primary, n
		}
	}
	return primary, ""
}

func description(r *service.Record, tl lang.Language) string {
	switch tl {
	case lang.Arabic:
		return firstNonEmpty(r.Description, r.DescriptionEn, r.DescriptionFr)
	case lang.French:
		return firstNonEmpty(r.DescriptionFr, r.DescriptionEn, r.Description)
	default:
		return firstNonEmpty(r.DescriptionEn, r.Description, r.DescriptionFr)
	}
}

func requirements(r *service.Record, tl lang.Language) []string {
	if tl == lang.Arabic {
		if len(r.Requirements) > 0 {
			return r.Requirements
		}
		return r.RequirementsEn
	}
	if len(r.RequirementsEn) > 0 {
		return r.RequirementsEn
	}
	return r.Requirements
}

func truncate(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxRunes])) + ellipsis
}

func isNotSpecified(fee string) bool {
	n := normalize.Normalize(fee)
	for _, s := range notSpecifiedFees {
		if n == s {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
