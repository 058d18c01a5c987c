// Package classify derives intent, category and urgency from a query.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/khadamat/internal/domain/intent"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/normalize"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// minSubstringRunes is the shortest keyword matched inside a word.
// Shorter keywords must match a whole token.
const minSubstringRunes = 4

var languages = []lang.Language{lang.Arabic, lang.English, lang.French}

type keywordSet map[lang.Language][]string

type compiledIntent struct {
	intent   intent.Intent
	keywords keywordSet
}

type compiledCategory struct {
	category service.Category
	keywords keywordSet
}

// RuleClassifier is a keyword classifier. It is total and safe for concurrent use.
type RuleClassifier struct {
	intents    []compiledIntent
	categories []compiledCategory
	urgent     keywordSet
	stats      keywordSet
}

// NewRuleClassifier normalizes rules once. Invalid intents and categories are skipped.
func NewRuleClassifier(rules Rules) *RuleClassifier {
	c := &RuleClassifier{
		urgent: compile(rules.Urgent),
		stats:  compile(rules.Statistics),
	}
	for _, r := range rules.Intents {
		if !r.Intent.IsValid() {
			continue
		}
		c.intents = append(c.intents, compiledIntent{intent: r.Intent, keywords: compile(r.Keywords)})
	}
	for _, r := range rules.Categories {
		if !r.Category.IsValid() {
			continue
		}
		c.categories = append(c.categories, compiledCategory{category: r.Category, keywords: compile(r.Keywords)})
	}
	return c
}

// Classify returns the rule-based analysis of query.
// Intent keywords of language are tried first, then every other language.
// A category is set only when keywords of exactly one category match; a query
// touching several categories is left without one.
func (c *RuleClassifier) Classify(query string, language lang.Language) intent.Analysis {
	text := newText(query)
	a := intent.Analysis{
		Intent:  intent.Information,
		Urgency: intent.Normal,
		Source:  intent.SourceRules,
	}

	for _, pass := range passes(language) {
		if i, ok := c.findIntent(text, pass); ok {
			a.Intent = i
			break
		}
	}
	if cat, ok := c.findCategory(text); ok {
		a.Category = cat
	}
	if text.hasAny(c.urgent, languages) {
		a.Urgency = intent.High
	}
	return a
}

// IsStatisticsRequest reports whether the query asks for catalog statistics.
func (c *RuleClassifier) IsStatisticsRequest(query string) bool {
	return newText(query).hasAny(c.stats, languages)
}

func (c *RuleClassifier) findIntent(t text, langs []lang.Language) (intent.Intent, bool) {
	for _, r := range c.intents {
		if t.hasAny(r.keywords, langs) {
			return r.intent, true
		}
	}
	return "", false
}

func (c *RuleClassifier) findCategory(t text) (service.Category, bool) {
	var found service.Category
	for _, r := range c.categories {
		if !t.hasAny(r.keywords, languages) {
			continue
		}
		if found != "" && found != r.category {
			return "", false
		}
		found = r.category
	}
	return found, found != ""
}

// passes returns the language groups tried in order.
func passes(language lang.Language) [][]lang.Language {
	if language != lang.Arabic && language != lang.English && language != lang.French {
		return [][]lang.Language{languages}
	}
	rest := make([]lang.Language, 0, len(languages)-1)
	for _, l := range languages {
		if l != language {
			rest = append(rest, l)
		}
	}
	return [][]lang.Language{{language}, rest}
}

func compile(k Keywords) keywordSet {
	out := make(keywordSet, len(k))
	for l, words := range k {
		for _, w := range words {
			if w = normalize.Normalize(w); w != "" {
				out[l] = append(out[l], w)
			}
		}
	}
	return out
}

type text struct {
	s      string
	tokens map[string]struct{}
}

func newText(query string) text {
	s := normalize.Normalize(query)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || strings.ContainsRune("?!.,;:؟،()\"'", r)
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return text{s: s, tokens: tokens}
}

func (t text) has(keyword string) bool {
	if utf8.RuneCountInString(keyword) < minSubstringRunes && !strings.Contains(keyword, " ") {
		_, ok := t.tokens[keyword]
		return ok
	}
	return strings.Contains(t.s, keyword)
}

func (t text) hasAny(set keywordSet, langs []lang.Language) bool {
	for _, l := range langs {
		for _, k := range set[l] {
			if t.has(k) {
				return true
			}
		}
	}
	return false
}
