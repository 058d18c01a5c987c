// Package lang classifies the script mixture of a string to pick the
// response language and text direction.
package lang

import (
	"strings"
	"unicode"
)

// Language is the detected language of a query.
type Language string

// Language constants.
const (
	Arabic  Language = "ar"
	English Language = "en"
	French  Language = "fr"
	Mixed   Language = "mixed"
)

// IsValid checks if the language is one of the supported values.
func (l Language) IsValid() bool {
	return l == Arabic || l == English || l == French || l == Mixed
}

// Parse maps a language code onto Language. Unknown codes return ok=false.
func Parse(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", false
	}
	return l, true
}

// Direction is the text direction used to render a response.
type Direction string

// Direction constants.
const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Detection thresholds. Arabic dominance is detected at a lower bar than Latin
// so mixed civic text (Arabic sentences with embedded acronyms) renders RTL.
const (
	rtlDirectionRatio = 0.2
	arabicRatio       = 0.3
	latinRatio        = 0.7
)

// DetectDirection returns RTL when RTL letters make up more than 20% of the
// RTL+Latin letters. Input without such letters is LTR.
func DetectDirection(text string) Direction {
	c := countScripts(text)
	scripted := c.rtl + c.latin
	if scripted == 0 {
		return LTR
	}
	if float64(c.rtl)/float64(scripted) > rtlDirectionRatio {
		return RTL
	}
	return LTR
}

// DetectLanguage classifies text as Arabic, English, French or Mixed.
// Text with no letters is English.
func DetectLanguage(text string) Language {
	c := countScripts(text)
	if c.letters == 0 {
		return English
	}

	arabicPct := float64(c.rtl) / float64(c.letters)
	latinPct := float64(c.latin) / float64(c.letters)

	switch {
	case arabicPct > arabicRatio:
		return Arabic
	case latinPct > latinRatio:
		if c.french || hasFrenchWord(text) {
			return French
		}
		return English
	case c.rtl > 0 && c.latin > 0:
		return Mixed
	default:
		return English
	}
}

type scriptCounts struct {
	rtl     int
	latin   int
	letters int
	french  bool
}

func countScripts(text string) scriptCounts {
	var c scriptCounts
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		c.letters++
		switch {
		case isRTL(r):
			c.rtl++
		case isLatin(r):
			c.latin++
			if strings.ContainsRune(frenchLetters, unicode.ToLower(r)) {
				c.french = true
			}
		}
	}
	return c
}

func isRTL(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) ||
		(r >= 0x0750 && r <= 0x077F) ||
		(r >= 0x08A0 && r <= 0x08FF) ||
		(r >= 0xFB50 && r <= 0xFDFF) ||
		(r >= 0xFE70 && r <= 0xFEFF) ||
		(r >= 0x0590 && r <= 0x05FF)
}

func isLatin(r rune) bool {
	return (r >= 0x0041 && r <= 0x005A) ||
		(r >= 0x0061 && r <= 0x007A) ||
		(r >= 0x00C0 && r <= 0x00FF) ||
		(r >= 0x0100 && r <= 0x017F) ||
		(r >= 0x0180 && r <= 0x024F)
}

// frenchLetters are accented letters that do not occur in English words.
const frenchLetters = "àâæçéèêëîïôœùûüÿ"

// frenchWords are function words that do not occur in English text.
var frenchWords = map[string]struct{}{
	"pourquoi": {}, "quel": {}, "quelle": {}, "quels": {}, "quelles": {},
	"je": {}, "votre": {}, "avec": {}, "demande": {}, "est-ce": {},
}

// weakFrenchWords also appear in English names ("Des Moines", "Les Paul"),
// so two of them are needed.
var weakFrenchWords = map[string]struct{}{
	"pour": {}, "une": {}, "des": {}, "les": {}, "du": {}, "mon": {}, "ma": {},
	"mes": {}, "sans": {}, "carte": {},
}

func hasFrenchWord(text string) bool {
	weak := make(map[string]struct{}, 2)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	}) {
		if _, ok := frenchWords[w]; ok {
			return true
		}
		if _, ok := weakFrenchWords[w]; ok {
			weak[w] = struct{}{}
			if len(weak) == 2 {
				return true
			}
		}
	}
	return false
}
