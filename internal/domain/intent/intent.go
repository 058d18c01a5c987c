// Package intent describes what a user is asking for.
package intent

import (
	"strings"

	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// Intent is the coarse purpose behind a query.
type Intent string

// Intent constants.
const (
	Information  Intent = "information"
	Procedure    Intent = "procedure"
	Requirements Intent = "requirements"
	Timeline     Intent = "timeline"
	Cost         Intent = "cost"
	Location     Intent = "location"
	Status       Intent = "status"
	Help         Intent = "help"
)

// All lists the intents in classification priority order, Information last.
var All = []Intent{Procedure, Requirements, Cost, Timeline, Location, Status, Help, Information}

// IsValid checks if the intent is one of the known values.
func (i Intent) IsValid() bool {
	for _, v := range All {
		if i == v {
			return true
		}
	}
	return false
}

// Parse maps a string onto Intent. Unknown values return ok=false.
func Parse(s string) (Intent, bool) {
	i := Intent(strings.ToLower(strings.TrimSpace(s)))
	if !i.IsValid() {
		return "", false
	}
	return i, true
}

// Urgency signals how pressing the request is.
type Urgency string

// Urgency constants.
const (
	Normal Urgency = "normal"
	High   Urgency = "high"
)

// Source records which classifier produced an analysis.
type Source string

// Source constants.
const (
	SourceRules    Source = "rules"
	SourceProvider Source = "provider"
)

// Analysis is the classifier output for one query.
// An empty Category means no confident category; search runs unfiltered.
type Analysis struct {
	Intent   Intent
	Category service.Category
	Urgency  Urgency
	Source   Source
}

// HasCategory reports whether the analysis carries a known category.
func (a Analysis) HasCategory() bool {
	return a.Category.IsValid()
}
