package result

import (
	"github.com/kailas-cloud/khadamat/internal/domain/search/query"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// Result is the ranked outcome of one search.
// A zero count is a valid outcome, not an error.
type Result struct {
	query   query.Query
	records []service.Record
	terms   []string
}

// New creates a search result. The terms record why records matched.
func New(q query.Query, records []service.Record, terms []string) Result {
	return Result{query: q, records: records, terms: terms}
}

// Query returns the query that produced the result.
func (r *Result) Query() query.Query { return r.query }

// Count returns the number of returned records, not the total number of matches.
func (r *Result) Count() int { return len(r.records) }

// Records returns the ordered records.
func (r *Result) Records() []service.Record { return r.records }

// Terms returns the term set used to match.
func (r *Result) Terms() []string { return r.terms }

// IsEmpty reports whether nothing matched.
func (r *Result) IsEmpty() bool { return len(r.records) == 0 }

// IDs returns the record identifiers in result order.
func (r *Result) IDs() []string {
	out := make([]string, len(r.records))
	for i := range r.records {
		out[i] = r.records[i].ID
	}
	return out
}
