package usage

import "github.com/kailas-cloud/khadamat/internal/domain/usage/budget"

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod maps a query parameter onto Period. Empty means day.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, true
	case PeriodMonth:
		return PeriodMonth, true
	default:
		return "", false
	}
}

// Report is the completion token usage of one provider for a time period.
type Report struct {
	provider    string
	period      Period
	periodStart int64
	periodEnd   int64
	tokensUsed  int64
	budget      budget.Budget
}

// NewReport creates a usage report.
func NewReport(provider string, period Period, start, end, used int64, b budget.Budget) Report {
	return Report{
		provider:    provider,
		period:      period,
		periodStart: start,
		periodEnd:   end,
		tokensUsed:  used,
		budget:      b,
	}
}

// Provider returns the completion provider name.
func (r *Report) Provider() string { return r.provider }

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// TokensUsed returns the tokens consumed in the period.
func (r *Report) TokensUsed() int64 { return r.tokensUsed }

// Budget returns the budget status.
func (r *Report) Budget() budget.Budget { return r.budget }
