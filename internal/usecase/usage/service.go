package usage

import (
	"context"
	"slices"
	"strings"
	"time"

	domusage "github.com/kailas-cloud/khadamat/internal/domain/usage"
	"github.com/kailas-cloud/khadamat/internal/domain/usage/budget"
)

// Service handles completion usage reporting.
type Service struct {
	readers []BudgetReader
	now     func() time.Time
}

// New creates a Service over the budgeted providers. Providers without a
// budget are not reported.
func New(readers ...BudgetReader) *Service {
	sorted := slices.Clone(readers)
	slices.SortFunc(sorted, func(a, b BudgetReader) int {
		return strings.Compare(a.Provider(), b.Provider())
	})
	return &Service{readers: sorted, now: time.Now}
}

// GetReports builds one usage report per provider for the period, ordered by provider.
func (s *Service) GetReports(_ context.Context, period domusage.Period) []domusage.Report {
	start, end := periodBounds(s.now().UTC(), period)

	out := make([]domusage.Report, 0, len(s.readers))
	for _, br := range s.readers {
		var limit, used, remaining int64
		if period == domusage.PeriodMonth {
			limit, used, remaining = br.MonthlyLimit(), br.MonthlyUsed(), br.RemainingMonthly()
		} else {
			limit, used, remaining = br.DailyLimit(), br.DailyUsed(), br.RemainingDaily()
		}
		b := budget.New(limit, remaining, end.UnixMilli())
		out = append(out, domusage.NewReport(br.Provider(), period, start.UnixMilli(), end.UnixMilli(), used, b))
	}
	return out
}

func periodBounds(now time.Time, period domusage.Period) (time.Time, time.Time) {
	if period == domusage.PeriodMonth {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
