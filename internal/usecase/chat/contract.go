package chat

import (
	"context"

	"github.com/kailas-cloud/khadamat/internal/domain/exchange"
	"github.com/kailas-cloud/khadamat/internal/domain/intent"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/search/query"
	"github.com/kailas-cloud/khadamat/internal/domain/search/result"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// Expander broadens a normalized query into search terms.
type Expander interface {
	Expand(query string) []string
}

// Classifier derives intent, category and urgency from a query.
type Classifier interface {
	Classify(ctx context.Context, query string, language lang.Language) intent.Analysis
	IsStatisticsRequest(query string) bool
}

// Matcher finds the records for a query.
type Matcher interface {
	Match(ctx context.Context, q query.Query, limit int) (result.Result, error)
}

// Formatter renders results as user-facing text.
type Formatter interface {
	Format(res result.Result, originalQuery string, language lang.Language) string
	FormatStats(st service.Stats, language lang.Language) string
}

// StatsReader summarizes the catalog.
type StatsReader interface {
	Stats(ctx context.Context) (service.Stats, error)
}

// Recorder persists answered exchanges.
type Recorder interface {
	Record(ctx context.Context, ex *exchange.Exchange) error
}
