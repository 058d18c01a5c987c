package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/search/filter"
	"github.com/kailas-cloud/khadamat/internal/domain/search/order"
	"github.com/kailas-cloud/khadamat/internal/domain/search/query"
	"github.com/kailas-cloud/khadamat/internal/domain/search/result"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
	"github.com/kailas-cloud/khadamat/internal/metrics"
)

// Options tune the matcher. Zero values select the package defaults.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	Order        order.Order
}

// Service matches queries against the record store.
type Service struct {
	repo         Repository
	defaultLimit int
	maxLimit     int
	order        order.Order
	logger       *zap.Logger
}

// New creates a search service.
func New(repo Repository, opts Options, logger *zap.Logger) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = query.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = query.MaxLimit
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	if !opts.Order.IsValid() {
		opts.Order = order.Default
	}
	return &Service{
		repo:         repo,
		defaultLimit: opts.DefaultLimit,
		maxLimit:     opts.MaxLimit,
		order:        opts.Order,
		logger:       logger,
	}
}

// Match returns the active records where any term is contained in any searchable
// field, narrowed to the query category when one was detected.
// Zero matches is a valid empty result. Store failures wrap domain.ErrStoreUnavailable.
func (s *Service) Match(ctx context.Context, q query.Query, limit int) (result.Result, error) {
	limit = s.clampLimit(limit)

	terms := q.SearchTerms()
	if len(terms) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return result.New(q, nil, q.Terms()), nil
	}

	expr, err := buildFilters(terms, q.Category())
	if err != nil {
		return result.Result{}, fmt.Errorf("build filters: %w", err)
	}

	start := time.Now()
	records, err := s.repo.Find(ctx, expr, limit, s.order)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return result.Result{}, fmt.Errorf("find records: %w: %w", domain.ErrStoreUnavailable, err)
	}

	records = dedupe(records)
	s.order.Sort(records)
	if len(records) > limit {
		records = records[:limit]
	}

	outcome := "found"
	if len(records) == 0 {
		outcome = "empty"
	}
	metrics.SearchesTotal.WithLabelValues(outcome).Inc()
	metrics.SearchResults.Observe(float64(len(records)))

	s.logger.Debug("Records matched",
		zap.Int("terms", len(terms)),
		zap.String("category", string(q.Category())),
		zap.Int("results", len(records)),
	)

	return result.New(q, records, q.Terms()), nil
}

func (s *Service) clampLimit(limit int) int {
	if limit < 1 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func buildFilters(terms []string, category service.Category) (filter.Expression, error) {
	isActive, err := filter.NewFlag(service.FieldIsActive, true)
	if err != nil {
		return filter.Expression{}, err
	}
	must := []filter.Condition{isActive}

	if category.IsValid() {
		cat, err := filter.NewEquals(service.FieldCategory, string(category))
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, cat)
	}

	should := make([]filter.Condition, 0, len(terms)*len(service.SearchableFields))
	for _, term := range terms {
		for _, field := range service.SearchableFields {
			c, err := filter.NewContains(field, term)
			if err != nil {
				return filter.Expression{}, err
			}
			should = append(should, c)
		}
	}

	return filter.NewExpression(must, should, nil)
}

func dedupe(records []service.Record) []service.Record {
	seen := make(map[string]struct{}, len(records))
	out := records[:0]
	for i := range records {
		if _, ok := seen[records[i].ID]; ok {
			continue
		}
		seen[records[i].ID] = struct{}{}
		out = append(out, records[i])
	}
	return out
}
