// Package chat answers a raw user utterance with the matching government services.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/exchange"
	"github.com/kailas-cloud/khadamat/internal/domain/intent"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/normalize"
	"github.com/kailas-cloud/khadamat/internal/domain/search/query"
	"github.com/kailas-cloud/khadamat/internal/domain/search/result"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
	logpkg "github.com/kailas-cloud/khadamat/internal/logger"
)

// Options controls a single Search call.
type Options struct {
	// Limit caps the number of records; zero selects the matcher default.
	Limit     int
	SessionID string
	// Narrative asks the completion provider to phrase the answer.
	Narrative bool
	Selection domain.Selection
}

// Response is the answer to one utterance.
type Response struct {
	Text      string
	Language  lang.Language
	Direction lang.Direction
	Query     query.Query
	Result    result.Result
	// Stats is set when the utterance asked for catalog statistics.
	Stats *service.Stats
	// Narrative reports whether Text came from the completion provider.
	Narrative  bool
	ExchangeID string
}

// Dependencies wires the collaborators of a Service. Stats, Completer and
// Recorder are optional.
type Dependencies struct {
	Expander   Expander
	Classifier Classifier
	Matcher    Matcher
	Formatter  Formatter
	Stats      StatsReader
	Completer  domain.Completer
	Recorder   Recorder
}

// Service runs the lookup pipeline.
type Service struct {
	expander   Expander
	classifier Classifier
	matcher    Matcher
	formatter  Formatter
	stats      StatsReader
	completer  domain.Completer
	recorder   Recorder
	now        func() time.Time
	logger     *zap.Logger
}

// New creates a chat service.
func New(deps Dependencies, logger *zap.Logger) *Service {
	return &Service{
		expander:   deps.Expander,
		classifier: deps.Classifier,
		matcher:    deps.Matcher,
		formatter:  deps.Formatter,
		stats:      deps.Stats,
		completer:  deps.Completer,
		recorder:   deps.Recorder,
		now:        time.Now,
		logger:     logger,
	}
}

// Search normalizes raw, expands and classifies it concurrently, matches the
// catalog and formats the answer. Zero matches is a successful answer.
// Errors wrap domain.ErrInvalidQuery or domain.ErrStoreUnavailable.
func (s *Service) Search(ctx context.Context, raw string, opts Options) (Response, error) {
	if n := utf8.RuneCountInString(raw); n > query.MaxQueryLength {
		return Response{}, fmt.Errorf("%w: query has %d chars (max %d)", domain.ErrInvalidQuery, n, query.MaxQueryLength)
	}

	normalized := normalize.Normalize(raw)
	language := lang.DetectLanguage(raw)
	direction := lang.DetectDirection(raw)

	if s.stats != nil && s.classifier.IsStatisticsRequest(normalized) {
		return s.statistics(ctx, language, direction)
	}

	var (
		terms    []string
		analysis intent.Analysis
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		terms = s.expander.Expand(normalized)
		return nil
	})
	g.Go(func() error {
		analysis = s.classifier.Classify(gctx, normalized, language)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Response{}, fmt.Errorf("analyze query: %w", err)
	}

	q, err := query.New(raw, normalized, terms, language, analysis)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	res, err := s.matcher.Match(ctx, q, opts.Limit)
	if err != nil {
		return Response{}, fmt.Errorf("match: %w", err)
	}

	resp := Response{
		Text:      s.formatter.Format(res, raw, language),
		Language:  language,
		Direction: direction,
		Query:     q,
		Result:    res,
	}

	if opts.Narrative && s.completer != nil {
		if text, ok := s.narrate(ctx, raw, resp.Text, language, opts.Selection); ok {
			resp.Text = text
			resp.Narrative = true
		}
	}

	resp.ExchangeID = s.record(ctx, &resp, opts)

	logpkg.FromContext(ctx, s.logger).Debug("Query answered",
		zap.String("language", string(language)),
		zap.String("intent", string(q.Intent())),
		zap.String("category", string(q.Category())),
		zap.Int("terms", len(q.Terms())),
		zap.Int("results", res.Count()),
		zap.Bool("narrative", resp.Narrative),
	)

	return resp, nil
}

func (s *Service) statistics(ctx context.Context, language lang.Language, direction lang.Direction) (Response, error) {
	st, err := s.stats.Stats(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("catalog stats: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return Response{
		Text:      s.formatter.FormatStats(st, language),
		Language:  language,
		Direction: direction,
		Stats:     &st,
	}, nil
}

// narrate returns the provider answer, or false when the formatted text should be kept.
func (s *Service) narrate(
	ctx context.Context, raw, formatted string, language lang.Language, sel domain.Selection,
) (string, bool) {
	res, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Selection:    sel,
		SystemPrompt: narrativePrompt(language),
		UserPrompt:   raw,
		Context:      formatted,
	})
	if err != nil {
		log := logpkg.FromContext(ctx, s.logger)
		fields := []zap.Field{zap.String("provider", sel.Provider), zap.Error(err)}
		if errors.Is(err, domain.ErrCompletionQuotaExceeded) {
			log.Info("Narrative skipped, completion quota exhausted", fields...)
		} else {
			log.Warn("Failed to generate narrative answer", fields...)
		}
		return "", false
	}
	if res.Text == "" {
		return "", false
	}
	return res.Text, true
}

func (s *Service) record(ctx context.Context, resp *Response, opts Options) string {
	if s.recorder == nil {
		return ""
	}

	ex := exchange.New(opts.SessionID, resp.Query.Raw(), s.now())
	ex.Language = string(resp.Language)
	ex.Intent = string(resp.Query.Intent())
	ex.Category = string(resp.Query.Category())
	ex.ResultIDs = resp.Result.IDs()
	ex.Answer = resp.Text
	if resp.Narrative {
		ex.Provider = opts.Selection.Provider
		ex.Model = opts.Selection.Model
	}

	if err := s.recorder.Record(ctx, &ex); err != nil {
		logpkg.FromContext(ctx, s.logger).Warn("Failed to record exchange", zap.String("exchange_id", ex.ID), zap.Error(err))
		return ""
	}
	return ex.ID
}
