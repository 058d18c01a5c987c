package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/config"
	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/db/memory"
	"github.com/kailas-cloud/khadamat/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/khadamat/internal/db/redis"
	"github.com/kailas-cloud/khadamat/internal/db/sqlite"
	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/search/order"
	"github.com/kailas-cloud/khadamat/internal/domain/variant"
	"github.com/kailas-cloud/khadamat/internal/metrics"
	budgetrepo "github.com/kailas-cloud/khadamat/internal/repository/budget"
	"github.com/kailas-cloud/khadamat/internal/repository/completioncache"
	exchangerepo "github.com/kailas-cloud/khadamat/internal/repository/exchange"
	"github.com/kailas-cloud/khadamat/internal/repository/record"
	"github.com/kailas-cloud/khadamat/internal/transport/openai"
	chatuc "github.com/kailas-cloud/khadamat/internal/usecase/chat"
	"github.com/kailas-cloud/khadamat/internal/usecase/classify"
	completionuc "github.com/kailas-cloud/khadamat/internal/usecase/completion"
	"github.com/kailas-cloud/khadamat/internal/usecase/expand"
	historyuc "github.com/kailas-cloud/khadamat/internal/usecase/history"
	"github.com/kailas-cloud/khadamat/internal/usecase/format"
	"github.com/kailas-cloud/khadamat/internal/usecase/search"
	usageuc "github.com/kailas-cloud/khadamat/internal/usecase/usage"
)

const (
	budgetDailyTTL   = 48 * time.Hour
	budgetMonthlyTTL = 62 * 24 * time.Hour
	exchangeDailyTTL = 48 * time.Hour
	kvReadyTimeout   = 10 * time.Second
)

func openRecordStore(ctx context.Context, cfg *config.DatabaseConfig) (db.RecordStore, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.Path)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// openKVStore returns a nil store when caching is disabled.
func openKVStore(cfg *config.CacheConfig) (kvStore, func(), error) {
	switch cfg.Driver {
	case config.CacheNone, "":
		return nil, func() {}, nil
	case config.CacheMemory:
		return memory.NewStore(), func() {}, nil
	case config.CacheRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Username:  cfg.Username,
			Password:  cfg.Password,
			DB:        cfg.DB,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis store: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), kvReadyTimeout)
		defer cancel()
		if err := s.WaitForReady(ctx, kvReadyTimeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("redis not ready: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

func newMatcher(repo *record.Repo, cfg *config.SearchConfig, logger *zap.Logger) *search.Service {
	ord, _ := order.Parse(cfg.Order)
	return search.New(repo, search.Options{
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
		Order:        ord,
	}, logger)
}

// pipeline is everything the chat service needs except the record store.
type pipeline struct {
	deps chatuc.Dependencies
	// router is nil when completion is disabled.
	router  *openai.Router
	budgets []usageuc.BudgetReader
	// history is nil without a cache store.
	history *historyuc.Service
}

// buildPipeline wires expansion, classification, formatting and completion.
func buildPipeline(
	ctx context.Context, cfg *config.Config, kv kvStore, logger *zap.Logger,
) (*pipeline, error) {
	table := variant.DefaultTable()
	if cfg.Search.VariantsPath != "" {
		t, err := variant.LoadFile(cfg.Search.VariantsPath)
		if err != nil {
			return nil, err
		}
		table = t
	}

	p := &pipeline{}
	deps := &p.deps
	deps.Expander = expand.New(table, cfg.Search.MinPatternRunes)
	deps.Formatter = format.New(table, format.Options{
		DescriptionMaxRunes: cfg.Format.DescriptionMaxRunes,
		MaxRequirements:     cfg.Format.MaxRequirements,
		SuggestionCount:     cfg.Format.SuggestionCount,
		ServiceBaseURL:      cfg.Format.ServiceBaseURL,
	})

	if kv != nil {
		exchanges := exchangerepo.New(kv, time.Duration(cfg.Cache.ExchangeTTLHours)*time.Hour, exchangeDailyTTL)
		deps.Recorder = exchanges
		p.history = historyuc.New(exchanges)
	}

	var analyzer classify.Analyzer
	if cfg.Completion.Enabled {
		completer, err := buildCompleter(ctx, cfg, kv, p, logger)
		if err != nil {
			return nil, err
		}
		deps.Completer = completer
		if cfg.Completion.ClassifyWithProvider {
			analyzer = openai.NewAnalyzer(completer, domain.Selection{
				Provider: cfg.Completion.DefaultProvider,
				Model:    cfg.Completion.DefaultModel,
			})
		}
	}

	classifier, err := classify.NewHybrid(
		classify.NewRuleClassifier(classify.DefaultRules()),
		analyzer,
		cfg.Search.ClassifierCacheSize,
		metrics.ClassificationsTotal,
		logger,
	)
	if err != nil {
		return nil, err
	}
	deps.Classifier = classifier

	return p, nil
}

// buildCompleter assembles the decorator chain:
// OpenAI providers -> Router -> Instrumented -> Cached -> DefaultSelection.
// It stores the router and budget trackers on p.
func buildCompleter(
	ctx context.Context, cfg *config.Config, kv kvStore, p *pipeline, logger *zap.Logger,
) (domain.Completer, error) {
	timeout := time.Duration(cfg.Completion.TimeoutSec) * time.Second

	providers := make(map[string]domain.Completer, len(cfg.Completion.Providers))
	budgets := make(completionuc.Budgets)
	for name, pc := range cfg.Completion.Providers {
		providers[name] = openai.NewCompleter(&openai.Config{
			APIKey:   pc.APIKey,
			BaseURL:  pc.BaseURL,
			Provider: name,
			Timeout:  timeout,
			Logger:   logger,
		})

		if pc.Budget.DailyTokenLimit <= 0 && pc.Budget.MonthlyTokenLimit <= 0 {
			continue
		}
		action, err := completionuc.ParseBudgetAction(pc.Budget.Action)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		tracker := completionuc.NewBudgetTracker(
			name, pc.Budget.DailyTokenLimit, pc.Budget.MonthlyTokenLimit, action, logger,
		)
		if kv != nil {
			tracker.WithStore(ctx, budgetrepo.New(kv, budgetDailyTTL, budgetMonthlyTTL))
		}
		budgets[name] = tracker
		p.budgets = append(p.budgets, tracker)
	}

	router := openai.NewRouter(providers)
	p.router = router
	logger.Info("Completion providers configured",
		zap.Strings("providers", router.Providers()),
		zap.String("default_provider", cfg.Completion.DefaultProvider),
		zap.String("default_model", cfg.Completion.DefaultModel),
	)

	var completer domain.Completer = completionuc.NewInstrumentedCompleter(router, budgets, logger)
	if kv != nil {
		completer = completioncache.New(
			completer, kv,
			time.Duration(cfg.Cache.CompletionTTLHours)*time.Hour,
			metrics.CompletionCacheTotal, logger,
		)
	}

	return domain.NewDefaultSelectionCompleter(completer, domain.Selection{
		Provider: cfg.Completion.DefaultProvider,
		Model:    cfg.Completion.DefaultModel,
	}), nil
}
