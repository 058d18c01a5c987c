// Package khadamat is an embeddable client for multilingual government-service lookup.
package khadamat

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/catalog"
	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/db/memory"
	"github.com/kailas-cloud/khadamat/internal/db/postgres"
	"github.com/kailas-cloud/khadamat/internal/db/sqlite"
	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
	"github.com/kailas-cloud/khadamat/internal/domain/variant"
	"github.com/kailas-cloud/khadamat/internal/repository/record"
	chatuc "github.com/kailas-cloud/khadamat/internal/usecase/chat"
	"github.com/kailas-cloud/khadamat/internal/usecase/classify"
	"github.com/kailas-cloud/khadamat/internal/usecase/expand"
	"github.com/kailas-cloud/khadamat/internal/usecase/format"
	"github.com/kailas-cloud/khadamat/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client runs searches in-process against the configured record store.
type Client struct {
	store    db.RecordStore
	repo     *record.Repo
	expander *expand.Expander
	chat     *chatuc.Service
	logger   *zap.Logger
}

// New creates a Client, connects to the record store and loads any seed records.
// Without options the client uses an empty in-memory store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: driverMemory, logger: zap.NewNop()}
	for _, o := range opts {
		o(cfg)
	}

	ctx := context.Background()
	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("khadamat: database not ready: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("khadamat: migrate: %w", err)
	}

	c, err := wireClient(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	if cfg.catalogPath != "" {
		if _, err := c.Seed(ctx, cfg.catalogPath); err != nil {
			c.Close()
			return nil, err
		}
	}
	if len(cfg.records) > 0 {
		if err := c.Upsert(ctx, cfg.records...); err != nil {
			c.Close()
			return nil, err
		}
	}

	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.RecordStore, error) {
	switch cfg.driver {
	case driverMemory:
		return memory.NewStore(), nil
	case driverSQLite:
		s, err := sqlite.Open(cfg.dsn)
		if err != nil {
			return nil, fmt.Errorf("khadamat: open sqlite store: %w", err)
		}
		return s, nil
	case driverPostgres:
		s, err := postgres.Open(ctx, cfg.dsn)
		if err != nil {
			return nil, fmt.Errorf("khadamat: open postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("khadamat: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.RecordStore, cfg *clientConfig) (*Client, error) {
	table := variant.DefaultTable()
	if cfg.variantsPath != "" {
		t, err := variant.LoadFile(cfg.variantsPath)
		if err != nil {
			return nil, fmt.Errorf("khadamat: %w", err)
		}
		table = t
	}

	classifier, err := classify.NewHybrid(
		classify.NewRuleClassifier(classify.DefaultRules()), nil, 0, nil, cfg.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("khadamat: %w", err)
	}

	repo := record.New(store, cfg.logger)
	expander := expand.New(table, 0)
	chat := chatuc.New(chatuc.Dependencies{
		Expander:   expander,
		Classifier: classifier,
		Matcher:    search.New(repo, search.Options{DefaultLimit: cfg.defaultLimit}, cfg.logger),
		Formatter:  format.New(table, format.Options{ServiceBaseURL: cfg.serviceBaseURL}),
		Stats:      repo,
	}, cfg.logger)

	return &Client{
		store:    store,
		repo:     repo,
		expander: expander,
		chat:     chat,
		logger:   cfg.logger,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search finds active services matching query. A limit of zero uses the default.
// An empty result is not an error; the returned Text then carries suggestions.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	resp, err := c.chat.Search(ctx, query, chatuc.Options{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromResponse(&resp), nil
}

// Stats returns catalog counters.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	st, err := c.repo.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return fromStats(&st), nil
}

// Expand returns the spelling variants searched for text, original first.
func (c *Client) Expand(text string) []string {
	return c.expander.Expand(text)
}

// Seed loads a catalog YAML file into the store and returns the record count.
func (c *Client) Seed(ctx context.Context, path string) (int, error) {
	n, err := catalog.Seed(ctx, c.repo, path, c.logger)
	if err != nil {
		return 0, fmt.Errorf("khadamat: %w", err)
	}
	return n, nil
}

// ErrNotFound is returned when a service ID is unknown.
var ErrNotFound = domain.ErrNotFound

// SetActive enables or disables a service. Disabled services are never matched
// but still count in Stats.
func (c *Client) SetActive(ctx context.Context, id string, active bool) error {
	if err := c.repo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("khadamat: %w", err)
	}
	return nil
}

// Upsert inserts or replaces services.
func (c *Client) Upsert(ctx context.Context, services ...Service) error {
	recs := make([]service.Record, len(services))
	for i := range services {
		recs[i] = toRecord(&services[i])
	}
	if err := c.repo.Upsert(ctx, recs); err != nil {
		return fmt.Errorf("khadamat: upsert: %w", err)
	}
	return nil
}
