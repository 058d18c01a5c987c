// Package completioncache caches provider completions in a key-value store.
package completioncache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "completion_cache:"

// store is the consumer interface for the completion cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedCompleter caches completions keyed by selection and prompts.
type CachedCompleter struct {
	inner      domain.Completer
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Completer,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedCompleter {
	return &CachedCompleter{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

type cachedCompletion struct {
	Text string `json:"text"`
}

// Complete returns a cached completion or calls the inner completer.
// Cache hit: token counts are zero (no real tokens consumed).
func (c *CachedCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	key := c.cacheKey(&req)

	if text, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		domain.CompletionUsageFromContext(ctx).AddTokens(0)
		return domain.Completion{Text: text}, nil
	}

	c.incCache("miss")

	res, err := c.inner.Complete(ctx, req)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("complete: %w", err)
	}

	if res.Text != "" {
		c.putToCache(ctx, key, res.Text)
	}
	return res, nil
}

func (c *CachedCompleter) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedCompleter) cacheKey(req *domain.CompletionRequest) string {
	h := sha256.New()
	for _, part := range []string{
		req.Selection.Provider, req.Selection.Model,
		req.SystemPrompt, req.UserPrompt, req.Context,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	if req.JSON {
		h.Write([]byte{1})
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedCompleter) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached completion", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}

	var cc cachedCompletion
	if err := json.Unmarshal(data, &cc); err != nil || cc.Text == "" {
		c.logger.Warn("Failed to parse cached completion", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return cc.Text, true
}

func (c *CachedCompleter) putToCache(ctx context.Context, key, text string) {
	data, err := json.Marshal(cachedCompletion{Text: text})
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache completion", zap.String("key", key), zap.Error(err))
	}
}
