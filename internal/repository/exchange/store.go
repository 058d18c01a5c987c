// Package exchange persists chat exchanges in a key-value store.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/domain"
	domexchange "github.com/kailas-cloud/khadamat/internal/domain/exchange"
)

// store is the consumer interface for exchange operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	Del(ctx context.Context, key string) error
}

// Store keeps exchanges as JSON values with a TTL and counts them per UTC day.
type Store struct {
	store    store
	ttl      time.Duration
	dailyTTL time.Duration
}

// New creates an exchange store.
// ttl bounds how long an exchange is kept; dailyTTL applies to day counters (recommended: 48h).
func New(s store, ttl, dailyTTL time.Duration) *Store {
	return &Store{store: s, ttl: ttl, dailyTTL: dailyTTL}
}

// Record stores the exchange and bumps the counter for its day.
func (s *Store) Record(ctx context.Context, ex *domexchange.Exchange) error {
	data, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("marshal exchange: %w", err)
	}

	key := exchangeKey(ex.ID)
	if err := s.store.SetWithTTL(ctx, key, data, s.ttl); err != nil {
		return fmt.Errorf("exchange SET %s: %w", key, err)
	}

	day := dailyKey(ex.CreatedAt)
	if err := s.store.IncrBy(ctx, day, 1); err != nil {
		return fmt.Errorf("exchange INCRBY %s: %w", day, err)
	}
	// NX keeps the first expiry so repeated writes do not extend the counter.
	if err := s.store.Expire(ctx, day, s.dailyTTL, true); err != nil {
		return fmt.Errorf("exchange EXPIRE %s: %w", day, err)
	}
	return nil
}

// Get returns a stored exchange by ID.
func (s *Store) Get(ctx context.Context, id string) (domexchange.Exchange, error) {
	key := exchangeKey(id)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domexchange.Exchange{}, fmt.Errorf("exchange %s: %w", id, domain.ErrNotFound)
		}
		return domexchange.Exchange{}, fmt.Errorf("exchange GET %s: %w", key, err)
	}

	var ex domexchange.Exchange
	if err := json.Unmarshal(data, &ex); err != nil {
		return domexchange.Exchange{}, fmt.Errorf("unmarshal exchange %s: %w", id, err)
	}
	return ex, nil
}

// Delete removes a stored exchange. Missing IDs are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	key := exchangeKey(id)
	if err := s.store.Del(ctx, key); err != nil {
		return fmt.Errorf("exchange DEL %s: %w", key, err)
	}
	return nil
}

// DailyCount returns the number of exchanges recorded on the UTC day of t.
// Returns 0 if nothing was recorded.
func (s *Store) DailyCount(ctx context.Context, t time.Time) (int64, error) {
	key := dailyKey(t)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("exchange GET %s: %w", key, err)
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("exchange GET %s parse: %w", key, err)
	}
	return n, nil
}

func exchangeKey(id string) string {
	return domain.KeyPrefix + "exchange:" + id
}

func dailyKey(t time.Time) string {
	return domain.KeyPrefix + "exchanges:daily:" + t.UTC().Format(time.DateOnly)
}
