package memory

import (
	"context"
	"strconv"
	"time"

	"github.com/kailas-cloud/khadamat/internal/db"
)

// sweepInterval bounds how often a write scans the map for expired keys.
const sweepInterval = time.Minute

func (s *Store) live(key string) (kvEntry, bool) {
	e, ok := s.kv[key]
	if !ok {
		return kvEntry{}, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		return kvEntry{}, false
	}
	return e, true
}

// sweepExpired drops expired keys. Callers hold the write lock.
func (s *Store) sweepExpired() {
	now := s.now()
	if now.Sub(s.swept) < sweepInterval {
		return
	}
	s.swept = now
	for k, e := range s.kv {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.kv, k)
		}
	}
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.live(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a value that expires after ttl. Zero ttl never expires.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepExpired()

	e := kvEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.kv[key] = e
	return nil
}

// Del removes a key. Missing keys are ignored.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
	return nil
}

// IncrBy increments an integer value, creating it at zero.
func (s *Store) IncrBy(_ context.Context, key string, val int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	var cur int64
	if ok {
		n, err := strconv.ParseInt(string(e.value), 10, 64)
		if err != nil {
			return &db.Error{Op: db.OpIncrBy, Err: err}
		}
		cur = n
	} else {
		e = kvEntry{}
	}
	e.value = []byte(strconv.FormatInt(cur+val, 10))
	s.kv[key] = e
	return nil
}

// Expire sets a TTL. With nx it applies only when the key has no expiry yet.
func (s *Store) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return nil
	}
	if nx && !e.expiresAt.IsZero() {
		return nil
	}
	e.expiresAt = s.now().Add(ttl)
	s.kv[key] = e
	return nil
}
