package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/exchange"
)

const knownID = "6f1c2a4e-8d3b-4f5a-9c7e-1b2d3e4f5a6b"

type mockStore struct {
	exchanges map[string]exchange.Exchange
	deleted   []string
	countDay  time.Time
	count     int64
	countErr  error
}

func (m *mockStore) Get(_ context.Context, id string) (exchange.Exchange, error) {
	ex, ok := m.exchanges[id]
	if !ok {
		return exchange.Exchange{}, domain.ErrNotFound
	}
	return ex, nil
}

func (m *mockStore) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.exchanges, id)
	return nil
}

func (m *mockStore) DailyCount(_ context.Context, t time.Time) (int64, error) {
	m.countDay = t
	return m.count, m.countErr
}

func newStore() *mockStore {
	return &mockStore{exchanges: map[string]exchange.Exchange{
		knownID: {ID: knownID, Query: "passport"},
	}}
}

func TestGet(t *testing.T) {
	svc := New(newStore())

	ex, err := svc.Get(context.Background(), knownID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Query != "passport" {
		t.Errorf("query = %q", ex.Query)
	}

	if _, err := svc.Get(context.Background(), "6f1c2a4e-0000-4f5a-9c7e-1b2d3e4f5a6b"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "../etc"); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := newStore()
	svc := New(store)

	if err := svc.Delete(context.Background(), knownID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != knownID {
		t.Errorf("deleted = %v", store.deleted)
	}

	if err := svc.Delete(context.Background(), knownID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
	if len(store.deleted) != 1 {
		t.Errorf("unknown ids must not reach the store, deleted = %v", store.deleted)
	}
}

func TestToday(t *testing.T) {
	store := newStore()
	store.count = 7
	svc := New(store)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	n, err := svc.Today(context.Background())
	if err != nil || n != 7 {
		t.Fatalf("Today() = %d, %v", n, err)
	}
	if !store.countDay.Equal(now) {
		t.Errorf("counted day %v, want %v", store.countDay, now)
	}

	store.countErr = errors.New("redis down")
	if _, err := svc.Today(context.Background()); err == nil {
		t.Error("expected error")
	}
}
