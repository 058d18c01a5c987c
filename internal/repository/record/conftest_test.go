package record

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn      func(ctx context.Context, q *db.RecordQuery) ([]db.RecordRow, error)
	upsertFn    func(ctx context.Context, rows []db.RecordRow) error
	setActiveFn func(ctx context.Context, id string, active bool) error
	statsFn     func(ctx context.Context) (*db.Stats, error)
}

func (m *mockStore) FindRecords(ctx context.Context, q *db.RecordQuery) ([]db.RecordRow, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) UpsertRecords(ctx context.Context, rows []db.RecordRow) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, rows)
	}
	return nil
}

func (m *mockStore) SetActive(ctx context.Context, id string, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, id, active)
	}
	return nil
}

func (m *mockStore) Stats(ctx context.Context) (*db.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &db.Stats{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, zap.NewNop()), ms
}
