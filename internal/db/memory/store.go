// Package memory is an in-process record and key-value store.
// It backs tests and single-binary deployments without a database.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/domain/normalize"
	"github.com/kailas-cloud/khadamat/internal/domain/search/filter"
	"github.com/kailas-cloud/khadamat/internal/domain/search/order"
)

// Compile-time checks.
var (
	_ db.RecordStore = (*Store)(nil)
	_ db.KVStore     = (*Store)(nil)
)

type kvEntry struct {
	value     []byte
	expiresAt time.Time
}

// Store keeps records and KV pairs in maps guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	records map[string]db.RecordRow
	kv      map[string]kvEntry
	swept   time.Time
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]db.RecordRow),
		kv:      make(map[string]kvEntry),
		now:     time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Migrate is a no-op.
func (s *Store) Migrate(context.Context) error { return nil }

// WaitForReady returns immediately.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// UpsertRecords inserts or replaces rows by ID. An existing row keeps its creation time.
func (s *Store) UpsertRecords(ctx context.Context, rows []db.RecordRow) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	for i := range rows {
		row := cloneRow(&rows[i])
		if prev, ok := s.records[row.ID]; ok {
			row.CreatedAt = prev.CreatedAt
		} else if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if row.UpdatedAt.IsZero() {
			row.UpdatedAt = now
		}
		s.records[row.ID] = row
	}
	return nil
}

// SetActive toggles a record's active flag.
func (s *Store) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.records[id]
	if !ok {
		return db.ErrRecordNotFound
	}
	row.IsActive = active
	row.UpdatedAt = s.now().UTC()
	s.records[id] = row
	return nil
}

// FindRecords evaluates the filter against every row.
// Substring conditions fold both sides the same way the SQL stores' shadow columns do.
func (s *Store) FindRecords(ctx context.Context, q *db.RecordQuery) ([]db.RecordRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []db.RecordRow
	for id := range s.records {
		row := s.records[id]
		ok, err := matches(&row, q.Filters)
		if err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		if ok {
			out = append(out, cloneRow(&row))
		}
	}

	slices.SortFunc(out, func(a, b db.RecordRow) int {
		ka, kb := rowKey(&a), rowKey(&b)
		return q.Order.CompareKeys(&ka, &kb)
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Stats counts records.
func (s *Store) Stats(context.Context) (*db.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &db.Stats{Total: len(s.records), ByCategory: make(map[string]int)}
	for id := range s.records {
		row := s.records[id]
		if !row.IsActive {
			continue
		}
		st.Active++
		if row.IsOnline {
			st.Online++
		}
		st.ByCategory[row.Category]++
	}
	return st, nil
}

func matches(row *db.RecordRow, e filter.Expression) (bool, error) {
	for _, c := range e.Must() {
		ok, err := evaluate(row, c)
		if err != nil || !ok {
			return false, err
		}
	}

	if len(e.Should()) > 0 {
		var hit bool
		for _, c := range e.Should() {
			ok, err := evaluate(row, c)
			if err != nil {
				return false, err
			}
			if ok {
				hit = true
				break
			}
		}
		if !hit {
			return false, nil
		}
	}

	for _, c := range e.MustNot() {
		ok, err := evaluate(row, c)
		if err != nil || ok {
			return false, err
		}
	}
	return true, nil
}

func evaluate(row *db.RecordRow, c filter.Condition) (bool, error) {
	switch c.Op() {
	case filter.OpContains:
		v, ok := row.Text(c.Key())
		if !ok {
			return false, fmt.Errorf("%w: %q", db.ErrUnknownField, c.Key())
		}
		if _, folded := db.FoldColumn(c.Key()); folded {
			return normalize.ContainsFold(v, c.Value()), nil
		}
		return c.Value() != "" && strings.Contains(strings.ToLower(v), strings.ToLower(c.Value())), nil
	case filter.OpEquals:
		v, ok := row.Text(c.Key())
		if !ok {
			return false, fmt.Errorf("%w: %q", db.ErrUnknownField, c.Key())
		}
		return v == c.Value(), nil
	case filter.OpFlag:
		v, ok := row.Flag(c.Key())
		if !ok {
			return false, fmt.Errorf("%w: %q", db.ErrUnknownField, c.Key())
		}
		return v == c.Flag(), nil
	default:
		return false, fmt.Errorf("unsupported filter operator %s", c.Op())
	}
}

func rowKey(r *db.RecordRow) order.Key {
	return order.Key{
		ID: r.ID, Name: r.Name, NameEn: r.NameEn, NameFr: r.NameFr,
		Online: r.IsOnline, CreatedAt: r.CreatedAt,
	}
}

func cloneRow(r *db.RecordRow) db.RecordRow {
	out := *r
	out.Requirements = slices.Clone(r.Requirements)
	out.RequirementsEn = slices.Clone(r.RequirementsEn)
	out.Process = slices.Clone(r.Process)
	out.ProcessEn = slices.Clone(r.ProcessEn)
	return out
}
