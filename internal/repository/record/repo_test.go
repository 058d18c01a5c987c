package record

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/search/filter"
	"github.com/kailas-cloud/khadamat/internal/domain/search/order"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

func TestFind_ConvertsRows(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findFn = func(_ context.Context, q *db.RecordQuery) ([]db.RecordRow, error) {
		if q.Limit != 8 || q.Order != order.Name {
			t.Errorf("query = %+v", q)
		}
		return []db.RecordRow{
			{
				ID: " svc-1 ", Name: "  بطاقة التعريف ", Category: "civil_status",
				Requirements: []string{" صورة ", "", "شهادة الميلاد"}, IsActive: true,
			},
			{ID: "svc-2", NameEn: "Mystery", Category: "SPACE_TRAVEL", IsActive: true},
			{ID: "", Name: "no id"},
			{ID: "svc-3", Category: "HEALTH"},
		}, nil
	}

	recs, err := repo.Find(context.Background(), filter.Expression{}, 8, order.Name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(recs))
	}

	first := recs[0]
	if first.ID != "svc-1" || first.Name != "بطاقة التعريف" {
		t.Errorf("strings not trimmed: %+v", first)
	}
	if first.Category != service.CivilStatus {
		t.Errorf("category = %q", first.Category)
	}
	if len(first.Requirements) != 2 || first.Requirements[0] != "صورة" {
		t.Errorf("requirements = %q", first.Requirements)
	}
	if recs[1].Category != service.Other {
		t.Errorf("unknown category should degrade to OTHER, got %q", recs[1].Category)
	}
}

func TestFind_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	storeErr := &db.Error{Op: db.OpFind, Err: errors.New("boom")}
	ms.findFn = func(_ context.Context, _ *db.RecordQuery) ([]db.RecordRow, error) {
		return nil, storeErr
	}

	_, err := repo.Find(context.Background(), filter.Expression{}, 8, order.Recent)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected db.Error in chain, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got []db.RecordRow
	ms.upsertFn = func(_ context.Context, rows []db.RecordRow) error {
		got = rows
		return nil
	}

	err := repo.Upsert(context.Background(), []service.Record{
		{ID: "svc-1", NameEn: " Passport ", Category: service.CivilStatus, IsActive: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].NameEn != "Passport" || got[0].Category != "CIVIL_STATUS" {
		t.Errorf("rows = %+v", got)
	}
}

func TestUpsert_InvalidRecordWritesNothing(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.upsertFn = func(_ context.Context, _ []db.RecordRow) error {
		t.Fatal("store must not be called")
		return nil
	}

	err := repo.Upsert(context.Background(), []service.Record{
		{ID: "svc-1", NameEn: "Passport", Category: service.CivilStatus},
		{ID: "svc-2", Category: service.Health},
	})
	var invalid *domain.InvalidRecordError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRecordError, got %v", err)
	}
	if invalid.ID != "svc-2" {
		t.Errorf("id = %q", invalid.ID)
	}
}

func TestSetActive_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.setActiveFn = func(_ context.Context, _ string, _ bool) error {
		return &db.Error{Op: db.OpUpdate, Err: db.ErrRecordNotFound}
	}

	err := repo.SetActive(context.Background(), "missing", false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStats(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.statsFn = func(_ context.Context) (*db.Stats, error) {
		return &db.Stats{
			Total: 5, Active: 4, Online: 2,
			ByCategory: map[string]int{"CIVIL_STATUS": 2, "OTHER": 1, "LEGACY": 1},
		}, nil
	}

	st, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Total != 5 || st.Active != 4 || st.Online != 2 {
		t.Errorf("counters = %+v", st)
	}
	if st.ByCategory[service.CivilStatus] != 2 || st.ByCategory[service.Other] != 2 {
		t.Errorf("by category = %v", st.ByCategory)
	}
}
