package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/domain/search/filter"
	"github.com/kailas-cloud/khadamat/internal/domain/search/order"
)

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(s.Close)
	s.now = func() time.Time { return t0 }
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	rows := []db.RecordRow{
		{ID: "id-card", Name: "استخراج بطاقة الهوية الوطنية", NameEn: "National ID Card Issuance",
			Category: "CIVIL_STATUS", IsActive: true, CreatedAt: t0.Add(-3 * time.Hour),
			Requirements: []string{"شهادة الميلاد", "صورتان"}, RequirementsEn: []string{"Birth certificate"}},
		{ID: "passport", Name: "جواز السفر", NameEn: "Passport", Category: "CIVIL_STATUS",
			IsActive: true, IsOnline: true, OnlineURL: "https://passport.example.gov", CreatedAt: t0.Add(-5 * time.Hour)},
		{ID: "old-passport", Name: "جواز السفر القديم", NameEn: "Passport (legacy)", Category: "CIVIL_STATUS",
			IsActive: false, CreatedAt: t0},
		{ID: "clinic", Name: "تسجيل في عيادة", NameEn: "Clinic registration", NameFr: "Inscription à la CLINIQUE",
			Category: "HEALTH", IsActive: true, CreatedAt: t0.Add(-time.Hour)},
	}
	if err := s.UpsertRecords(context.Background(), rows); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func find(t *testing.T, s *Store, q *db.RecordQuery) []string {
	t.Helper()
	rows, err := s.FindRecords(context.Background(), q)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].ID
	}
	return out
}

func expr(t *testing.T, must, should []filter.Condition) filter.Expression {
	t.Helper()
	e, err := filter.NewExpression(must, should, nil)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}
	return e
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestFindRecords_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	c, _ := filter.NewEquals("id", "id-card")
	rows, err := s.FindRecords(context.Background(), &db.RecordQuery{Filters: expr(t, []filter.Condition{c}, nil)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	r := rows[0]
	if r.NameEn != "National ID Card Issuance" || r.Category != "CIVIL_STATUS" || !r.IsActive || r.IsOnline {
		t.Errorf("row = %+v", r)
	}
	if !slices.Equal(r.Requirements, []string{"شهادة الميلاد", "صورتان"}) {
		t.Errorf("requirements = %v", r.Requirements)
	}
	if r.Process != nil {
		t.Errorf("empty list should decode as nil, got %v", r.Process)
	}
	if !r.CreatedAt.Equal(t0.Add(-3 * time.Hour)) {
		t.Errorf("created_at = %v", r.CreatedAt)
	}
	if !r.UpdatedAt.Equal(t0) {
		t.Errorf("updated_at = %v", r.UpdatedAt)
	}
}

func TestFindRecords_ContainsIsFolded(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	tests := []struct {
		field, term string
		want        []string
	}{
		{"name_en", "national id", []string{"id-card"}},
		{"name_fr", "clinique", []string{"clinic"}},
		{"name", "بطاقة الهوية", []string{"id-card"}},
		{"name_en", "100%", nil},
	}
	for _, tc := range tests {
		c, _ := filter.NewContains(tc.field, tc.term)
		got := find(t, s, &db.RecordQuery{Filters: expr(t, nil, []filter.Condition{c})})
		if !slices.Equal(got, tc.want) {
			t.Errorf("contains(%s, %q) = %v, want %v", tc.field, tc.term, got, tc.want)
		}
	}
}

func TestFindRecords_ActiveCategoryAndOrder(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	active, _ := filter.NewFlag("is_active", true)
	civil, _ := filter.NewEquals("category", "CIVIL_STATUS")
	term, _ := filter.NewContains("name", "جواز")

	got := find(t, s, &db.RecordQuery{Filters: expr(t, []filter.Condition{active, civil}, []filter.Condition{term})})
	if !slices.Equal(got, []string{"passport"}) {
		t.Errorf("rows = %v", got)
	}

	got = find(t, s, &db.RecordQuery{Filters: expr(t, []filter.Condition{active}, nil), Order: order.Recent})
	if !slices.Equal(got, []string{"passport", "clinic", "id-card"}) {
		t.Errorf("recent order = %v", got)
	}

	got = find(t, s, &db.RecordQuery{Filters: expr(t, []filter.Condition{active}, nil), Order: order.Name, Limit: 2})
	if !slices.Equal(got, []string{"passport", "id-card"}) {
		t.Errorf("name order = %v", got)
	}
}

func TestFindRecords_UnknownField(t *testing.T) {
	s := newTestStore(t)
	bad, _ := filter.NewContains("fee", "x")

	_, err := s.FindRecords(context.Background(), &db.RecordQuery{Filters: expr(t, nil, []filter.Condition{bad})})
	if !errors.Is(err, db.ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestUpsertRecords_KeepsCreatedAt(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	s.now = func() time.Time { return t0.Add(time.Hour) }
	err := s.UpsertRecords(ctx, []db.RecordRow{{ID: "clinic", Name: "عيادة", Category: "HEALTH", IsActive: true}})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	c, _ := filter.NewEquals("id", "clinic")
	rows, _ := s.FindRecords(ctx, &db.RecordQuery{Filters: expr(t, []filter.Condition{c}, nil)})
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Name != "عيادة" || rows[0].NameFr != "" {
		t.Errorf("row not replaced: %+v", rows[0])
	}
	if !rows[0].CreatedAt.Equal(t0.Add(-time.Hour)) {
		t.Errorf("created_at = %v, want original", rows[0].CreatedAt)
	}
	if !rows[0].UpdatedAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("updated_at = %v", rows[0].UpdatedAt)
	}
}

func TestSetActive(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	if err := s.SetActive(ctx, "passport", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	active, _ := filter.NewFlag("is_active", true)
	got := find(t, s, &db.RecordQuery{Filters: expr(t, []filter.Condition{active}, nil)})
	if slices.Contains(got, "passport") {
		t.Errorf("deactivated record returned: %v", got)
	}

	if err := s.SetActive(ctx, "missing", true); !errors.Is(err, db.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	st, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("empty stats: %v", err)
	}
	if st.Total != 0 || st.Active != 0 {
		t.Errorf("empty stats = %+v", st)
	}

	seed(t, s)
	st, err = s.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Total != 4 || st.Active != 3 || st.Online != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.ByCategory["CIVIL_STATUS"] != 2 || st.ByCategory["HEALTH"] != 1 {
		t.Errorf("by category = %v", st.ByCategory)
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := s.WaitForReady(context.Background(), time.Second); err != nil {
		t.Fatalf("wait: %v", err)
	}
}
