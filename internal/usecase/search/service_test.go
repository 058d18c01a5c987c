package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/db/memory"
	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/intent"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/search/filter"
	"github.com/kailas-cloud/khadamat/internal/domain/search/order"
	"github.com/kailas-cloud/khadamat/internal/domain/search/query"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
	"github.com/kailas-cloud/khadamat/internal/repository/record"
)

// --- Mocks ---

type mockRepo struct {
	records   []service.Record
	err       error
	called    bool
	lastExpr  filter.Expression
	lastLimit int
	lastOrder order.Order
}

func (m *mockRepo) Find(
	_ context.Context, filters filter.Expression, limit int, o order.Order,
) ([]service.Record, error) {
	m.called = true
	m.lastExpr, m.lastLimit, m.lastOrder = filters, limit, o
	return m.records, m.err
}

func newQuery(t *testing.T, normalized string, terms []string, category service.Category) query.Query {
	t.Helper()
	q, err := query.New(normalized, normalized, terms, lang.English, intent.Analysis{Category: category})
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

// --- Tests ---

func TestMatch_BuildsFilters(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, Options{}, zap.NewNop())

	q := newQuery(t, "passport", []string{"passeport", "جواز السفر"}, service.CivilStatus)
	if _, err := svc.Match(context.Background(), q, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	must := repo.lastExpr.Must()
	if len(must) != 2 {
		t.Fatalf("expected 2 must conditions, got %d", len(must))
	}
	if !must[0].IsFlag() || must[0].Key() != service.FieldIsActive || !must[0].Flag() {
		t.Errorf("must[0] = %+v, want is_active=true", must[0])
	}
	if !must[1].IsEquals() || must[1].Key() != service.FieldCategory || must[1].Value() != "CIVIL_STATUS" {
		t.Errorf("must[1] = %+v, want category=CIVIL_STATUS", must[1])
	}

	should := repo.lastExpr.Should()
	if want := 3 * len(service.SearchableFields); len(should) != want {
		t.Fatalf("expected %d should conditions, got %d", want, len(should))
	}
	fields := map[string]bool{}
	for _, c := range should {
		if !c.IsContains() {
			t.Errorf("should condition %v is not contains", c.Op())
		}
		fields[c.Key()] = true
	}
	for _, f := range []string{service.FieldName, service.FieldNameEn, service.FieldDescriptionEn, service.FieldSubcategoryEn} {
		if !fields[f] {
			t.Errorf("field %s not searched", f)
		}
	}
	if len(repo.lastExpr.MustNot()) != 0 {
		t.Error("no must_not conditions expected")
	}
}

func TestMatch_NoCategoryMeansUnfiltered(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, Options{}, zap.NewNop())

	if _, err := svc.Match(context.Background(), newQuery(t, "help", nil, ""), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.lastExpr.Must()) != 1 {
		t.Errorf("expected only is_active, got %d must conditions", len(repo.lastExpr.Must()))
	}
}

func TestMatch_EmptyQuerySkipsStore(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, Options{}, zap.NewNop())

	res, err := svc.Match(context.Background(), newQuery(t, "", nil, ""), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.called {
		t.Error("store must not be queried without terms")
	}
	if !res.IsEmpty() || res.Count() != 0 {
		t.Errorf("expected empty result, got %d", res.Count())
	}
	if terms := res.Terms(); len(terms) != 1 || terms[0] != "" {
		t.Errorf("terms = %q, want [\"\"]", terms)
	}
}

func TestMatch_Limit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, query.DefaultLimit},
		{-3, query.DefaultLimit},
		{1, 1},
		{20, 20},
		{1000, query.MaxLimit},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.in), func(t *testing.T) {
			repo := &mockRepo{}
			svc := New(repo, Options{}, zap.NewNop())
			if _, err := svc.Match(context.Background(), newQuery(t, "x", nil, ""), tc.in); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.lastLimit != tc.want {
				t.Errorf("limit = %d, want %d", repo.lastLimit, tc.want)
			}
		})
	}
}

func TestMatch_StoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := New(&mockRepo{err: storeErr}, Options{}, zap.NewNop())

	_, err := svc.Match(context.Background(), newQuery(t, "passport", nil, ""), 5)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("expected the store error in the chain, got %v", err)
	}
}

func TestMatch_DedupesAndOrders(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockRepo{records: []service.Record{
		{ID: "old", Name: "b", CreatedAt: t0},
		{ID: "new", Name: "c", CreatedAt: t0.Add(time.Hour)},
		{ID: "online", Name: "a", IsOnline: true, CreatedAt: t0},
		{ID: "old", Name: "b", CreatedAt: t0},
	}}
	svc := New(repo, Options{Order: order.Recent}, zap.NewNop())

	res, err := svc.Match(context.Background(), newQuery(t, "x", nil, ""), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := res.IDs(), []string{"online", "new", "old"}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if repo.lastOrder != order.Recent {
		t.Errorf("order = %q", repo.lastOrder)
	}
}

func TestMatch_OptionsDefaults(t *testing.T) {
	svc := New(&mockRepo{}, Options{DefaultLimit: 80, MaxLimit: 20, Order: "random"}, zap.NewNop())
	if svc.defaultLimit != 20 || svc.maxLimit != 20 || svc.order != order.Default {
		t.Errorf("service = %+v", svc)
	}
}

// --- Properties against the in-memory store ---

func seededService(t *testing.T) *Service {
	t.Helper()
	repo := record.New(memory.NewStore(), zap.NewNop())
	err := repo.Upsert(context.Background(), []service.Record{
		{ID: "id-card", Name: "استخراج بطاقة الهوية الوطنية", NameEn: "National ID Card Issuance", Category: service.CivilStatus, IsActive: true},
		{ID: "passport", NameEn: "Passport Issuance", DescriptionEn: "Apply with your national ID", Category: service.CivilStatus, IsActive: true, IsOnline: true},
		{ID: "company", NameEn: "Company Registration", DescriptionEn: "Bring the founders' national ID", Category: service.Business, IsActive: true},
		{ID: "retired", NameEn: "National ID Card Replacement", Category: service.CivilStatus, IsActive: false},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return New(repo, Options{}, zap.NewNop())
}

func TestMatch_CategoryFilterNarrows(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	for _, term := range []string{"national id", "passport", "registration", "issuance"} {
		all, err := svc.Match(ctx, newQuery(t, term, nil, ""), 10)
		if err != nil {
			t.Fatal(err)
		}
		for _, cat := range service.Categories {
			narrowed, err := svc.Match(ctx, newQuery(t, term, nil, cat), 10)
			if err != nil {
				t.Fatal(err)
			}
			if narrowed.Count() > all.Count() {
				t.Errorf("%q with %s: %d > %d", term, cat, narrowed.Count(), all.Count())
			}
		}
	}

	civil, _ := svc.Match(ctx, newQuery(t, "national id", nil, service.CivilStatus), 10)
	if got := civil.IDs(); !slices.Equal(got, []string{"passport", "id-card"}) {
		t.Errorf("civil status ids = %v", got)
	}
}

func TestMatch_InactiveNeverReturned(t *testing.T) {
	svc := seededService(t)

	res, err := svc.Match(context.Background(), newQuery(t, "national id card replacement", nil, ""), 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Count() != 0 {
		t.Errorf("inactive record returned: %v", res.IDs())
	}
}

func TestMatch_BilingualFields(t *testing.T) {
	svc := seededService(t)

	res, err := svc.Match(context.Background(), newQuery(t, "national id", nil, ""), 10)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(res.IDs(), "id-card") {
		t.Errorf("english query must match the Arabic record via name_en: %v", res.IDs())
	}
}
