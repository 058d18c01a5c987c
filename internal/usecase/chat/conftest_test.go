package chat

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/db/memory"
	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/exchange"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
	"github.com/kailas-cloud/khadamat/internal/domain/variant"
	"github.com/kailas-cloud/khadamat/internal/repository/record"
	"github.com/kailas-cloud/khadamat/internal/usecase/classify"
	"github.com/kailas-cloud/khadamat/internal/usecase/expand"
	"github.com/kailas-cloud/khadamat/internal/usecase/format"
	"github.com/kailas-cloud/khadamat/internal/usecase/search"
)

var nationalID = service.Record{
	ID:            "svc-national-id",
	Name:          "استخراج بطاقة الهوية الوطنية",
	NameEn:        "National ID Card Issuance",
	Description:   "إصدار بطاقة الهوية الوطنية لأول مرة",
	DescriptionEn: "First issuance of the national identity card",
	Category:      service.CivilStatus,
	Requirements:  []string{"شهادة الميلاد", "صورتان شمسيتان"},
	Fee:           "25 دينار",
	IsActive:      true,
}

type mockCompleter struct {
	completeFn func(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error)
	requests   []domain.CompletionRequest
}

func (m *mockCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	m.requests = append(m.requests, req)
	return m.completeFn(ctx, req)
}

type mockRecorder struct {
	recordFn func(ctx context.Context, ex *exchange.Exchange) error
	recorded []exchange.Exchange
}

func (m *mockRecorder) Record(ctx context.Context, ex *exchange.Exchange) error {
	m.recorded = append(m.recorded, *ex)
	if m.recordFn != nil {
		return m.recordFn(ctx, ex)
	}
	return nil
}

type fixture struct {
	store *memory.Store
	repo  *record.Repo
	deps  Dependencies
}

// newFixture wires the real pipeline over an in-memory catalog holding records.
func newFixture(t *testing.T, records ...service.Record) *fixture {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewStore()
	repo := record.New(store, logger)
	if len(records) > 0 {
		if err := repo.Upsert(context.Background(), records); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	table := variant.DefaultTable()
	classifier, err := classify.NewHybrid(classify.NewRuleClassifier(classify.DefaultRules()), nil, 0, nil, logger)
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}

	return &fixture{
		store: store,
		repo:  repo,
		deps: Dependencies{
			Expander:   expand.New(table, 0),
			Classifier: classifier,
			Matcher:    search.New(repo, search.Options{}, logger),
			Formatter:  format.New(table, format.Options{}),
			Stats:      repo,
		},
	}
}

func (f *fixture) service() *Service {
	return New(f.deps, zap.NewNop())
}
