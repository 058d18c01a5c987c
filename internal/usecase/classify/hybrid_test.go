package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/domain/intent"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

type mockAnalyzer struct {
	analyzeFn func(ctx context.Context, query string, language lang.Language) (intent.Analysis, error)
	calls     int
}

func (m *mockAnalyzer) Analyze(ctx context.Context, query string, language lang.Language) (intent.Analysis, error) {
	m.calls++
	return m.analyzeFn(ctx, query, language)
}

func newHybrid(t *testing.T, a Analyzer, counter *prometheus.CounterVec) *HybridClassifier {
	t.Helper()
	h, err := NewHybrid(NewRuleClassifier(DefaultRules()), a, 8, counter, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHybrid: %v", err)
	}
	return h
}

func TestHybrid_NoAnalyzerUsesRules(t *testing.T) {
	h := newHybrid(t, nil, nil)

	a := h.Classify(context.Background(), "passport fee", lang.English)
	if a.Source != intent.SourceRules || a.Intent != intent.Cost || a.Category != service.CivilStatus {
		t.Errorf("analysis = %+v", a)
	}
}

func TestHybrid_ProviderAnswerIsCached(t *testing.T) {
	m := &mockAnalyzer{analyzeFn: func(_ context.Context, _ string, _ lang.Language) (intent.Analysis, error) {
		return intent.Analysis{Intent: intent.Requirements, Category: service.Business, Urgency: intent.High}, nil
	}}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_classify_total"}, []string{"source"})
	h := newHybrid(t, m, counter)

	for _, q := range []string{"open a company", "  Open a COMPANY "} {
		a := h.Classify(context.Background(), q, lang.English)
		if a.Source != intent.SourceProvider || a.Intent != intent.Requirements || a.Category != service.Business {
			t.Errorf("analysis = %+v", a)
		}
		if a.Urgency != intent.High {
			t.Errorf("urgency = %q", a.Urgency)
		}
	}
	if m.calls != 1 {
		t.Errorf("analyzer calls = %d, want 1", m.calls)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("cache")); got != 1 {
		t.Errorf("cache count = %v", got)
	}

	h.Classify(context.Background(), "open a company", lang.French)
	if m.calls != 2 {
		t.Errorf("language must be part of the cache key, calls = %d", m.calls)
	}
}

func TestHybrid_ProviderErrorFallsBack(t *testing.T) {
	m := &mockAnalyzer{analyzeFn: func(_ context.Context, _ string, _ lang.Language) (intent.Analysis, error) {
		return intent.Analysis{}, errors.New("provider down")
	}}
	h := newHybrid(t, m, nil)

	for i := 0; i < 2; i++ {
		a := h.Classify(context.Background(), "كيف أحصل على جواز السفر", lang.Arabic)
		if a.Source != intent.SourceRules || a.Intent != intent.Procedure || a.Category != service.CivilStatus {
			t.Errorf("analysis = %+v", a)
		}
	}
	if m.calls != 2 {
		t.Errorf("failures must not be cached, calls = %d", m.calls)
	}
}

func TestHybrid_SanitizesProviderValues(t *testing.T) {
	m := &mockAnalyzer{analyzeFn: func(_ context.Context, _ string, _ lang.Language) (intent.Analysis, error) {
		return intent.Analysis{Intent: "gossip", Category: "SPACE_TRAVEL", Urgency: "extreme"}, nil
	}}
	h := newHybrid(t, m, nil)

	a := h.Classify(context.Background(), "how much is a passport", lang.English)
	if a.Intent != intent.Cost {
		t.Errorf("unknown intent should fall back to rules, got %q", a.Intent)
	}
	if a.Category != "" || a.HasCategory() {
		t.Errorf("unknown category must be dropped, got %q", a.Category)
	}
	if a.Urgency != intent.Normal {
		t.Errorf("urgency = %q", a.Urgency)
	}
	if a.Source != intent.SourceProvider {
		t.Errorf("source = %q", a.Source)
	}
}
