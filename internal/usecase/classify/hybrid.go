package classify

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/domain/intent"
	"github.com/kailas-cloud/khadamat/internal/domain/lang"
	"github.com/kailas-cloud/khadamat/internal/domain/normalize"
)

// DefaultCacheSize is the number of provider analyses kept in memory.
const DefaultCacheSize = 1024

// Analyzer derives a structured analysis from a model.
type Analyzer interface {
	Analyze(ctx context.Context, query string, language lang.Language) (intent.Analysis, error)
}

// HybridClassifier asks an Analyzer first and falls back to the rules on any error.
// Provider answers are cached by normalized query and language.
type HybridClassifier struct {
	rules       *RuleClassifier
	analyzer    Analyzer
	cache       *lru.Cache[string, intent.Analysis]
	sourceTotal *prometheus.CounterVec
	logger      *zap.Logger
}

// NewHybrid creates a hybrid classifier. A nil analyzer classifies with rules only.
// sourceTotal is a counter vec with label "source" ("rules"/"provider"/"cache"), passed explicitly.
func NewHybrid(
	rules *RuleClassifier,
	analyzer Analyzer,
	cacheSize int,
	sourceTotal *prometheus.CounterVec,
	logger *zap.Logger,
) (*HybridClassifier, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, intent.Analysis](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create classifier cache: %w", err)
	}
	return &HybridClassifier{
		rules:       rules,
		analyzer:    analyzer,
		cache:       cache,
		sourceTotal: sourceTotal,
		logger:      logger,
	}, nil
}

// Classify never fails: provider errors degrade to the rule-based analysis.
func (h *HybridClassifier) Classify(ctx context.Context, query string, language lang.Language) intent.Analysis {
	fallback := h.rules.Classify(query, language)
	if h.analyzer == nil {
		h.incSource("rules")
		return fallback
	}

	key := string(language) + "\x00" + normalize.Normalize(query)
	if a, ok := h.cache.Get(key); ok {
		h.incSource("cache")
		return a
	}

	a, err := h.analyzer.Analyze(ctx, query, language)
	if err != nil {
		h.logger.Warn("Provider analysis failed, using rules", zap.Error(err))
		h.incSource("rules")
		return fallback
	}

	a = sanitize(a, fallback)
	h.cache.Add(key, a)
	h.incSource("provider")
	return a
}

// IsStatisticsRequest reports whether the query asks for catalog statistics.
func (h *HybridClassifier) IsStatisticsRequest(query string) bool {
	return h.rules.IsStatisticsRequest(query)
}

func (h *HybridClassifier) incSource(source string) {
	if h.sourceTotal != nil {
		h.sourceTotal.WithLabelValues(source).Inc()
	}
}

// sanitize keeps provider values inside the known enums.
// Unknown categories mean no category filter.
func sanitize(a, fallback intent.Analysis) intent.Analysis {
	if !a.Intent.IsValid() {
		a.Intent = fallback.Intent
	}
	if !a.Category.IsValid() {
		a.Category = ""
	}
	if a.Urgency != intent.High {
		a.Urgency = intent.Normal
	}
	a.Source = intent.SourceProvider
	return a
}
