// Package completion decorates text completion providers with budgets and logging.
package completion

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(ctx context.Context, tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedCompleter wraps a Completer with per-provider budgets, usage accounting and logging.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
type InstrumentedCompleter struct {
	inner   domain.Completer
	budgets Budgets
	logger  *zap.Logger
}

// NewInstrumentedCompleter wraps a completer. Providers without a budget are unlimited.
func NewInstrumentedCompleter(
	inner domain.Completer, budgets Budgets, logger *zap.Logger,
) *InstrumentedCompleter {
	return &InstrumentedCompleter{inner: inner, budgets: budgets, logger: logger}
}

// Complete checks the provider budget, delegates, and records usage.
func (c *InstrumentedCompleter) Complete(
	ctx context.Context, req domain.CompletionRequest,
) (domain.Completion, error) {
	provider, model := req.Selection.Provider, req.Selection.Model
	budget := c.budgets.For(req.Selection)

	if budget != nil {
		if err := budget.Check(ctx); err != nil {
			c.logger.Error("Budget exceeded",
				zap.String("provider", provider),
				zap.String("model", model),
				zap.Error(err),
			)
			return domain.Completion{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	res, err := c.inner.Complete(ctx, req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Completion request failed",
			zap.String("provider", provider),
			zap.String("model", model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Completion{}, fmt.Errorf("complete: %w", err)
	}

	domain.CompletionUsageFromContext(ctx).AddTokens(res.TotalTokens)

	if budget != nil && res.TotalTokens > 0 {
		budget.Record(ctx, int64(res.TotalTokens))
		remaining := metrics.CompletionBudgetTokensRemaining
		remaining.WithLabelValues(provider, "daily").Set(float64(budget.RemainingDaily()))
		remaining.WithLabelValues(provider, "monthly").Set(float64(budget.RemainingMonthly()))
	}

	c.logger.Debug("Completion request completed",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("total_tokens", res.TotalTokens),
	)

	return res, nil
}
