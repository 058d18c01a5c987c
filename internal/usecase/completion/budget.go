package completion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/usage/budget"
)

// BudgetAction is what Check does once a cap is reached.
type BudgetAction string

// Budget actions accepted in provider config.
const (
	BudgetActionWarn   BudgetAction = "warn"
	BudgetActionReject BudgetAction = "reject"
)

// ParseBudgetAction maps a config value onto BudgetAction. Empty means warn.
func ParseBudgetAction(s string) (BudgetAction, error) {
	switch BudgetAction(s) {
	case "", BudgetActionWarn:
		return BudgetActionWarn, nil
	case BudgetActionReject:
		return BudgetActionReject, nil
	default:
		return "", fmt.Errorf("unknown budget action %q", s)
	}
}

// BudgetStore holds counters shared by every replica.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

const budgetWriteTimeout = 2 * time.Second

// Budgets maps provider names to their trackers.
type Budgets map[string]BudgetChecker

// For returns the budget charged for sel, nil when its provider is unbudgeted.
func (b Budgets) For(sel domain.Selection) BudgetChecker {
	return b[sel.Provider]
}

type period uint8

const (
	periodDay period = iota
	periodMonth
)

func (p period) String() string {
	if p == periodMonth {
		return "monthly"
	}
	return "daily"
}

// window is the spend of one provider in the current UTC day or month.
type window struct {
	period period
	limit  int64
	used   int64
	start  time.Time
	// loaded is false until the store has been read for this window.
	loaded bool
}

func (w *window) startOf(t time.Time) time.Time {
	t = t.UTC()
	if w.period == periodMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// advance moves to the window containing now. A new window starts empty.
func (w *window) advance(now time.Time) {
	if s := w.startOf(now); s.After(w.start) {
		w.start, w.used, w.loaded = s, 0, false
	}
}

func (w *window) end() time.Time {
	if w.period == periodMonth {
		return w.start.AddDate(0, 1, 0)
	}
	return w.start.AddDate(0, 0, 1)
}

// key is khadamat:budget:<provider>:daily:2026-05-10 or :monthly:2026-05.
func (w *window) key(provider string) string {
	stamp := w.start.Format(time.DateOnly)
	if w.period == periodMonth {
		stamp = w.start.Format("2006-01")
	}
	return fmt.Sprintf("%sbudget:%s:%s:%s", domain.KeyPrefix, provider, w.period, stamp)
}

func (w *window) budget() budget.Budget {
	remaining := int64(-1)
	if w.limit > 0 {
		remaining = max(w.limit-w.used, 0)
	}
	return budget.New(w.limit, remaining, w.end().UnixMilli())
}

// BudgetTracker counts one provider's completion tokens against a daily and a
// monthly cap. With a store attached, each window is read from it once, so a
// restart or a second replica picks up the shared count.
type BudgetTracker struct {
	provider string
	action   BudgetAction
	now      func() time.Time
	logger   *zap.Logger

	mu    sync.Mutex
	store BudgetStore
	day   window
	month window
}

// NewBudgetTracker creates a tracker. A zero limit is unlimited.
func NewBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	return &BudgetTracker{
		provider: provider,
		action:   action,
		now:      time.Now,
		logger:   logger,
		day:      window{period: periodDay, limit: dailyLimit},
		month:    window{period: periodMonth, limit: monthlyLimit},
	}
}

// WithStore attaches a store and reads the current windows from it.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	b.load(ctx)
	b.logger.Info("Completion budget restored",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used),
		zap.Int64("monthly_used", b.month.used),
	)
	return b
}

// load advances both windows and reads the ones not yet loaded. Callers hold mu.
// A failed read keeps the local count and is retried on the next call.
func (b *BudgetTracker) load(ctx context.Context) {
	now := b.now()
	for _, w := range []*window{&b.day, &b.month} {
		w.advance(now)
		if b.store == nil || w.loaded {
			continue
		}
		key := w.key(b.provider)
		n, err := b.store.Get(ctx, key)
		if err != nil {
			b.logger.Warn("Failed to load budget counter", zap.String("key", key), zap.Error(err))
			continue
		}
		w.used, w.loaded = n, true
	}
}

// Check reports domain.ErrCompletionQuotaExceeded when a cap is reached and the
// action is reject. With the warn action it only logs.
func (b *BudgetTracker) Check(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.load(ctx)
	day, month := b.day.budget(), b.month.budget()
	if !day.IsExhausted() && !month.IsExhausted() {
		return nil
	}
	if b.action == BudgetActionReject {
		return fmt.Errorf("provider %s: %w", b.provider, domain.ErrCompletionQuotaExceeded)
	}

	b.logger.Warn("Completion budget exhausted, allowing request",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used),
		zap.Int64("daily_limit", b.day.limit),
		zap.Int64("monthly_used", b.month.used),
		zap.Int64("monthly_limit", b.month.limit),
	)
	return nil
}

// Record charges tokens to both windows and adds them to the shared counters.
// The store write outlives ctx cancellation.
func (b *BudgetTracker) Record(ctx context.Context, tokens int64) {
	b.mu.Lock()
	b.load(ctx)
	b.day.used += tokens
	b.month.used += tokens
	store := b.store
	keys := [2]string{b.day.key(b.provider), b.month.key(b.provider)}
	b.mu.Unlock()

	if store == nil {
		return
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), budgetWriteTimeout)
	defer cancel()
	for _, key := range keys {
		if err := store.IncrBy(wctx, key, tokens); err != nil {
			b.logger.Warn("Failed to persist budget counter", zap.String("key", key), zap.Error(err))
		}
	}
}

// snapshot returns the window's budget after moving it to the current period.
func (b *BudgetTracker) snapshot(w *window) (budget.Budget, int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w.advance(b.now())
	return w.budget(), w.used
}

// RemainingDaily returns tokens left today (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 {
	bud, _ := b.snapshot(&b.day)
	return bud.TokensRemaining()
}

// RemainingMonthly returns tokens left this month (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 {
	bud, _ := b.snapshot(&b.month)
	return bud.TokensRemaining()
}

// DailyUsed returns tokens consumed today.
func (b *BudgetTracker) DailyUsed() int64 {
	_, used := b.snapshot(&b.day)
	return used
}

// MonthlyUsed returns tokens consumed this month.
func (b *BudgetTracker) MonthlyUsed() int64 {
	_, used := b.snapshot(&b.month)
	return used
}

// Provider returns the provider this tracker counts for.
func (b *BudgetTracker) Provider() string { return b.provider }

// DailyLimit returns the daily token cap (0 if unlimited).
func (b *BudgetTracker) DailyLimit() int64 { return b.day.limit }

// MonthlyLimit returns the monthly token cap (0 if unlimited).
func (b *BudgetTracker) MonthlyLimit() int64 { return b.month.limit }
