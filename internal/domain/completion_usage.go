package domain

import (
	"context"
	"sync"
)

type completionUsageKey struct{}

// CompletionUsage collects token usage for a single HTTP request.
// The handler puts a pointer into the context before calling the service;
// the completer decorators write to it; the handler reads it for response headers.
type CompletionUsage struct {
	mu          sync.Mutex
	totalTokens int
	used        bool
}

// NewContextWithCompletionUsage returns a context with a usage collector.
func NewContextWithCompletionUsage(ctx context.Context) (context.Context, *CompletionUsage) {
	u := &CompletionUsage{}
	return context.WithValue(ctx, completionUsageKey{}, u), u
}

// CompletionUsageFromContext returns the usage collector or nil.
func CompletionUsageFromContext(ctx context.Context) *CompletionUsage {
	u, _ := ctx.Value(completionUsageKey{}).(*CompletionUsage)
	return u
}

// AddTokens records token usage. Safe to call on a nil receiver.
func (u *CompletionUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.totalTokens += n
	u.used = true
	u.mu.Unlock()
}

// TotalTokens returns the tokens recorded so far.
func (u *CompletionUsage) TotalTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totalTokens
}

// Used reports whether any completion was requested, including cache hits.
func (u *CompletionUsage) Used() bool {
	if u == nil {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.used
}
