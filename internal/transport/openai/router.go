package openai

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/khadamat/internal/domain"
)

// Router dispatches each request to the completer named by its selection.
type Router struct {
	providers map[string]domain.Completer
}

// NewRouter creates a router over named providers.
func NewRouter(providers map[string]domain.Completer) *Router {
	return &Router{providers: providers}
}

// Complete implements domain.Completer.
func (r *Router) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	c, ok := r.providers[req.Selection.Provider]
	if !ok {
		return domain.Completion{}, fmt.Errorf("provider %q: %w", req.Selection.Provider, domain.ErrUnknownProvider)
	}
	return c.Complete(ctx, req)
}

// Providers returns the configured provider names, sorted.
func (r *Router) Providers() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthCheck fails when any provider that supports health checks is down.
func (r *Router) HealthCheck(ctx context.Context) error {
	for _, name := range r.Providers() {
		hc, ok := r.providers[name].(domain.HealthChecker)
		if !ok {
			continue
		}
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("provider %s: %w", name, err)
		}
	}
	return nil
}
