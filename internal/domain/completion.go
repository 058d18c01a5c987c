package domain

import (
	"context"
	"fmt"
)

// Completer is the shared text completion contract between layers.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// HealthChecker verifies completion provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Selection picks the provider and model for a single completion call.
// Empty fields are filled from configuration defaults.
type Selection struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// IsZero reports whether neither provider nor model was chosen.
func (s Selection) IsZero() bool { return s.Provider == "" && s.Model == "" }

// CompletionRequest carries prompts and the provider selection through the decorator chain.
type CompletionRequest struct {
	Selection    Selection
	SystemPrompt string
	UserPrompt   string
	// Context is extra material the provider should ground its answer on.
	Context string
	// JSON asks the provider for a JSON object response.
	JSON bool
}

// Completion carries the generated text and token usage.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// DefaultSelectionCompleter fills unset selection fields before delegating.
type DefaultSelectionCompleter struct {
	inner    Completer
	defaults Selection
}

// NewDefaultSelectionCompleter creates a decorator that applies default provider and model.
func NewDefaultSelectionCompleter(inner Completer, defaults Selection) *DefaultSelectionCompleter {
	return &DefaultSelectionCompleter{inner: inner, defaults: defaults}
}

// Complete applies defaults and delegates to inner completer.
func (c *DefaultSelectionCompleter) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	if req.Selection.Provider == "" {
		req.Selection.Provider = c.defaults.Provider
	}
	if req.Selection.Model == "" {
		req.Selection.Model = c.defaults.Model
	}
	res, err := c.inner.Complete(ctx, req)
	if err != nil {
		return Completion{}, fmt.Errorf("complete with %s/%s: %w", req.Selection.Provider, req.Selection.Model, err)
	}
	return res, nil
}
