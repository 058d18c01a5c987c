package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a malformed search or chat request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrStoreUnavailable signals a failed record store query.
	// A true zero-match result is never reported with this error.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrCompletionProviderError signals a text completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
	// ErrUnknownProvider signals a provider selection that is not configured.
	ErrUnknownProvider = errors.New("unknown completion provider")
	// ErrCompletionQuotaExceeded signals an exhausted provider token budget.
	ErrCompletionQuotaExceeded = errors.New("completion quota exceeded")
	// ErrCompletionDisabled signals that no completion provider is configured.
	ErrCompletionDisabled = errors.New("completion disabled")
)

// InvalidRecordError reports a store row that failed validation at the repository boundary.
type InvalidRecordError struct {
	ID     string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid service record %q: %s", e.ID, e.Reason)
}

// NewInvalidRecord creates an invalid record error.
func NewInvalidRecord(id, reason string) error {
	return &InvalidRecordError{ID: id, Reason: reason}
}
