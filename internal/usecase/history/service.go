// Package history exposes recorded chat exchanges.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/khadamat/internal/domain"
	"github.com/kailas-cloud/khadamat/internal/domain/exchange"
)

// Service looks up, forgets and counts exchanges.
type Service struct {
	store Store
	now   func() time.Time
}

// New creates a history service.
func New(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Get returns one exchange. Malformed IDs wrap domain.ErrInvalidQuery,
// unknown or expired ones domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (exchange.Exchange, error) {
	if err := validateID(id); err != nil {
		return exchange.Exchange{}, err
	}
	ex, err := s.store.Get(ctx, id)
	if err != nil {
		return exchange.Exchange{}, fmt.Errorf("get exchange: %w", err)
	}
	return ex, nil
}

// Delete forgets an exchange. The day counter is left as is.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return fmt.Errorf("delete exchange: %w", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete exchange: %w", err)
	}
	return nil
}

// Today returns the number of exchanges recorded on the current UTC day.
func (s *Service) Today(ctx context.Context) (int64, error) {
	n, err := s.store.DailyCount(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("count exchanges: %w", err)
	}
	return n, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: exchange id %q is not a UUID", domain.ErrInvalidQuery, id)
	}
	return nil
}
