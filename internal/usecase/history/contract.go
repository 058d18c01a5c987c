package history

import (
	"context"
	"time"

	"github.com/kailas-cloud/khadamat/internal/domain/exchange"
)

// Store reads and removes persisted exchanges.
type Store interface {
	Get(ctx context.Context, id string) (exchange.Exchange, error)
	Delete(ctx context.Context, id string) error
	DailyCount(ctx context.Context, t time.Time) (int64, error)
}
