package search

import (
	"context"

	"github.com/kailas-cloud/khadamat/internal/domain/search/filter"
	"github.com/kailas-cloud/khadamat/internal/domain/search/order"
	"github.com/kailas-cloud/khadamat/internal/domain/service"
)

// Repository defines the storage contract for record matching.
type Repository interface {
	Find(ctx context.Context, filters filter.Expression, limit int, o order.Order) ([]service.Record, error)
}
