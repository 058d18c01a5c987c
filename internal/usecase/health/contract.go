package health

import "context"

// Pinger checks a store connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks completion provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
