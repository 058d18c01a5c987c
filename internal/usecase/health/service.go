package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means search works but an optional component failed.
	Degraded Status = "degraded"
	// Unhealthy means the record store is down and search cannot run.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentDatabase   = "database"
	ComponentCache      = "cache"
	ComponentCompletion = "completion"
)

const checkTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db         Pinger
	cache      Pinger
	completion ProviderChecker
}

// New creates a Service. cache and completion can be nil.
func New(db, cache Pinger, completion ProviderChecker) *Service {
	return &Service{db: db, cache: cache, completion: completion}
}

// Check probes every configured component concurrently.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	probes := map[string]func(context.Context) error{ComponentDatabase: s.db.Ping}
	if s.cache != nil {
		probes[ComponentCache] = s.cache.Ping
	}
	if s.completion != nil {
		probes[ComponentCompletion] = s.completion.HealthCheck
	}

	results := make(map[string]CheckResult, len(probes))
	outcomes := make([]CheckResult, len(probes))
	names := make([]string, 0, len(probes))

	var g errgroup.Group
	for name, probe := range probes {
		i := len(names)
		names = append(names, name)
		g.Go(func() error {
			outcomes[i] = CheckOK
			if err := probe(ctx); err != nil {
				outcomes[i] = CheckError
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, name := range names {
		results[name] = outcomes[i]
	}

	return Report{Status: aggregate(results), Checks: results}
}

func aggregate(checks map[string]CheckResult) Status {
	if checks[ComponentDatabase] == CheckError {
		return Unhealthy
	}
	for _, v := range checks {
		if v == CheckError {
			return Degraded
		}
	}
	return Healthy
}
