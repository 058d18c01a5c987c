package db

import (
	"context"
	"time"
)

// RecordStore is the record database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type RecordStore interface {
	Pinger
	RecordFinder
	RecordWriter
	StatsReader
	Migrate(ctx context.Context) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RecordFinder runs filtered record queries.
type RecordFinder interface {
	FindRecords(ctx context.Context, q *RecordQuery) ([]RecordRow, error)
}

// RecordWriter seeds and toggles records.
type RecordWriter interface {
	UpsertRecords(ctx context.Context, rows []RecordRow) error
	SetActive(ctx context.Context, id string, active bool) error
}

// StatsReader aggregates catalog counters.
type StatsReader interface {
	Stats(ctx context.Context) (*Stats, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}
