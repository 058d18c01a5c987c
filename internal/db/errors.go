package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound    = errors.New("db: key not found")
	ErrRecordNotFound = errors.New("db: record not found")
	ErrUnknownField   = errors.New("db: unknown field")
)

// Op constants name the failed operation for error context.
// KV operations use Valkey/Redis command names.
const (
	OpMigrate = "MIGRATE"
	OpFind    = "FIND"
	OpUpsert  = "UPSERT"
	OpUpdate  = "UPDATE"
	OpStats   = "STATS"
	OpPing    = "PING"
	OpDel     = "DEL"
	OpGet     = "GET"
	OpSet     = "SET"
	OpIncrBy  = "INCRBY"
	OpExpire  = "EXPIRE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
