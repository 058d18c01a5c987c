package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store with the provided rueidis client and key prefix (test-only).
func NewStoreForTest(c rueidis.Client, prefix string) *Store {
	return &Store{client: c, prefix: prefix}
}
