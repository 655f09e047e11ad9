package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key does not exist in storage
var ErrKeyNotFound = errors.New("key not found")

// KeyValuePair represents a key-value pair for bulk operations
type KeyValuePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// KeyValueStorage defines the interface for key-value storage operations.
// Backends (BadgerDB, Redis) implement the same contract so the report
// cache and credential lookup can run against either.
type KeyValueStorage interface {
	// Get retrieves a value by key. Returns ErrKeyNotFound if the key
	// does not exist or has expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with the given TTL. A zero TTL stores the
	// value without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases storage resources.
	Close() error
}
