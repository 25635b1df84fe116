// Package storage persists the small amount of client state that has to
// survive restarts: the bearer token, the push notification preference and
// the device identifier.
//
// Three backends implement Store:
//   - SQLiteStore keeps a key/value table in a local database file (default)
//   - RedisStore keeps keys under the "uppi:" prefix, shared between processes
//   - MemoryStore keeps nothing across restarts and backs tests
//
// Values that look like credentials are masked before they are logged.
package storage

import (
	"context"
	"errors"
)

const (
	// MinValueLengthForMasking is the minimum value length before partial masking is applied.
	MinValueLengthForMasking = 8
)

// ErrNotFound is returned by Get when the key has no value.
// Callers distinguish it from real failures with errors.Is.
var ErrNotFound = errors.New("key not found")

// Store is a string key/value store.
//
// Thread Safety: implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}

// maskValue hides all but the edges of a value so it is safe to log.
func maskValue(value string) string {
	if len(value) <= MinValueLengthForMasking {
		return "***"
	}
	return value[:4] + "***" + value[len(value)-4:]
}
