// Package cache stores fetched keyboard documents between runs.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Entries are opaque byte slices with an optional time-to-live. Keys are
// built with [Key] so every backend sees the same namespaced strings.
//
// The package also holds the retry policy used for network fetches:
// errors wrapped with [Retryable] are retried by [Retry].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss, including an expired entry,
	// returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache misses every read and drops every write.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                      { return nil }
func (*NullCache) Close() error                                              { return nil }
