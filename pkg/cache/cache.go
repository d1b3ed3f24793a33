// Package cache stores serialized resolution results between runs.
//
// Resolution is cheap, but offering files used in CI and on the bench can
// hold thousands of declarations, and rendered graphs are not. Callers hash the
// canonical form of an offering set with a [Keyer] and store whatever bytes
// they derived from it.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for benches running many tools
//
// All backends treat corrupt or expired entries as misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value stored under key. A miss is reported as
	// (nil, false, nil), not as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long resolution results are kept when the caller does not
// configure a TTL.
const DefaultTTL = 24 * time.Hour
