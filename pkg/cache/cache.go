// Package cache stores parsed import specifiers and rendered artifacts between
// runs.
//
// Backends:
//   - [FileCache]: one JSON file per entry, for CLI usage
//   - [RedisCache]: shared cache for teams and CI runners
//   - [MemoryCache]: bounded LRU for the long-running API server
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every backend sees the same key
// layout. Specifier entries are keyed by a content hash, so editing a file
// invalidates its entry without any explicit bookkeeping. Resolved paths are
// never cached: they depend on resolver settings and on the files present at
// build time.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry type.
const (
	TTLSpecifiers = 7 * 24 * time.Hour
	TTLArtifact   = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the stored data and true on a hit. Misses are not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not errors.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// NullCache misses on every Get and drops every Set.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }
