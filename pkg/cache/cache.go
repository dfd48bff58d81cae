// Package cache provides a small byte-oriented cache used to memoize
// expensive grid derivations between runs.
//
// Converting a source image into a symbol grid involves resizing, luminance
// mapping and (when color is enabled) a seeded K-means palette assignment.
// None of that depends on animation parameters, so the CLI caches the
// serialized grid keyed by the image content and the derivation options.
//
// Two implementations are provided: FileCache stores entries as JSON files
// under a directory, NullCache disables caching entirely.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache is a byte-oriented key/value store with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ErrCacheMiss is returned by helpers when an item is not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// GridKeyOpts captures every option that affects grid derivation.
// Any change to these invalidates the cached grid.
type GridKeyOpts struct {
	Columns     int
	Rows        int
	Charset     string
	UseColor    bool
	PaletteSize int
	Seed        int64
}

// GridKey builds a cache key for a derived grid.
// imageHash should be the content hash of the source image bytes.
func GridKey(imageHash string, opts GridKeyOpts) string {
	return hashKey("grid", imageHash, opts)
}
