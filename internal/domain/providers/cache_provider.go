package providers

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error
}

// ResponseCachePrefix namespaces cached HTTP responses. Keys are
// ResponseCachePrefix + path + ":" + hash(query) so one route can be purged
// with a pattern.
const ResponseCachePrefix = "http:cache:"

// ResponseCachePattern matches every cached response whose path starts with
// pathPrefix.
func ResponseCachePattern(pathPrefix string) string {
	return ResponseCachePrefix + pathPrefix + "*"
}
