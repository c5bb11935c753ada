package cache

import (
	"context"
	"time"
)

// Cache is the caching contract so the Redis implementation can be
// swapped for an in-memory one in tests.
type Cache interface {
	// Get unmarshals the cached value into dest. found=false means a
	// miss and dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching the glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
