package cache

import (
	"context"
	"time"
)

// Cache is the get/set contract shared by every cached lookup in the service.
// Implementations: Redis (infrastructure/cache). Tests use an in-memory map.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found=false means a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks connectivity.
	Ping(ctx context.Context) error
}

// GetOrCompute returns the cached value for key or computes, stores and returns it.
// Cache read/write failures degrade to calling compute; a compute error is returned as-is
// and nothing is stored.
func GetOrCompute[T any](
	ctx context.Context,
	c Cache,
	key string,
	ttl time.Duration,
	compute func(ctx context.Context) (T, error),
) (T, error) {
	var cached T
	if c != nil {
		if found, err := c.Get(ctx, key, &cached); err == nil && found {
			return cached, nil
		}
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if c != nil {
		_ = c.Set(ctx, key, value, ttl)
	}
	return value, nil
}
