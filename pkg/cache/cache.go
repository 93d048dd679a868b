package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Service defines cache operations interface.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (interface{}, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Flush(ctx context.Context) error
	Len() int
	Close() error
}

// GetTyped retrieves a key and asserts it to T. The second return is false
// on miss or type mismatch.
func GetTyped[T any](ctx context.Context, c Service, key string) (T, bool) {
	var zero T
	v, err := c.Get(ctx, key)
	if err != nil {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
