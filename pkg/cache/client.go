package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by GetJSON when the key does not exist.
var ErrCacheMiss = errors.New("cache: key not found")

// Client abstracts the cache backend. The redis implementation backs
// production; the in-memory one backs tests and redis-less deployments.
type Client interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	IncrBy(ctx context.Context, key string, n int64) (int64, error)
	Decr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Available reports whether the backend is reachable. Callers fall back
	// to the database path when it is not.
	Available(ctx context.Context) bool
}
