package cache

import (
	"context"
	"time"
)

// Store is a key-value cache with TTL support. The application runs
// against Redis when configured and falls back to an in-process store
// otherwise, so callers never need to care which one is behind it.
type Store interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
