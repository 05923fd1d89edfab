package ports

import (
	"context"
	"time"
)

// Cache is a process-external key/value store. Get returns an empty string
// on a miss; cached values are JSON documents and never empty.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
