package ports

import (
	"context"
	"time"
)

// Cache is a best-effort key-value capability for usecases. Writes through
// it must never fail a business operation.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
