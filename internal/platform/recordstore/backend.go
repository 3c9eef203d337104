package recordstore

import "context"

// Backend persists raw text values under string keys. Implementations must be
// safe for concurrent use; Get reports absence with ok=false rather than an
// error.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
