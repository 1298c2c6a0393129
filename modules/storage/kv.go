package storage

import (
	"context"
	"time"
)

// KV is the string key-value store behind the gateway.
//
// It follows gofiber storage semantics: Get of a missing key returns a nil
// value and a nil error, and an expiration of zero means no expiration.
type KV interface {
	GetWithContext(ctx context.Context, key string) ([]byte, error)
	SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error
	DeleteWithContext(ctx context.Context, key string) error
	Close() error
}
