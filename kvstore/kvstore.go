// Package kvstore holds short-lived keyed state (sessions, drafts, codes, counters)
// in redis, or in process memory when redis is not configured.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	// Take returns the value and removes the key atomically.
	Take(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Locker serializes work on a key across callers (and processes, for the redis impl).
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
