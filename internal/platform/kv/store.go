// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kv defines the expiring counter store shared by the rate limiter and
the login-attempt guard.

Two implementations exist:

  - [redis.Store]: shared across replicas, used in production.
  - [MemoryStore]: process-local, used when no Redis URL is configured and in tests.

Every mutation is atomic at the store level. Callers never read a counter,
modify it in Go, and write it back.
*/
package kv

import (
	"context"
	"time"
)

// Store is an expiring integer key-value store.
type Store interface {
	// Increment atomically adds one to key and returns the new value.
	// When the key is created by this call its expiry is set to ttl;
	// an existing key keeps its expiry.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Get returns the value of key. found is false when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (value int64, found bool, err error)

	// Set stores value under key with the given expiry.
	Set(ctx context.Context, key string, value int64, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
