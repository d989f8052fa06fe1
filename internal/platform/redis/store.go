// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZewK3/hrportal/internal/platform/kv"
)

// incrementScript bumps a counter and sets its expiry only when the key was
// just created, so a window or lockout never slides forward on later hits.
var incrementScript = redis.NewScript(`
local value = redis.call("INCR", KEYS[1])
if value == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return value
`)

// Store implements [kv.Store] on a Redis client.
type Store struct {
	client redis.UniversalClient
}

var _ kv.Store = (*Store)(nil)

// NewStore wraps an existing client.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Increment implements [kv.Store] with a single server-side script.
func (s *Store) Increment(context stdctx.Context, key string, ttl time.Duration) (int64, error) {
	value, err := incrementScript.Run(context, s.client, []string{key}, ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis_store_increment_failed: %w", err)
	}
	return value, nil
}

// Get implements [kv.Store].
func (s *Store) Get(context stdctx.Context, key string) (int64, bool, error) {
	value, err := s.client.Get(context, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis_store_get_failed: %w", err)
	}
	return value, true, nil
}

// Set implements [kv.Store].
func (s *Store) Set(context stdctx.Context, key string, value int64, ttl time.Duration) error {
	if err := s.client.Set(context, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_store_set_failed: %w", err)
	}
	return nil
}

// Delete implements [kv.Store].
func (s *Store) Delete(context stdctx.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_store_delete_failed: %w", err)
	}
	return nil
}
