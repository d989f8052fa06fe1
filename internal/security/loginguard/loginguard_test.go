// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package loginguard_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZewK3/hrportal/internal/platform/kv"
	"github.com/ZewK3/hrportal/internal/platform/redis"
	"github.com/ZewK3/hrportal/internal/security/loginguard"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newGuard(store kv.Store) (*loginguard.Guard, *clock) {
	c := &clock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	return loginguard.New(store, loginguard.DefaultPolicy).WithClock(c.Now), c
}

/*
TestGuard_LocksAfterMaxAttempts walks clear -> accumulating -> locked.
*/
func TestGuard_LocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	guard, c := newGuard(kv.NewMemoryStore())

	status, err := guard.Status(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, status.Blocked)
	assert.Equal(t, 5, status.AttemptsRemaining)

	for i := 1; i <= 4; i++ {
		status, err = guard.RecordFailure(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, status.Blocked)
		assert.Equal(t, 5-i, status.AttemptsRemaining)
		c.now = c.now.Add(time.Minute)
	}

	status, err = guard.RecordFailure(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, status.Blocked)

	status, err = guard.Status(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, status.Blocked)
	assert.Equal(t, 5, status.Attempts)
	assert.Equal(t, 15, status.LockoutMinutesRemaining)

	c.now = c.now.Add(5*time.Minute + 30*time.Second)
	status, err = guard.Status(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, status.Blocked)
	assert.Equal(t, 10, status.LockoutMinutesRemaining)
}

/*
TestGuard_LazyUnlock verifies the lockout ends at exactly Lockout after the
last failure and that the record is gone afterwards.
*/
func TestGuard_LazyUnlock(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	guard, c := newGuard(store)

	for range 5 {
		_, err := guard.RecordFailure(ctx, "1.2.3.4")
		require.NoError(t, err)
	}

	c.now = c.now.Add(15*time.Minute - time.Second)
	status, err := guard.Status(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, status.Blocked)
	assert.Equal(t, 1, status.LockoutMinutesRemaining)

	c.now = c.now.Add(time.Second)
	status, err = guard.Status(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, status.Blocked)
	assert.Equal(t, 0, status.Attempts)

	_, found, err := store.Get(ctx, "login_attempts:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, found)
}

/*
TestGuard_ClearResets verifies that a success before the fifth failure resets
the counter, and that Clear is idempotent.
*/
func TestGuard_ClearResets(t *testing.T) {
	ctx := context.Background()
	guard, _ := newGuard(kv.NewMemoryStore())

	for range 4 {
		_, err := guard.RecordFailure(ctx, "1.2.3.4")
		require.NoError(t, err)
	}

	require.NoError(t, guard.Clear(ctx, "1.2.3.4"))
	require.NoError(t, guard.Clear(ctx, "1.2.3.4"))

	status, err := guard.Status(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Attempts)

	status, err = guard.RecordFailure(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Attempts)
	assert.False(t, status.Blocked)
}

/*
TestGuard_PerIP verifies that one locked IP does not affect another.
*/
func TestGuard_PerIP(t *testing.T) {
	ctx := context.Background()
	guard, _ := newGuard(kv.NewMemoryStore())

	for range 5 {
		_, _ = guard.RecordFailure(ctx, "1.2.3.4")
	}

	status, err := guard.Status(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.False(t, status.Blocked)
}

/*
TestGuard_Redis verifies the counter expiry against a Redis-backed store.
*/
func TestGuard_Redis(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	guard, _ := newGuard(redis.NewStore(client))

	_, err := guard.RecordFailure(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, server.TTL("login_attempts:1.2.3.4"))

	server.FastForward(24 * time.Hour)
	assert.False(t, server.Exists("login_attempts:1.2.3.4"))

	status, err := guard.Status(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Attempts)
}
