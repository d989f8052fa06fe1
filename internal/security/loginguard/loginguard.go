// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package loginguard locks out client IPs after repeated failed logins.

Per IP the guard moves through three states:

  - clear: no recorded failures.
  - accumulating: 1 to MaxAttempts-1 failures.
  - locked: MaxAttempts or more failures, the last one less than Lockout ago.

There is no background timer. The lockout ends lazily: the first check made
Lockout or more after the last failure deletes the record. A successful login
calls [Guard.Clear]. The failure counter also expires from the store after
AttemptTTL so an IP that fails once and never returns does not linger.

# Storage

Two keys per IP:

	login_attempts:{ip}       failure count, created with AttemptTTL
	login_attempts:{ip}:last  unix milliseconds of the latest failure
*/
package loginguard

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ZewK3/hrportal/internal/platform/config"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/kv"
	"github.com/ZewK3/hrportal/internal/platform/sec"
)

// Policy holds the guard thresholds.
type Policy struct {
	MaxAttempts int
	Lockout     time.Duration
	AttemptTTL  time.Duration
}

// DefaultPolicy is five failures, a fifteen minute lockout and a 24 hour
// counter lifetime.
var DefaultPolicy = Policy{MaxAttempts: 5, Lockout: 15 * time.Minute, AttemptTTL: 24 * time.Hour}

// PolicyFromConfig resolves the configured durations, falling back to
// [DefaultPolicy] values for unparsable strings.
func PolicyFromConfig(cfg config.LoginGuardConfig, logger *slog.Logger) Policy {
	return Policy{
		MaxAttempts: cfg.MaxAttempts,
		Lockout:     sec.ResolveTTL(logger, "LOGIN_LOCKOUT", cfg.Lockout, DefaultPolicy.Lockout),
		AttemptTTL:  sec.ResolveTTL(logger, "LOGIN_ATTEMPT_TTL", cfg.AttemptTTL, DefaultPolicy.AttemptTTL),
	}
}

// Status describes an IP at the moment of the check.
type Status struct {
	Blocked                 bool
	Attempts                int
	AttemptsRemaining       int
	LockoutMinutesRemaining int
}

// Guard tracks failed logins per client IP.
type Guard struct {
	store  kv.Store
	policy Policy
	now    func() time.Time
}

// New creates a guard over store.
func New(store kv.Store, policy Policy) *Guard {
	return &Guard{store: store, policy: policy, now: time.Now}
}

// WithClock returns a copy of the guard that reads time from now.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	clone := *g
	clone.now = now
	return &clone
}

func countKey(ip string) string { return constants.KVPrefixLoginAttempts + ip }
func lastKey(ip string) string  { return constants.KVPrefixLoginAttempts + ip + ":last" }

// Status reports whether ip is locked out, resetting an expired lockout.
func (g *Guard) Status(ctx context.Context, ip string) (Status, error) {
	count, found, err := g.store.Get(ctx, countKey(ip))
	if err != nil {
		return Status{}, fmt.Errorf("loginguard_status_failed: %w", err)
	}
	if !found {
		return g.clearStatus(), nil
	}

	last, hasLast, err := g.store.Get(ctx, lastKey(ip))
	if err != nil {
		return Status{}, fmt.Errorf("loginguard_status_failed: %w", err)
	}

	if hasLast {
		elapsed := g.now().Sub(time.UnixMilli(last))

		if elapsed >= g.policy.Lockout {
			if err := g.Clear(ctx, ip); err != nil {
				return Status{}, err
			}
			return g.clearStatus(), nil
		}

		if int(count) >= g.policy.MaxAttempts {
			remaining := g.policy.Lockout - elapsed
			return Status{
				Blocked:                 true,
				Attempts:                int(count),
				AttemptsRemaining:       0,
				LockoutMinutesRemaining: int(math.Ceil(remaining.Minutes())),
			}, nil
		}
	}

	return Status{
		Attempts:          int(count),
		AttemptsRemaining: max(g.policy.MaxAttempts-int(count), 0),
	}, nil
}

// RecordFailure counts one failed login for ip and returns the resulting status.
func (g *Guard) RecordFailure(ctx context.Context, ip string) (Status, error) {
	count, err := g.store.Increment(ctx, countKey(ip), g.policy.AttemptTTL)
	if err != nil {
		return Status{}, fmt.Errorf("loginguard_record_failed: %w", err)
	}

	if err := g.store.Set(ctx, lastKey(ip), g.now().UnixMilli(), g.policy.AttemptTTL); err != nil {
		return Status{}, fmt.Errorf("loginguard_record_failed: %w", err)
	}

	if int(count) >= g.policy.MaxAttempts {
		return Status{
			Blocked:                 true,
			Attempts:                int(count),
			LockoutMinutesRemaining: int(math.Ceil(g.policy.Lockout.Minutes())),
		}, nil
	}

	return Status{Attempts: int(count), AttemptsRemaining: g.policy.MaxAttempts - int(count)}, nil
}

// Clear forgets every failure for ip. Clearing a clear IP is a no-op.
func (g *Guard) Clear(ctx context.Context, ip string) error {
	if err := g.store.Delete(ctx, countKey(ip), lastKey(ip)); err != nil {
		return fmt.Errorf("loginguard_clear_failed: %w", err)
	}
	return nil
}

func (g *Guard) clearStatus() Status {
	return Status{AttemptsRemaining: g.policy.MaxAttempts}
}
