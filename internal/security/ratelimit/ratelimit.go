// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratelimit implements the fixed-window request limiter shared by all
API replicas.

Each (rule, client, window) triple owns one counter in the [kv.Store]. The
counter is created on the first request of the window with a TTL equal to
the time left in the window, so it disappears when the window closes and the
next window starts from zero.

# Failure Semantics

When the counter store is unreachable the limiter fails open: the request is
allowed and the outage is logged. Availability wins over strictness.
*/
package ratelimit

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

// Rule is a named policy: at most Limit requests per Window per client.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Decision is the outcome of one [Limiter.Check].
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time

	// FailedOpen is set when the store was unavailable and the request was
	// allowed without counting.
	FailedOpen bool
}

// RetryAfter returns the whole seconds until the window resets, at least 1.
func (d Decision) RetryAfter(now time.Time) int {
	seconds := int(math.Ceil(d.ResetAt.Sub(now).Seconds()))
	return max(seconds, 1)
}

// Observer receives one call per decision. [metrics.Metrics] implements it.
type Observer interface {
	ObserveRateLimit(rule, decision string)
}

// Limiter evaluates named rules against a counter store.
type Limiter struct {
	store    kv.Store
	rules    map[string]Rule
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// New creates a limiter for the given rules. observer may be nil.
func New(store kv.Store, rules []Rule, logger *slog.Logger, observer Observer) *Limiter {
	byName := make(map[string]Rule, len(rules))
	for _, rule := range rules {
		byName[rule.Name] = rule
	}
	return &Limiter{store: store, rules: byName, logger: logger, observer: observer, now: time.Now}
}

// WithClock returns a copy of the limiter that reads time from now.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	clone := *l
	clone.now = now
	return &clone
}

// RulesFromConfig builds the login, register and api rules.
func RulesFromConfig(cfg config.RateLimitConfig, logger *slog.Logger) []Rule {
	return []Rule{
		{Name: constants.RuleLogin, Limit: cfg.LoginRequests, Window: sec.ResolveTTL(logger, "RATE_LIMIT_LOGIN_WINDOW", cfg.LoginWindow, 15*time.Minute)},
		{Name: constants.RuleRegister, Limit: cfg.RegisterRequests, Window: sec.ResolveTTL(logger, "RATE_LIMIT_REGISTER_WINDOW", cfg.RegisterWindow, time.Hour)},
		{Name: constants.RuleAPI, Limit: cfg.APIRequests, Window: sec.ResolveTTL(logger, "RATE_LIMIT_API_WINDOW", cfg.APIWindow, time.Hour)},
	}
}

// Rule returns the named rule.
func (l *Limiter) Rule(name string) (Rule, bool) {
	rule, ok := l.rules[name]
	return rule, ok
}

// Check counts one request from clientKey against ruleName.
//
// The only error is an unknown rule name, which is a programming mistake.
// Store failures are absorbed by failing open.
func (l *Limiter) Check(ctx context.Context, clientKey, ruleName string) (Decision, error) {
	rule, ok := l.rules[ruleName]
	if !ok {
		return Decision{}, fmt.Errorf("ratelimit: unknown rule %q", ruleName)
	}

	now := l.now()
	windowStart, resetAt := window(now, rule.Window)
	key := fmt.Sprintf("%s%s:%s:%d", constants.KVPrefixRateLimit, rule.Name, clientKey, windowStart.Unix())

	count, err := l.store.Increment(ctx, key, max(resetAt.Sub(now), time.Millisecond))
	if err != nil {
		l.logger.WarnContext(ctx, "ratelimit_store_unavailable",
			slog.String("rule", rule.Name),
			slog.Any("error", err),
		)
		l.observe(rule.Name, "failed_open")
		return Decision{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit, ResetAt: resetAt, FailedOpen: true}, nil
	}

	decision := Decision{
		Allowed:   count <= int64(rule.Limit),
		Limit:     rule.Limit,
		Remaining: max(rule.Limit-int(count), 0),
		ResetAt:   resetAt,
	}

	if decision.Allowed {
		l.observe(rule.Name, "allowed")
	} else {
		l.observe(rule.Name, "denied")
	}
	return decision, nil
}

func (l *Limiter) observe(rule, decision string) {
	if l.observer != nil {
		l.observer.ObserveRateLimit(rule, decision)
	}
}

// window aligns now to the epoch-based window containing it.
func window(now time.Time, size time.Duration) (start, end time.Time) {
	sizeMillis := size.Milliseconds()
	startMillis := now.UnixMilli() / sizeMillis * sizeMillis
	start = time.UnixMilli(startMillis)
	return start, start.Add(size)
}
