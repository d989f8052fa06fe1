// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis backs the shared expiring counters of the rate limiter and the
login-attempt guard.

Every API replica must see the same counts, so these live in Redis rather
than in process memory. Traffic is one short script call per request, which
keeps the pool small and the timeouts tight: a slow Redis must not hold up a
login, because both consumers fail open on store errors.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 2 * time.Second
	opTimeout   = 500 * time.Millisecond
	pingTimeout = 2 * time.Second
	poolSize    = 16
)

// Options parses redisURL and applies the counter-traffic tuning.
func Options(redisURL string) (*redis.Options, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = poolSize
	options.MinIdleConns = 2
	options.DialTimeout = dialTimeout
	options.ReadTimeout = opTimeout
	options.WriteTimeout = opTimeout

	// Honour request deadlines; retries would only delay a fail-open decision.
	options.ContextTimeoutEnabled = true
	options.MaxRetries = 1

	return options, nil
}

// NewClient connects to redisURL and verifies the connection with a ping.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := Options(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)
	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
