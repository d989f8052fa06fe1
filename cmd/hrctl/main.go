// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command hrctl is the operator CLI for the HR portal.
//
// It shares the server's environment configuration and talks to the same
// PostgreSQL database and Redis instance.
//
//	hrctl migrate up
//	hrctl create-admin --email root@example.com --password '...' --first-name Ops --last-name Team
//	hrctl unlock-ip 203.0.113.7
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZewK3/hrportal/internal/platform/config"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/kv"
	"github.com/ZewK3/hrportal/internal/platform/logger"
	pgstore "github.com/ZewK3/hrportal/internal/platform/postgres"
	redisstore "github.com/ZewK3/hrportal/internal/platform/redis"
	"github.com/ZewK3/hrportal/internal/users/admin"
	"github.com/ZewK3/hrportal/internal/users/auth"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:           "hrctl",
	Short:         "HR portal operator tool",
	Long:          "Run migrations, seed administrators and release locked client IPs.",
	Version:       constants.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// # Dependency Factories
//
// Replaced in tests so commands run without PostgreSQL or Redis.

var loadConfig = config.Load

var openUserStore = func(ctx context.Context, cfg *config.Config, log *slog.Logger) (admin.AccountCreator, func(), error) {
	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, err
	}
	return auth.NewUserRepository(pool), pool.Close, nil
}

var openCounterStore = func(ctx context.Context, cfg *config.Config, log *slog.Logger) (kv.Store, func(), error) {
	if cfg.RedisURL == "" {
		return nil, nil, fmt.Errorf("REDIS_URL is not set; login attempts are held in the server process")
	}
	client, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, nil, err
	}
	return redisstore.NewStore(client), func() { _ = client.Close() }, nil
}

// commandLogger builds the colourised logger used for CLI output on stderr.
func commandLogger(cmd *cobra.Command) *slog.Logger {
	return logger.New(cmd.ErrOrStderr(), true, debug)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
