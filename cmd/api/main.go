// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the HR portal HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables (and .env).
//  2. Initialize structured logger and tracing.
//  3. Connect to PostgreSQL (pgxpool) and run migrations (idempotent).
//  4. Connect to Redis, or fall back to the in-process counter store.
//  5. Wire security components and domain services.
//  6. Start background workers (session cleanup, burst-limiter eviction).
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZewK3/hrportal/internal/api"
	"github.com/ZewK3/hrportal/internal/attendance"
	"github.com/ZewK3/hrportal/internal/dashboard"
	"github.com/ZewK3/hrportal/internal/platform/config"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/kv"
	"github.com/ZewK3/hrportal/internal/platform/logger"
	"github.com/ZewK3/hrportal/internal/platform/mail"
	"github.com/ZewK3/hrportal/internal/platform/metrics"
	"github.com/ZewK3/hrportal/internal/platform/middleware"
	"github.com/ZewK3/hrportal/internal/platform/migration"
	pgstore "github.com/ZewK3/hrportal/internal/platform/postgres"
	redisstore "github.com/ZewK3/hrportal/internal/platform/redis"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/platform/telemetry"
	"github.com/ZewK3/hrportal/internal/security/audit"
	"github.com/ZewK3/hrportal/internal/security/loginguard"
	"github.com/ZewK3/hrportal/internal/security/ratelimit"
	"github.com/ZewK3/hrportal/internal/users/admin"
	"github.com/ZewK3/hrportal/internal/users/auth"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("startup failure", slog.String("context", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}

	// ── 2. Logger + Tracing ───────────────────────────────────────────────
	log := logger.New(os.Stdout, cfg.IsDevelopment(), cfg.Debug).With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for background workers; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	shutdownTracing, err := telemetry.Setup(startupCtx, constants.AppName, constants.AppVersion,
		cfg.Telemetry.Endpoint, cfg.Telemetry.Insecure, log)
	must(log, err, "initialize telemetry")
	defer func() {
		if terr := shutdownTracing(context.Background()); terr != nil {
			log.Error("telemetry shutdown error", slog.Any("error", terr))
		}
	}()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	checks := []api.HealthCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
	}

	// ── 4. Counter Store ──────────────────────────────────────────────────
	var counters kv.Store
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		counters = redisstore.NewStore(rdb)
		checks = append(checks, api.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	} else {
		log.Warn("redis_disabled_using_memory_store")
		counters = kv.NewMemoryStore()
	}

	// ── 5. Security Components ────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.Token.Secret, cfg.Token.Issuer)
	must(log, err, "initialize token service")

	appMetrics := metrics.New()
	limiter := ratelimit.New(counters, ratelimit.RulesFromConfig(cfg.RateLimit, log), log, appMetrics)
	guard := loginguard.New(counters, loginguard.PolicyFromConfig(cfg.LoginGuard, log))
	auditor := audit.NewRecorder(audit.NewPostgresStore(pool), log)
	burst := middleware.NewBurstLimiter(cfg.Burst.RPS, cfg.Burst.Size)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)

	authService := auth.NewService(
		userRepository,
		sessionRepository,
		tokens,
		guard,
		mail.NewFromConfig(cfg, log),
		auditor,
		appMetrics,
		auth.ConfigFromToken(cfg.Token, log),
	)
	adminService := admin.NewService(admin.NewRepository(pool), sessionRepository, guard, auditor)
	attendanceService := attendance.NewService(attendance.NewRepository(pool), auditor)
	dashboardService := dashboard.NewService(dashboard.NewRepository(pool), auditor)

	liveness, readiness := api.NewHealthHandlers(checks, log)

	trustedProxy, err := middleware.ParseProxyHeader(cfg.TrustedProxyHeader)
	must(log, err, "resolve trusted proxy header")

	server := api.NewServer(cfg, log, api.Guards{
		Verifier:     tokens,
		Sessions:     authService,
		Limiter:      limiter,
		Burst:        burst,
		Metrics:      appMetrics,
		TrustedProxy: trustedProxy,
	}, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService, limiter),
		Admin:      admin.NewHandler(adminService),
		Attendance: attendance.NewHandler(attendanceService),
		Dashboard:  dashboard.NewHandler(dashboardService),
	})

	// ── 7. Background Workers ─────────────────────────────────────────────
	go burst.Run(rootCtx)
	go runSessionCleanup(rootCtx, authService, log)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	rootCancel()

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// runSessionCleanup purges expired refresh sessions until ctx is cancelled.
func runSessionCleanup(ctx context.Context, service *auth.Service, log *slog.Logger) {
	ticker := time.NewTicker(constants.SessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := service.CleanupSessions(ctx)
			if err != nil {
				log.Error("session_cleanup_failed", slog.Any("error", err))
				continue
			}
			log.Info("session_cleanup_finished", slog.Int64("removed", removed))
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
