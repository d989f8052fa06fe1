// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ZewK3/hrportal/internal/attendance"
	"github.com/ZewK3/hrportal/internal/dashboard"
	"github.com/ZewK3/hrportal/internal/platform/config"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/metrics"
	"github.com/ZewK3/hrportal/internal/platform/middleware"
	"github.com/ZewK3/hrportal/internal/platform/telemetry"
	"github.com/ZewK3/hrportal/internal/security/ratelimit"
	"github.com/ZewK3/hrportal/internal/users/admin"
	"github.com/ZewK3/hrportal/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the session lifecycle (register, login, refresh, logout).
	Auth *auth.Handler

	// Admin manages accounts and login-guard releases.
	Admin *admin.Handler

	// Attendance handles check-in/check-out and attendance requests.
	Attendance *attendance.Handler

	// Dashboard serves the landing-page aggregates.
	Dashboard *dashboard.Handler
}

// Guards groups the shared request-level protections.
type Guards struct {
	Verifier middleware.TokenVerifier

	// Sessions rejects access tokens whose session was revoked. Nil skips
	// the lookup.
	Sessions middleware.SessionChecker

	Limiter *ratelimit.Limiter
	Burst   *middleware.BurstLimiter
	Metrics *metrics.Metrics

	// TrustedProxy selects the forwarding header that identifies the client.
	// The zero value uses the socket address.
	TrustedProxy middleware.ProxyHeader
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, guards Guards, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIP(guards.TrustedProxy))
	r.Use(middleware.StructuredLogger(log))
	r.Use(guards.Metrics.Middleware)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(guards.Burst.Middleware)
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", guards.Metrics.Handler())

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(guards.Limiter.Middleware(constants.RuleAPI))
		api.Use(middleware.Authenticate(guards.Verifier, guards.Sessions))

		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/admin", h.Admin.Routes())
		api.Mount("/attendance", h.Attendance.Routes())
		api.Mount("/dashboard", h.Dashboard.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           telemetry.Handler(r, "hrportal.http"),
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the fully assembled handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
