// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

It acts as a series of decorators around the standard http.Handler, injecting
traceability, safety, and security into every request lifecycle.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Log: Structured Activity logging (slog).
  - Guard: Burst limiting and CORS validation.
  - Safe: Panic recovery to prevent server crashes.

This package ensures that domain handlers can focus purely on business logic
without worrying about infrastructure-level concerns.
*/
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/ctxutil"
	"github.com/ZewK3/hrportal/internal/platform/respond"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Check if the client already provided an ID
			requestID := request.Header.Get(constants.HeaderXRequestID)

			// 2. Generate a new one if missing (using UUID v7 for time-sortable properties)
			if requestID == "" {
				uuidV7, err := uuid.NewV7()
				if err != nil {
					requestID = uuid.New().String()
				} else {
					requestID = uuidV7.String()
				}
			}

			// 3. Inject into context and response headers
			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
	userID string
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer to [http.ResponseController].
func (recorder *statusRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

// recordUser attaches the authenticated user id to the access log line,
// looking through any writers wrapped around the recorder.
func recordUser(writer http.ResponseWriter, userID string) {
	for writer != nil {
		if recorder, ok := writer.(*statusRecorder); ok {
			recorder.userID = userID
			return
		}
		unwrapper, ok := writer.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return
		}
		writer = unwrapper.Unwrap()
	}
}

// StructuredLogger logs every request status and performance metrics.
// It also injects a request-specific logger into the context.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()
			rid := ctxutil.GetRequestID(request.Context())
			ip := ctxutil.GetClientIP(request.Context())

			// 1. Create a sub-logger for this specific request
			requestLogger := logger.With(
				slog.String("request_id", rid),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", ip),
			)

			// 2. Inject this logger into the context for downstream use
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			// 3. Proceed to downstream handlers with the enriched context
			next.ServeHTTP(wrappedWriter, request.WithContext(ctx))

			// 4. Final log entry after the request is finished
			latency := time.Since(startTime).Milliseconds()
			logLevel := slog.LevelInfo

			if wrappedWriter.status >= 500 {
				logLevel = slog.LevelError
			} else if wrappedWriter.status >= 400 {
				logLevel = slog.LevelWarn
			}

			// Enlist final response metrics
			logAtters := []any{
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", latency),
				slog.String("user_agent", request.UserAgent()),
			}

			// Add user_id if the request is authenticated
			if wrappedWriter.userID != "" {
				logAtters = append(logAtters, slog.String("user_id", wrappedWriter.userID))
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished", logAtters...)
		})
	}
}

// # Burst Limiting

type burstClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// BurstLimiter is a process-local token bucket per client IP.
//
// It absorbs floods before they reach the shared fixed-window limiter and
// its counter store. Each replica keeps its own buckets.
type BurstLimiter struct {
	mu      sync.Mutex
	clients map[string]*burstClient
	rps     rate.Limit
	burst   int
}

// NewBurstLimiter creates a limiter allowing rps sustained requests per
// second per IP with the given burst capacity.
func NewBurstLimiter(rps float64, burst int) *BurstLimiter {
	return &BurstLimiter{
		clients: make(map[string]*burstClient),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

// Run evicts idle clients until ctx is cancelled.
func (limiter *BurstLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(constants.BurstCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			limiter.evictIdle(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

func (limiter *BurstLimiter) evictIdle(now time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for ip, client := range limiter.clients {
		if now.Sub(client.lastSeen) > constants.BurstClientTTL {
			delete(limiter.clients, ip)
		}
	}
}

// Allow reports whether one more request from ip fits in its bucket.
func (limiter *BurstLimiter) Allow(ip string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	client, found := limiter.clients[ip]
	if !found {
		client = &burstClient{limiter: rate.NewLimiter(limiter.rps, limiter.burst)}
		limiter.clients[ip] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

// Middleware rejects requests whose IP bucket is empty with 429.
func (limiter *BurstLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !limiter.Allow(ctxutil.GetClientIP(request.Context())) {
			respond.Error(writer, request, apperr.RateLimited(1))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs stack trace, and returns 500.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Defer a recovery function to catch any runtime exceptions
			defer func() {
				if err := recover(); err != nil {

					// Capture the runtime stack trace for diagnostics
					stackTrace := make([]byte, 2048)
					length := runtime.Stack(stackTrace, false)

					// Retrieve the request-specific logger from context if available
					reqLogger := ctxutil.GetLogger(request.Context())

					// Log the incident to our structured logging system
					reqLogger.ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", err),
						slog.String("stack", string(stackTrace[:length])),
					)

					// Return a safe, generic error to the client
					respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", err)))
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// CORS answers preflight requests and decorates responses for the browser
// client. A single "*" origin allows any site; bearer tokens are sent in the
// Authorization header, so credentials (cookies) are not enabled.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept", "Content-Type", constants.HeaderAuthorization, constants.HeaderXRequestID,
		},
		ExposedHeaders: []string{
			constants.HeaderXRequestID, constants.HeaderRetryAfter,
			constants.HeaderRateLimitLimit, constants.HeaderRateLimitRemaining, constants.HeaderRateLimitReset,
		},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// # Middleware Helpers

// ProxyHeader selects which forwarding header, if any, carries the caller
// address. Headers are only honoured when a proxy in front of the server
// overwrites them.
type ProxyHeader string

const (
	// ProxyNone ignores forwarding headers and uses the socket address.
	ProxyNone ProxyHeader = "none"

	// ProxyCloudflare reads CF-Connecting-IP.
	ProxyCloudflare ProxyHeader = "cf"

	// ProxyRealIP reads X-Real-IP.
	ProxyRealIP ProxyHeader = "realip"

	// ProxyForwardedFor reads the last X-Forwarded-For hop, the one appended
	// by the trusted proxy.
	ProxyForwardedFor ProxyHeader = "xff"
)

// ParseProxyHeader maps a configuration value to a [ProxyHeader].
// An empty value selects [ProxyNone].
func ParseProxyHeader(value string) (ProxyHeader, error) {
	switch header := ProxyHeader(strings.ToLower(strings.TrimSpace(value))); header {
	case "":
		return ProxyNone, nil
	case ProxyNone, ProxyCloudflare, ProxyRealIP, ProxyForwardedFor:
		return header, nil
	default:
		return "", fmt.Errorf("middleware_proxy_header: unknown value %q", value)
	}
}

// ClientIP resolves the caller address once and stores it in the context for
// the rate limiter, the login guard and audit entries.
func ClientIP(trusted ProxyHeader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := ctxutil.WithClientIP(request.Context(), RealIP(request, trusted))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RealIP extracts the client IP. Only the header named by trusted is read;
// a missing or unparsable value falls back to the socket address.
func RealIP(request *http.Request, trusted ProxyHeader) string {
	var candidate string

	switch trusted {
	case ProxyCloudflare:
		candidate = request.Header.Get(constants.HeaderCFConnectIP)
	case ProxyRealIP:
		candidate = request.Header.Get(constants.HeaderXRealIP)
	case ProxyForwardedFor:
		if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			candidate = hops[len(hops)-1]
		}
	}

	if ip := net.ParseIP(strings.TrimSpace(candidate)); ip != nil {
		return ip.String()
	}

	// Direct connection's address
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
