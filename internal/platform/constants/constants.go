// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, header names, key prefixes and audit event names
that are shared between different layers of the system.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "hrportal-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// SessionCleanupInterval is how often expired refresh sessions are purged.
	SessionCleanupInterval = 1 * time.Hour
)

// # Burst Limiting

const (
	// BurstCleanupInterval is how often idle IP entries are removed from memory.
	BurstCleanupInterval = 1 * time.Minute

	// BurstClientTTL is how long a client must be idle before its entry is deleted.
	BurstClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderAuthorization = "Authorization"
	HeaderRetryAfter    = "Retry-After"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
	HeaderCFConnectIP   = "CF-Connecting-IP"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"

	BearerPrefix = "Bearer "
)

// # JSON Field Identifiers

const (
	FieldSuccess = "success"
	FieldData    = "data"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Key-Value Prefixes

const (
	KVPrefixRateLimit     = "ratelimit:"
	KVPrefixLoginAttempts = "login_attempts:"
)

// # Rate Limit Rules

const (
	RuleLogin    = "login"
	RuleRegister = "register"
	RuleAPI      = "api"
)

// # Audit Events

const (
	EventRegister               = "register"
	EventLoginSuccess           = "login_success"
	EventLoginFailed            = "login_failed"
	EventLoginBlocked           = "login_blocked"
	EventLogout                 = "logout"
	EventTokenRefreshed         = "token_refreshed"
	EventEmailVerified          = "email_verified"
	EventPasswordResetRequested = "password_reset_requested"
	EventPasswordReset          = "password_reset"
	EventPasswordChanged        = "password_changed"
	EventUserApproved           = "user_approved"
	EventRoleChanged            = "role_changed"
	EventStatusChanged          = "status_changed"
	EventLoginGuardCleared      = "login_guard_cleared"
	EventAttendanceRequest      = "attendance_request"
	EventAttendanceReviewed     = "attendance_request_reviewed"
)
