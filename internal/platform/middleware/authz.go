// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/ctxutil"
	"github.com/ZewK3/hrportal/internal/platform/respond"
	"github.com/ZewK3/hrportal/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Defining TokenVerifier here decouples the middleware from the token service
// implementation, allowing mocks to be injected during unit testing.
type TokenVerifier interface {
	VerifyKind(token string, kind sec.TokenKind) (*sec.AuthClaims, error)
}

// SessionChecker reports whether the session named by an access token's jti
// has not been revoked.
type SessionChecker interface {
	SessionActive(ctx context.Context, sessionID string) (bool, error)
}

// Authenticate extracts and verifies the access token from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, verify it as an access token via [TokenVerifier].
//  4. When sessions is non-nil, reject tokens whose session has ended.
//  5. Inject [*sec.AuthClaims] and the raw token into the request context.
func Authenticate(verifier TokenVerifier, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, token, found := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !found || !strings.EqualFold(scheme, strings.TrimSpace(constants.BearerPrefix)) || token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyKind(token, sec.KindAccess)
			if err != nil {
				if errors.Is(err, sec.ErrTokenExpired) {
					respond.Error(writer, request, apperr.TokenExpired())
					return
				}
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Session Liveness ───────────────────────────────────────────
			if sessions != nil {
				active, err := sessions.SessionActive(request.Context(), claims.ID)
				if err != nil {
					respond.Error(writer, request, apperr.Internal(err))
					return
				}
				if !active {
					respond.Error(writer, request, apperr.Unauthorized("Session has been revoked"))
					return
				}
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			recordUser(writer, claims.UserID)
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithBearerToken(ctx, token)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// It implies [RequireAuth] so you don't need to mount both. Roles are
// hierarchical: admin satisfies a manager requirement.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !sec.UserRole(claims.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
