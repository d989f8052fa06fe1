// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/ctxutil"
	"github.com/ZewK3/hrportal/internal/platform/respond"
)

// Middleware applies ruleName to every request, keyed by client IP.
//
// Allowed responses carry X-RateLimit-* headers; denied ones get a 429 with
// Retry-After set to the seconds left in the window.
func (l *Limiter) Middleware(ruleName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			decision, err := l.Check(ctx, ctxutil.GetClientIP(ctx), ruleName)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			header := writer.Header()
			header.Set(constants.HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
			header.Set(constants.HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
			header.Set(constants.HeaderRateLimitReset, strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed {
				ctxutil.GetLogger(ctx).WarnContext(ctx, "ratelimit_exceeded", slog.String("rule", ruleName))
				respond.Error(writer, request, apperr.RateLimited(decision.RetryAfter(l.now())))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
