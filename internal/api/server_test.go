// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZewK3/hrportal/internal/api"
	"github.com/ZewK3/hrportal/internal/attendance"
	"github.com/ZewK3/hrportal/internal/dashboard"
	"github.com/ZewK3/hrportal/internal/platform/config"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/kv"
	"github.com/ZewK3/hrportal/internal/platform/metrics"
	"github.com/ZewK3/hrportal/internal/platform/middleware"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/security/ratelimit"
	"github.com/ZewK3/hrportal/internal/users/admin"
	"github.com/ZewK3/hrportal/internal/users/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T, apiLimit int) http.Handler {
	t.Helper()

	tokens, err := sec.NewTokenService(testSecret, "hrportal-test")
	require.NoError(t, err)

	m := metrics.New()
	limiter := ratelimit.New(kv.NewMemoryStore(), []ratelimit.Rule{
		{Name: constants.RuleAPI, Limit: apiLimit, Window: time.Hour},
		{Name: constants.RuleLogin, Limit: 5, Window: 15 * time.Minute},
		{Name: constants.RuleRegister, Limit: 3, Window: time.Hour},
	}, discard, m)

	liveness, readiness := api.NewHealthHandlers(nil, discard)
	cfg := &config.Config{ServerPort: "0", CORSAllowedOrigins: []string{"*"}}

	server := api.NewServer(cfg, discard, api.Guards{
		Verifier: tokens,
		Limiter:  limiter,
		Burst:    middleware.NewBurstLimiter(1000, 1000),
		Metrics:  m,
	}, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(auth.NewService(nil, nil, tokens, nil, nil, nil, nil, auth.Config{}), limiter),
		Admin:      admin.NewHandler(admin.NewService(nil, nil, nil, nil)),
		Attendance: attendance.NewHandler(attendance.NewService(nil, nil)),
		Dashboard:  dashboard.NewHandler(dashboard.NewService(nil, nil)),
	})
	return server.Handler()
}

/*
TestServer_Probes verifies the infrastructure endpoints bypass the API limiter.
*/
func TestServer_Probes(t *testing.T) {
	handler := newTestServer(t, 1)

	for range 3 {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, strings.Contains(recorder.Body.String(), "http_requests_total"))
}

/*
TestServer_ProtectedRoutes verifies anonymous callers are rejected and that a
malformed bearer header never reaches the handlers.
*/
func TestServer_ProtectedRoutes(t *testing.T) {
	handler := newTestServer(t, 100)

	for _, path := range []string{"/api/v1/dashboard/stats", "/api/v1/attendance/today", "/api/v1/auth/me", "/api/v1/admin/users"} {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, path)
	}

	request := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	request.Header.Set(constants.HeaderAuthorization, "Token abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestServer_APIRateLimit verifies the global rule answers 429 with Retry-After.
*/
func TestServer_APIRateLimit(t *testing.T) {
	handler := newTestServer(t, 2)

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
		request.RemoteAddr = "203.0.113.7:5555"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, request)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
	assert.NotEmpty(t, last.Header().Get(constants.HeaderRetryAfter))
	assert.Contains(t, last.Body.String(), `"code":"RATE_LIMITED"`)
}
