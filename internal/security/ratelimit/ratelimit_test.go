// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZewK3/hrportal/internal/platform/ctxutil"
	"github.com/ZewK3/hrportal/internal/platform/kv"
	"github.com/ZewK3/hrportal/internal/security/ratelimit"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type recordingObserver struct{ decisions []string }

func (o *recordingObserver) ObserveRateLimit(rule, decision string) {
	o.decisions = append(o.decisions, rule+":"+decision)
}

type brokenStore struct{ kv.Store }

func (brokenStore) Increment(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func newLimiter(store kv.Store, clock *fakeClock, observer ratelimit.Observer) *ratelimit.Limiter {
	rules := []ratelimit.Rule{
		{Name: "login", Limit: 5, Window: 15 * time.Minute},
		{Name: "register", Limit: 3, Window: time.Hour},
	}
	return ratelimit.New(store, rules, discard, observer).WithClock(clock.Now)
}

/*
TestLimiter_Check_WithinWindow verifies that exactly Limit requests pass and
the rest are denied with the window end as reset time.
*/
func TestLimiter_Check_WithinWindow(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 5, 9, 2, 0, 0, time.UTC)}
	limiter := newLimiter(kv.NewMemoryStore(), clock, nil)

	for i := 1; i <= 5; i++ {
		decision, err := limiter.Check(ctx, "1.2.3.4", "login")
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "request %d", i)
		assert.Equal(t, 5-i, decision.Remaining)
		assert.Equal(t, time.Date(2026, 1, 5, 9, 15, 0, 0, time.UTC), decision.ResetAt.UTC())
	}

	decision, err := limiter.Check(ctx, "1.2.3.4", "login")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.Equal(t, 780, decision.RetryAfter(clock.now))
}

/*
TestLimiter_Check_WindowReset verifies that a new window starts from zero.
*/
func TestLimiter_Check_WindowReset(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	limiter := newLimiter(kv.NewMemoryStore(), clock, nil)

	for range 3 {
		_, err := limiter.Check(ctx, "1.2.3.4", "register")
		require.NoError(t, err)
	}
	denied, _ := limiter.Check(ctx, "1.2.3.4", "register")
	assert.False(t, denied.Allowed)

	clock.now = clock.now.Add(time.Hour)

	decision, err := limiter.Check(ctx, "1.2.3.4", "register")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 2, decision.Remaining)
}

/*
TestLimiter_Check_Isolation verifies that clients and rules have separate counters.
*/
func TestLimiter_Check_Isolation(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	limiter := newLimiter(kv.NewMemoryStore(), clock, nil)

	for range 3 {
		_, _ = limiter.Check(ctx, "1.2.3.4", "register")
	}

	other, err := limiter.Check(ctx, "5.6.7.8", "register")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	login, err := limiter.Check(ctx, "1.2.3.4", "login")
	require.NoError(t, err)
	assert.True(t, login.Allowed)
}

/*
TestLimiter_Check_FailOpen verifies that a broken store allows the request.
*/
func TestLimiter_Check_FailOpen(t *testing.T) {
	observer := &recordingObserver{}
	clock := &fakeClock{now: time.Now()}
	limiter := newLimiter(brokenStore{}, clock, observer)

	decision, err := limiter.Check(context.Background(), "1.2.3.4", "login")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.True(t, decision.FailedOpen)
	assert.Equal(t, []string{"login:failed_open"}, observer.decisions)
}

func TestLimiter_Check_UnknownRule(t *testing.T) {
	limiter := newLimiter(kv.NewMemoryStore(), &fakeClock{now: time.Now()}, nil)

	_, err := limiter.Check(context.Background(), "1.2.3.4", "upload")
	assert.Error(t, err)
}

/*
TestLimiter_Middleware verifies headers and the 429 response.
*/
func TestLimiter_Middleware(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 5, 9, 59, 30, 0, time.UTC)}
	limiter := newLimiter(kv.NewMemoryStore(), clock, nil)

	handler := limiter.Middleware("register")(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
		request = request.WithContext(ctxutil.WithClientIP(request.Context(), "1.2.3.4"))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	for range 3 {
		recorder := send()
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "3", recorder.Header().Get("X-RateLimit-Limit"))
	}

	recorder := send()
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "30", recorder.Header().Get("Retry-After"))
	assert.Equal(t, "0", recorder.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, recorder.Body.String(), `"success":false`)
}
