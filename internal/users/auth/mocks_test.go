// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ZewK3/hrportal/internal/platform/kv"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/security/loginguard"
	"github.com/ZewK3/hrportal/internal/users/auth"
)

// # Repository Mocks

type userRepoMock struct{ mock.Mock }

func userResult(args mock.Arguments) (*auth.User, error) {
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *userRepoMock) Create(ctx context.Context, user *auth.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, id string) (*auth.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return userResult(m.Called(ctx, email))
}

func (m *userRepoMock) FindByVerificationToken(ctx context.Context, token string) (*auth.User, error) {
	return userResult(m.Called(ctx, token))
}

func (m *userRepoMock) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*auth.User, error) {
	return userResult(m.Called(ctx, tokenHash, now))
}

func (m *userRepoMock) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *userRepoMock) EmployeeIDExists(ctx context.Context, employeeID string) (bool, error) {
	args := m.Called(ctx, employeeID)
	return args.Bool(0), args.Error(1)
}

func (m *userRepoMock) MarkVerified(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *userRepoMock) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, userID, tokenHash, expiresAt).Error(0)
}

func (m *userRepoMock) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

func (m *userRepoMock) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return m.Called(ctx, userID, at).Error(0)
}

type sessionRepoMock struct{ mock.Mock }

func (m *sessionRepoMock) Create(ctx context.Context, session *auth.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *sessionRepoMock) FindActive(ctx context.Context, id, tokenHash string, now time.Time) (*auth.Session, error) {
	args := m.Called(ctx, id, tokenHash, now)
	session, _ := args.Get(0).(*auth.Session)
	return session, args.Error(1)
}

func (m *sessionRepoMock) IsActive(ctx context.Context, id string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *sessionRepoMock) Revoke(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *sessionRepoMock) RevokeAll(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *sessionRepoMock) RevokeOthers(ctx context.Context, userID, keepID string) error {
	return m.Called(ctx, userID, keepID).Error(0)
}

func (m *sessionRepoMock) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// # Collaborator Fakes

type mailerMock struct{ mock.Mock }

func (m *mailerMock) SendVerification(ctx context.Context, to, name, token string) error {
	return m.Called(ctx, to, name, token).Error(0)
}

func (m *mailerMock) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return m.Called(ctx, to, name, token).Error(0)
}

type auditSpy struct{ events []string }

func (a *auditSpy) Record(_ context.Context, eventType, _ string, _ map[string]any) {
	a.events = append(a.events, eventType)
}

type outcomeSpy struct{ outcomes []string }

func (o *outcomeSpy) ObserveLogin(outcome string) {
	o.outcomes = append(o.outcomes, outcome)
}

// # Fixture

const testPassword = "Str0ng!Pass"

type fixture struct {
	now      time.Time
	users    *userRepoMock
	sessions *sessionRepoMock
	mailer   *mailerMock
	audit    *auditSpy
	outcomes *outcomeSpy
	tokens   *sec.TokenService
	guard    *loginguard.Guard
	service  *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		now:      time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		users:    &userRepoMock{},
		sessions: &sessionRepoMock{},
		mailer:   &mailerMock{},
		audit:    &auditSpy{},
		outcomes: &outcomeSpy{},
	}
	clock := func() time.Time { return f.now }

	tokens, err := sec.NewTokenService("test-secret-with-at-least-32-characters", "hrportal")
	require.NoError(t, err)
	f.tokens = tokens.WithClock(clock)
	f.guard = loginguard.New(kv.NewMemoryStore(), loginguard.DefaultPolicy).WithClock(clock)

	f.service = auth.NewService(f.users, f.sessions, f.tokens, f.guard, f.mailer, f.audit, f.outcomes, auth.Config{
		AccessTTL:   24 * time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
		RefreshTTL:  30 * 24 * time.Hour,
	}).WithClock(clock)

	return f
}

// newUser returns an account whose password is [testPassword].
func newUser(t *testing.T, status auth.UserStatus, verified bool) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(testPassword)
	require.NoError(t, err)

	return &auth.User{
		ID:            "0195a1c2-0000-7000-8000-000000000001",
		Email:         "alice@x.com",
		PasswordHash:  hash,
		FirstName:     "Alice",
		LastName:      "Nguyen",
		Role:          sec.RoleEmployee,
		Status:        status,
		EmailVerified: verified,
	}
}
