// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/ctxutil"
	"github.com/ZewK3/hrportal/internal/platform/kv"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/security/loginguard"
	"github.com/ZewK3/hrportal/internal/users/admin"
	"github.com/ZewK3/hrportal/internal/users/auth"
	"github.com/ZewK3/hrportal/pkg/pagination"
)

const targetID = "0195a1c2-0000-7000-8000-000000000002"

type repositoryMock struct{ mock.Mock }

func (m *repositoryMock) List(ctx context.Context, status string, params pagination.Params) ([]*auth.User, int, error) {
	args := m.Called(ctx, status, params)
	users, _ := args.Get(0).([]*auth.User)
	return users, args.Int(1), args.Error(2)
}

func (m *repositoryMock) FindByID(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *repositoryMock) Approve(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *repositoryMock) UpdateRole(ctx context.Context, id string, role sec.UserRole) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *repositoryMock) UpdateStatus(ctx context.Context, id string, status auth.UserStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type revokerMock struct{ mock.Mock }

func (m *revokerMock) RevokeAll(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type auditSpy struct{ events []string }

func (a *auditSpy) Record(_ context.Context, eventType, _ string, _ map[string]any) {
	a.events = append(a.events, eventType)
}

type fixture struct {
	repository *repositoryMock
	sessions   *revokerMock
	guard      *loginguard.Guard
	audit      *auditSpy
	service    *admin.Service
}

func newFixture() *fixture {
	f := &fixture{
		repository: &repositoryMock{},
		sessions:   &revokerMock{},
		guard:      loginguard.New(kv.NewMemoryStore(), loginguard.DefaultPolicy),
		audit:      &auditSpy{},
	}
	f.service = admin.NewService(f.repository, f.sessions, f.guard, f.audit)
	return f
}

var (
	adminActor   = &sec.AuthClaims{UserID: "admin-1", Role: string(sec.RoleAdmin)}
	managerActor = &sec.AuthClaims{UserID: "manager-1", Role: string(sec.RoleManager)}
)

/*
TestService_Approve verifies that only pending accounts can be approved.
*/
func TestService_Approve(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repository.On("FindByID", mock.Anything, targetID).Return(&auth.User{ID: targetID, Status: auth.StatusPending}, nil).Once()
	f.repository.On("Approve", mock.Anything, targetID).Return(nil)

	user, err := f.service.Approve(ctx, managerActor, targetID)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusActive, user.Status)
	assert.True(t, user.EmailVerified)
	assert.Equal(t, []string{"user_approved"}, f.audit.events)

	f.repository.On("FindByID", mock.Anything, targetID).Return(&auth.User{ID: targetID, Status: auth.StatusActive}, nil)
	_, err = f.service.Approve(ctx, managerActor, targetID)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

/*
TestService_ChangeStatus covers revocation, the manager restriction and self changes.
*/
func TestService_ChangeStatus(t *testing.T) {
	t.Run("suspend revokes sessions", func(t *testing.T) {
		f := newFixture()
		f.repository.On("FindByID", mock.Anything, targetID).Return(&auth.User{ID: targetID, Role: sec.RoleEmployee, Status: auth.StatusActive}, nil)
		f.repository.On("UpdateStatus", mock.Anything, targetID, auth.StatusSuspended).Return(nil)
		f.sessions.On("RevokeAll", mock.Anything, targetID).Return(nil)

		user, err := f.service.ChangeStatus(context.Background(), managerActor, targetID, "suspended")
		require.NoError(t, err)
		assert.Equal(t, auth.StatusSuspended, user.Status)
		f.sessions.AssertExpectations(t)
	})

	t.Run("manager cannot touch admin", func(t *testing.T) {
		f := newFixture()
		f.repository.On("FindByID", mock.Anything, targetID).Return(&auth.User{ID: targetID, Role: sec.RoleAdmin, Status: auth.StatusActive}, nil)

		_, err := f.service.ChangeStatus(context.Background(), managerActor, targetID, "deleted")
		assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)
		f.repository.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid and self", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.ChangeStatus(context.Background(), adminActor, targetID, "pending")
		assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)

		_, err = f.service.ChangeStatus(context.Background(), adminActor, adminActor.UserID, "suspended")
		assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)
	})
}

/*
TestService_ClearLoginGuard verifies that a locked IP is released.
*/
func TestService_ClearLoginGuard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.guard.RecordFailure(ctx, "1.2.3.4")
		require.NoError(t, err)
	}
	status, err := f.guard.Status(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, status.Blocked)

	require.NoError(t, f.service.ClearLoginGuard(ctx, adminActor, "1.2.3.4"))

	status, err = f.guard.Status(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, status.Blocked)
	assert.Equal(t, []string{"login_guard_cleared"}, f.audit.events)

	err = f.service.ClearLoginGuard(ctx, adminActor, "not-an-ip")
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

/*
TestHandler_RoleGates verifies that role changes are admin only.
*/
func TestHandler_RoleGates(t *testing.T) {
	f := newFixture()
	f.repository.On("FindByID", mock.Anything, targetID).Return(&auth.User{ID: targetID, Role: sec.RoleEmployee, Status: auth.StatusActive}, nil)
	f.repository.On("UpdateRole", mock.Anything, targetID, sec.RoleManager).Return(nil)
	router := admin.NewHandler(f.service).Routes()

	tests := []struct {
		name   string
		actor  *sec.AuthClaims
		status int
	}{
		{"employee", &sec.AuthClaims{UserID: "e1", Role: string(sec.RoleEmployee)}, http.StatusForbidden},
		{"manager", managerActor, http.StatusForbidden},
		{"admin", adminActor, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPut, "/users/"+targetID+"/role", strings.NewReader(`{"role":"manager"}`))
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), tt.actor))
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestRepository_List verifies the count query, paging arguments and hydration.
*/
func TestRepository_List(t *testing.T) {
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer db.Close()

	db.ExpectQuery("SELECT COUNT").WithArgs("pending").WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(21))
	db.ExpectQuery("SELECT (.+) FROM users").WithArgs("pending", 20, 20).WillReturnRows(pgxmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "phone", "department",
		"position", "employee_id", "role", "status", "email_verified", "last_login",
		"created_at", "updated_at",
	}))

	users, total, err := admin.NewRepository(db).List(context.Background(), "pending", pagination.Params{Page: 2, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	assert.Empty(t, users)
	assert.NoError(t, db.ExpectationsWereMet())

	body, err := json.Marshal(users)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}
