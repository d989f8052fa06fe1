// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/users/auth"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

// anyArgs matches n bound parameters of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name", "phone", "department",
	"position", "employee_id", "role", "status", "email_verified", "last_login",
	"created_at", "updated_at",
}

/*
TestUserRepository_Create_Conflicts verifies that unique violations are
reported per constraint.
*/
func TestUserRepository_Create_Conflicts(t *testing.T) {
	tests := []struct {
		constraint string
		message    string
	}{
		{"users_email_key", "Email is already registered"},
		{"users_employee_id_key", "Employee ID is already in use"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			db := newMockPool(t)
			db.ExpectExec("INSERT INTO users").
				WithArgs(anyArgs(15)...).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			err := auth.NewUserRepository(db).Create(context.Background(), &auth.User{ID: "u1", Role: sec.RoleEmployee, Status: auth.StatusPending})
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
			assert.Equal(t, tt.message, appErr.Message)
			assert.NoError(t, db.ExpectationsWereMet())
		})
	}
}

/*
TestUserRepository_FindByEmail verifies hydration and the not-found mapping.
*/
func TestUserRepository_FindByEmail(t *testing.T) {
	db := newMockPool(t)
	repository := auth.NewUserRepository(db)
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(userColumns).AddRow(
		"u1", "alice@x.com", "digest", "Alice", "Nguyen", "", "HR", "Clerk",
		(*string)(nil), "manager", "active", true, (*time.Time)(nil), created, created,
	)
	db.ExpectQuery("SELECT (.+) FROM users").WithArgs("alice@x.com").WillReturnRows(rows)
	db.ExpectQuery("SELECT (.+) FROM users").WithArgs("ghost@x.com").WillReturnError(pgx.ErrNoRows)

	user, err := repository.FindByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, sec.RoleManager, user.Role)
	assert.Equal(t, auth.StatusActive, user.Status)
	assert.True(t, user.EmailVerified)
	assert.Nil(t, user.EmployeeID)
	assert.Equal(t, "Alice Nguyen", user.FullName())

	_, err = repository.FindByEmail(context.Background(), "ghost@x.com")
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, db.ExpectationsWereMet())
}

/*
TestUserRepository_MarkVerified_NotPending verifies that only pending accounts
are activated and that updating no row is NotFound.
*/
func TestUserRepository_MarkVerified_NotPending(t *testing.T) {
	db := newMockPool(t)
	db.ExpectExec(`UPDATE users\s+SET .+\s+WHERE id = \$1 AND status = 'pending'`).
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := auth.NewUserRepository(db).MarkVerified(context.Background(), "u1")
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, db.ExpectationsWereMet())
}

/*
TestSessionRepository_FindActive verifies the lookup arguments and not-found mapping.
*/
func TestSessionRepository_FindActive(t *testing.T) {
	db := newMockPool(t)
	repository := auth.NewSessionRepository(db)
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "user_id", "token_hash", "ip_address", "user_agent", "expires_at", "revoked_at", "created_at"}).
		AddRow("s1", "u1", "hash", "1.2.3.4", "curl", now.Add(time.Hour), (*time.Time)(nil), now)
	db.ExpectQuery("SELECT (.+) FROM users_sessions").WithArgs("s1", "hash", now).WillReturnRows(rows)
	db.ExpectQuery("SELECT (.+) FROM users_sessions").WithArgs("s2", "hash", now).WillReturnError(pgx.ErrNoRows)

	session, err := repository.FindActive(context.Background(), "s1", "hash", now)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Nil(t, session.RevokedAt)

	_, err = repository.FindActive(context.Background(), "s2", "hash", now)
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, db.ExpectationsWereMet())
}

/*
TestSessionRepository_IsActive verifies the liveness query arguments.
*/
func TestSessionRepository_IsActive(t *testing.T) {
	db := newMockPool(t)
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	db.ExpectQuery(`SELECT EXISTS .+ FROM users_sessions WHERE id = \$1 AND revoked_at IS NULL AND expires_at > \$2`).
		WithArgs("s1", now).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	active, err := auth.NewSessionRepository(db).IsActive(context.Background(), "s1", now)
	require.NoError(t, err)
	assert.False(t, active)
	assert.NoError(t, db.ExpectationsWereMet())
}

/*
TestSessionRepository_DeleteExpired verifies the affected row count is returned.
*/
func TestSessionRepository_DeleteExpired(t *testing.T) {
	db := newMockPool(t)
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	db.ExpectExec("DELETE FROM users_sessions").WithArgs(now).WillReturnResult(pgxmock.NewResult("DELETE", 4))

	removed, err := auth.NewSessionRepository(db).DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)
}
