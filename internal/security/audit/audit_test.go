// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZewK3/hrportal/internal/platform/ctxutil"
	"github.com/ZewK3/hrportal/internal/security/audit"
)

/*
TestRecorder_Record verifies the stored row and that the client IP comes from
the request context.
*/
func TestRecorder_Record(t *testing.T) {
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer db.Close()

	db.ExpectExec("INSERT INTO security_logs").
		WithArgs(pgxmock.AnyArg(), "login_success", pgxmock.AnyArg(), "1.2.3.4", pgxmock.AnyArg(), []byte(`{"rememberMe":true}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	var logs bytes.Buffer
	recorder := audit.NewRecorder(audit.NewPostgresStore(db), slog.New(slog.NewJSONHandler(&logs, nil)))

	ctx := ctxutil.WithClientIP(context.Background(), "1.2.3.4")
	recorder.Record(ctx, "login_success", "user-1", map[string]any{"rememberMe": true})

	assert.NoError(t, db.ExpectationsWereMet())
	assert.Empty(t, logs.String())
}

/*
TestRecorder_Record_Failure verifies that a failed insert is logged, not returned.
*/
func TestRecorder_Record_Failure(t *testing.T) {
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer db.Close()

	db.ExpectExec("INSERT INTO security_logs").
		WithArgs(pgxmock.AnyArg(), "logout", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	var logs bytes.Buffer
	recorder := audit.NewRecorder(audit.NewPostgresStore(db), slog.New(slog.NewJSONHandler(&logs, nil)))
	recorder.Record(context.Background(), "logout", "", nil)

	assert.Contains(t, logs.String(), "audit_write_failed")
	assert.NoError(t, db.ExpectationsWereMet())
}

/*
TestPostgresStore_ListRecent verifies scanning including JSON details.
*/
func TestPostgresStore_ListRecent(t *testing.T) {
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer db.Close()

	userID := "user-1"
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "event_type", "user_id", "ip_address", "timestamp", "details"}).
		AddRow("e2", "logout", &userID, "1.2.3.4", at.Add(time.Minute), []byte(`null`)).
		AddRow("e1", "login_success", &userID, "1.2.3.4", at, []byte(`{"rememberMe":false}`))

	db.ExpectQuery("SELECT (.+) FROM security_logs").WithArgs("user-1", 10).WillReturnRows(rows)

	entries, err := audit.NewPostgresStore(db).ListRecent(context.Background(), "user-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "logout", entries[0].EventType)
	assert.Equal(t, false, entries[1].Details["rememberMe"])
	assert.NoError(t, db.ExpectationsWereMet())
}
