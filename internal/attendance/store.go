// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/database/schema"
	"github.com/ZewK3/hrportal/internal/platform/dberr"
	"github.com/ZewK3/hrportal/internal/platform/postgres"
)

// # Data Access

// Repository defines the attendance data contract.
type Repository interface {
	// FindRecord returns the user's record for the given work date.
	FindRecord(context context.Context, userID string, date time.Time) (*Record, error)

	// CreateRecord inserts a check-in. A second record for the same day is a Conflict.
	CreateRecord(context context.Context, record *Record) error

	// CloseRecord stores the check-out of an open record.
	CloseRecord(context context.Context, record *Record) error

	// CreateRequest inserts a pending request.
	CreateRequest(context context.Context, request *Request) error

	// FindRequest returns one request.
	FindRequest(context context.Context, id string) (*Request, error)

	// ListRequests returns matching requests, newest first.
	ListRequests(context context.Context, filter RequestFilter) ([]*Request, error)

	// ReviewRequest moves a pending request to status. A request that is no
	// longer pending is a Conflict.
	ReviewRequest(context context.Context, id string, status RequestStatus, reviewerID string, at time.Time) error
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// attendanceRecordUserDateKey is the UNIQUE (user_id, work_date) constraint.
const attendanceRecordUserDateKey = "attendance_records_user_id_work_date_key"

// # Records

// FindRecord implements [Repository].
func (repository *PostgresRepository) FindRecord(context context.Context, userID string, date time.Time) (*Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2`,
		strings.Join(schema.AttendanceRecord.Columns(), ", "),
		schema.AttendanceRecord.Table,
		schema.AttendanceRecord.UserID, schema.AttendanceRecord.WorkDate,
	)

	record := &Record{}
	err := repository.db.QueryRow(context, query, userID, date).Scan(
		&record.ID,
		&record.UserID,
		&record.WorkDate,
		&record.ClockIn,
		&record.ClockOut,
		&record.ClockInLat,
		&record.ClockInLng,
		&record.ClockOutLat,
		&record.ClockOutLng,
		&record.Note,
		&record.TotalHours,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Attendance record")
		}
		return nil, fmt.Errorf("postgres_attendance_repo_find_record_failed: %w", err)
	}
	return record, nil
}

// CreateRecord implements [Repository].
func (repository *PostgresRepository) CreateRecord(context context.Context, record *Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.AttendanceRecord.Table,
		schema.AttendanceRecord.ID, schema.AttendanceRecord.UserID, schema.AttendanceRecord.WorkDate,
		schema.AttendanceRecord.ClockIn, schema.AttendanceRecord.ClockInLat, schema.AttendanceRecord.ClockInLng,
		schema.AttendanceRecord.Note, schema.AttendanceRecord.CreatedAt,
	)

	_, err := repository.db.Exec(context, query,
		record.ID,
		record.UserID,
		record.WorkDate,
		record.ClockIn,
		record.ClockInLat,
		record.ClockInLng,
		record.Note,
		record.CreatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err, attendanceRecordUserDateKey) {
			return apperr.Conflict("Attendance record already exists")
		}
		return fmt.Errorf("postgres_attendance_repo_create_record_failed: %w", err)
	}
	return nil
}

// CloseRecord implements [Repository].
func (repository *PostgresRepository) CloseRecord(context context.Context, record *Record) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1 AND %s IS NULL`,
		schema.AttendanceRecord.Table,
		schema.AttendanceRecord.ClockOut, schema.AttendanceRecord.ClockOutLat, schema.AttendanceRecord.ClockOutLng,
		schema.AttendanceRecord.Note, schema.AttendanceRecord.TotalHours,
		schema.AttendanceRecord.ID, schema.AttendanceRecord.ClockOut,
	)

	tag, err := repository.db.Exec(context, query,
		record.ID,
		record.ClockOut,
		record.ClockOutLat,
		record.ClockOutLng,
		record.Note,
		record.TotalHours,
	)
	if err != nil {
		return fmt.Errorf("postgres_attendance_repo_close_record_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Already checked out today")
	}
	return nil
}

// # Requests

// CreateRequest implements [Repository].
func (repository *PostgresRepository) CreateRequest(context context.Context, request *Request) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.AttendanceRequest.Table,
		schema.AttendanceRequest.ID, schema.AttendanceRequest.UserID, schema.AttendanceRequest.Type,
		schema.AttendanceRequest.RequestDate, schema.AttendanceRequest.Reason, schema.AttendanceRequest.Status,
		schema.AttendanceRequest.CreatedAt,
	)

	if _, err := repository.db.Exec(context, query,
		request.ID,
		request.UserID,
		string(request.Type),
		request.RequestDate,
		request.Reason,
		string(request.Status),
		request.CreatedAt,
	); err != nil {
		return fmt.Errorf("postgres_attendance_repo_create_request_failed: %w", err)
	}
	return nil
}

// FindRequest implements [Repository].
func (repository *PostgresRepository) FindRequest(context context.Context, id string) (*Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.AttendanceRequest.Columns(), ", "),
		schema.AttendanceRequest.Table,
		schema.AttendanceRequest.ID,
	)

	request, err := scanRequest(repository.db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Attendance request")
		}
		return nil, fmt.Errorf("postgres_attendance_repo_find_request_failed: %w", err)
	}
	return request, nil
}

// ListRequests implements [Repository].
func (repository *PostgresRepository) ListRequests(context context.Context, filter RequestFilter) ([]*Request, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE ($1 = '' OR %s::text = $1) AND ($2 = '' OR %s = $2)
		ORDER BY %s DESC`,
		strings.Join(schema.AttendanceRequest.Columns(), ", "),
		schema.AttendanceRequest.Table,
		schema.AttendanceRequest.UserID, schema.AttendanceRequest.Status,
		schema.AttendanceRequest.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, filter.UserID, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("postgres_attendance_repo_list_requests_failed: %w", err)
	}
	defer rows.Close()

	requests := []*Request{}
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_attendance_repo_scan_failed: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_attendance_repo_list_requests_failed: %w", err)
	}
	return requests, nil
}

// ReviewRequest implements [Repository].
func (repository *PostgresRepository) ReviewRequest(context context.Context, id string, status RequestStatus, reviewerID string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1 AND %s = '%s'`,
		schema.AttendanceRequest.Table,
		schema.AttendanceRequest.Status, schema.AttendanceRequest.ReviewedBy, schema.AttendanceRequest.ReviewedAt,
		schema.AttendanceRequest.ID, schema.AttendanceRequest.Status, RequestPending,
	)

	tag, err := repository.db.Exec(context, query, id, string(status), reviewerID, at)
	if err != nil {
		return fmt.Errorf("postgres_attendance_repo_review_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Request has already been reviewed")
	}
	return nil
}

func scanRequest(row pgx.Row) (*Request, error) {
	request := &Request{}
	var requestType, status string
	err := row.Scan(
		&request.ID,
		&request.UserID,
		&requestType,
		&request.RequestDate,
		&request.Reason,
		&status,
		&request.ReviewedBy,
		&request.ReviewedAt,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	request.Type = RequestType(requestType)
	request.Status = RequestStatus(status)
	return request, nil
}
