// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

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
	"github.com/ZewK3/hrportal/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db postgres.DB
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// UserColumns is the comma separated projection understood by [ScanUser].
var UserColumns = strings.Join(schema.User.Columns(), ", ")

// notDeleted filters out logically deleted accounts.
var notDeleted = fmt.Sprintf("%s <> '%s'", schema.User.Status, StatusDeleted)

// ScanUser hydrates a user from a row selected with [UserColumns].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var role, status string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Department,
		&user.Position,
		&user.EmployeeID,
		&role,
		&status,
		&user.EmailVerified,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = sec.UserRole(role)
	user.Status = UserStatus(status)
	return user, nil
}

/*
Create persists a new user record.

Unique violations on email or employee id are reported as [apperr.Conflict],
which closes the race left open by the service pre-checks.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		schema.User.Table,
		schema.User.ID, schema.User.Email, schema.User.PasswordHash, schema.User.FirstName,
		schema.User.LastName, schema.User.Phone, schema.User.Department, schema.User.Position,
		schema.User.EmployeeID, schema.User.Role, schema.User.Status, schema.User.EmailVerified,
		schema.User.VerificationToken, schema.User.CreatedAt, schema.User.UpdatedAt,
	)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Department,
		user.Position,
		user.EmployeeID,
		string(user.Role),
		string(user.Status),
		user.EmailVerified,
		user.VerificationToken,
		user.CreatedAt,
		user.UpdatedAt,
	)

	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, schema.User.EmailUniqueIndex):
		return apperr.Conflict("Email is already registered")
	case dberr.IsUniqueViolation(err, schema.User.EmployeeIDUniqueIndex):
		return apperr.Conflict("Employee ID is already in use")
	default:
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}
}

// FindByID implements [UserRepository].
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, "find_by_id", schema.User.ID+" = $1", id)
}

// FindByEmail implements [UserRepository]. Emails are compared case-insensitively.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "find_by_email", "LOWER("+schema.User.Email+") = LOWER($1)", email)
}

// FindByVerificationToken implements [UserRepository].
func (repository *PostgresUserRepository) FindByVerificationToken(context context.Context, token string) (*User, error) {
	return repository.findOne(context, "find_by_verification_token", schema.User.VerificationToken+" = $1", token)
}

// FindByResetToken implements [UserRepository].
func (repository *PostgresUserRepository) FindByResetToken(context context.Context, tokenHash string, now time.Time) (*User, error) {
	condition := fmt.Sprintf("%s = $1 AND %s > $2", schema.User.ResetTokenHash, schema.User.ResetTokenExpiresAt)
	return repository.findOne(context, "find_by_reset_token", condition, tokenHash, now)
}

func (repository *PostgresUserRepository) findOne(context context.Context, operation, condition string, args ...any) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s AND %s`,
		UserColumns, schema.User.Table, condition, notDeleted,
	)

	user, err := ScanUser(repository.db.QueryRow(context, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, err)
	}
	return user, nil
}

// EmailExists implements [UserRepository].
func (repository *PostgresUserRepository) EmailExists(context context.Context, email string) (bool, error) {
	return repository.exists(context, "email_exists", "LOWER("+schema.User.Email+") = LOWER($1)", email)
}

// EmployeeIDExists implements [UserRepository].
func (repository *PostgresUserRepository) EmployeeIDExists(context context.Context, employeeID string) (bool, error) {
	return repository.exists(context, "employee_id_exists", schema.User.EmployeeID+" = $1", employeeID)
}

func (repository *PostgresUserRepository) exists(context context.Context, operation, condition string, arg any) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s AND %s)`, schema.User.Table, condition, notDeleted)

	var found bool
	if err := repository.db.QueryRow(context, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, err)
	}
	return found, nil
}

// MarkVerified implements [UserRepository].
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = TRUE, %s = '%s', %s = NULL, %s = NOW()
		WHERE %s = $1 AND %s = '%s'`,
		schema.User.Table,
		schema.User.EmailVerified, schema.User.Status, StatusActive, schema.User.VerificationToken, schema.User.UpdatedAt,
		schema.User.ID, schema.User.Status, StatusPending,
	)
	return repository.update(context, "mark_verified", query, userID)
}

// SetResetToken implements [UserRepository].
func (repository *PostgresUserRepository) SetResetToken(context context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1`,
		schema.User.Table,
		schema.User.ResetTokenHash, schema.User.ResetTokenExpiresAt, schema.User.UpdatedAt,
		schema.User.ID,
	)
	return repository.update(context, "set_reset_token", query, userID, tokenHash, expiresAt)
}

// UpdatePassword implements [UserRepository].
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, passwordHash string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NULL, %s = NULL, %s = NOW()
		WHERE %s = $1`,
		schema.User.Table,
		schema.User.PasswordHash, schema.User.ResetTokenHash, schema.User.ResetTokenExpiresAt, schema.User.UpdatedAt,
		schema.User.ID,
	)
	return repository.update(context, "update_password", query, userID, passwordHash)
}

// TouchLastLogin implements [UserRepository].
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, userID string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $2
		WHERE %s = $1`,
		schema.User.Table,
		schema.User.LastLogin, schema.User.UpdatedAt,
		schema.User.ID,
	)
	return repository.update(context, "touch_last_login", query, userID, at)
}

func (repository *PostgresUserRepository) update(context context.Context, operation, query string, args ...any) error {
	tag, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// # Session Repository

// PostgresSessionRepository implements [SessionRepository] using pgx.
type PostgresSessionRepository struct {
	db postgres.DB
}

// NewSessionRepository creates a new PostgreSQL implementation of the SessionRepository.
func NewSessionRepository(db postgres.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// Create implements [SessionRepository].
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.UserSession.Table,
		schema.UserSession.ID, schema.UserSession.UserID, schema.UserSession.TokenHash,
		schema.UserSession.IPAddress, schema.UserSession.UserAgent, schema.UserSession.ExpiresAt,
		schema.UserSession.CreatedAt,
	)

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	if _, err := repository.db.Exec(context, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.IPAddress,
		session.UserAgent,
		session.ExpiresAt,
		session.CreatedAt,
	); err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}
	return nil
}

// FindActive implements [SessionRepository].
func (repository *PostgresSessionRepository) FindActive(context context.Context, id, tokenHash string, now time.Time) (*Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s IS NULL AND %s > $3`,
		strings.Join(schema.UserSession.Columns(), ", "),
		schema.UserSession.Table,
		schema.UserSession.ID, schema.UserSession.TokenHash, schema.UserSession.RevokedAt, schema.UserSession.ExpiresAt,
	)

	session := &Session{}
	err := repository.db.QueryRow(context, query, id, tokenHash, now).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.IPAddress,
		&session.UserAgent,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}
	return session, nil
}

// IsActive implements [SessionRepository].
func (repository *PostgresSessionRepository) IsActive(context context.Context, id string, now time.Time) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s IS NULL AND %s > $2)`,
		schema.UserSession.Table, schema.UserSession.ID, schema.UserSession.RevokedAt, schema.UserSession.ExpiresAt)

	var active bool
	if err := repository.db.QueryRow(context, query, id, now).Scan(&active); err != nil {
		return false, fmt.Errorf("postgres_session_repo_is_active_failed: %w", err)
	}
	return active, nil
}

// Revoke implements [SessionRepository].
func (repository *PostgresSessionRepository) Revoke(context context.Context, sessionID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.UserSession.Table, schema.UserSession.RevokedAt, schema.UserSession.ID, schema.UserSession.RevokedAt)

	if _, err := repository.db.Exec(context, query, sessionID); err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_failed: %w", err)
	}
	return nil
}

// RevokeAll implements [SessionRepository].
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.UserSession.Table, schema.UserSession.RevokedAt, schema.UserSession.UserID, schema.UserSession.RevokedAt)

	if _, err := repository.db.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}
	return nil
}

// RevokeOthers implements [SessionRepository].
func (repository *PostgresSessionRepository) RevokeOthers(context context.Context, userID, keepID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s <> $2 AND %s IS NULL`,
		schema.UserSession.Table, schema.UserSession.RevokedAt, schema.UserSession.UserID,
		schema.UserSession.ID, schema.UserSession.RevokedAt)

	if _, err := repository.db.Exec(context, query, userID, keepID); err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_others_failed: %w", err)
	}
	return nil
}

// DeleteExpired implements [SessionRepository].
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context, now time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s < $1`, schema.UserSession.Table, schema.UserSession.ExpiresAt)

	tag, err := repository.db.Exec(context, query, now)
	if err != nil {
		return 0, fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err)
	}
	return tag.RowsAffected(), nil
}
