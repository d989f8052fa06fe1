// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/database/schema"
	"github.com/ZewK3/hrportal/internal/platform/postgres"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/users/auth"
	"github.com/ZewK3/hrportal/pkg/pagination"
)

// # Data Access

// Repository defines the account administration data contract.
type Repository interface {
	// List returns one page of non-deleted accounts, optionally filtered by status.
	List(context context.Context, status string, params pagination.Params) ([]*auth.User, int, error)

	// FindByID returns the non-deleted account with the given ID.
	FindByID(context context.Context, id string) (*auth.User, error)

	// Approve activates a pending account and marks its email verified.
	Approve(context context.Context, id string) error

	// UpdateRole replaces the account role.
	UpdateRole(context context.Context, id string, role sec.UserRole) error

	// UpdateStatus replaces the account status.
	UpdateStatus(context context.Context, id string, status auth.UserStatus) error
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List implements [Repository]. Results are ordered newest first.
func (repository *PostgresRepository) List(context context.Context, status string, params pagination.Params) ([]*auth.User, int, error) {
	where := fmt.Sprintf("%s <> '%s' AND ($1 = '' OR %s = $1)", schema.User.Status, auth.StatusDeleted, schema.User.Status)

	// 1. Total for the pagination block
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, schema.User.Table, where)
	if err := repository.db.QueryRow(context, countQuery, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_admin_repo_count_failed: %w", err)
	}

	// 2. Page
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		auth.UserColumns, schema.User.Table, where, schema.User.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, status, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_admin_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		user, err := auth.ScanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_admin_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_admin_repo_list_failed: %w", err)
	}

	return users, total, nil
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s <> '%s'`,
		auth.UserColumns, schema.User.Table, schema.User.ID, schema.User.Status, auth.StatusDeleted,
	)

	user, err := auth.ScanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_failed: %w", err)
	}
	return user, nil
}

// Approve implements [Repository].
func (repository *PostgresRepository) Approve(context context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = '%s', %s = TRUE, %s = NULL, %s = NOW()
		WHERE %s = $1 AND %s = '%s'`,
		schema.User.Table,
		schema.User.Status, auth.StatusActive, schema.User.EmailVerified, schema.User.VerificationToken, schema.User.UpdatedAt,
		schema.User.ID, schema.User.Status, auth.StatusPending,
	)
	return repository.update(context, "approve", query, id)
}

// UpdateRole implements [Repository].
func (repository *PostgresRepository) UpdateRole(context context.Context, id string, role sec.UserRole) error {
	return repository.set(context, "update_role", schema.User.Role, id, string(role))
}

// UpdateStatus implements [Repository].
func (repository *PostgresRepository) UpdateStatus(context context.Context, id string, status auth.UserStatus) error {
	return repository.set(context, "update_status", schema.User.Status, id, string(status))
}

func (repository *PostgresRepository) set(context context.Context, operation, column, id, value string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NOW()
		WHERE %s = $1 AND %s <> '%s'`,
		schema.User.Table,
		column, schema.User.UpdatedAt,
		schema.User.ID, schema.User.Status, auth.StatusDeleted,
	)
	return repository.update(context, operation, query, id, value)
}

func (repository *PostgresRepository) update(context context.Context, operation, query string, args ...any) error {
	tag, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return fmt.Errorf("postgres_admin_repo_%s_failed: %w", operation, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
