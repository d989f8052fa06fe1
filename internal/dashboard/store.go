// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"context"
	"fmt"

	"github.com/ZewK3/hrportal/internal/platform/database/schema"
	"github.com/ZewK3/hrportal/internal/platform/postgres"
)

// UserCounts aggregates the non-deleted accounts by status.
type UserCounts struct {
	Total   int
	Active  int
	Pending int
}

// RequestCounts aggregates attendance requests by status.
type RequestCounts struct {
	Total    int
	Approved int
	Pending  int
}

// Repository reads the dashboard aggregates.
type Repository interface {
	// CountUsers counts accounts that are not logically deleted.
	CountUsers(ctx context.Context) (UserCounts, error)

	// CountRequests counts attendance requests. An empty userID counts every user's.
	CountRequests(ctx context.Context, userID string) (RequestCounts, error)
}

// PostgresRepository implements [Repository] with aggregate queries.
type PostgresRepository struct {
	db postgres.DB
}

// NewRepository constructs a new [PostgresRepository].
func NewRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CountUsers implements [Repository].
func (repository *PostgresRepository) CountUsers(context context.Context) (UserCounts, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE %s = 'active'),
			COUNT(*) FILTER (WHERE %s = 'pending')
		FROM %s
		WHERE %s <> 'deleted'`,
		schema.User.Status, schema.User.Status,
		schema.User.Table,
		schema.User.Status,
	)

	var counts UserCounts
	if err := repository.db.QueryRow(context, query).Scan(&counts.Total, &counts.Active, &counts.Pending); err != nil {
		return UserCounts{}, fmt.Errorf("postgres_dashboard_count_users_failed: %w", err)
	}
	return counts, nil
}

// CountRequests implements [Repository].
func (repository *PostgresRepository) CountRequests(context context.Context, userID string) (RequestCounts, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE %s = 'approved'),
			COUNT(*) FILTER (WHERE %s = 'pending')
		FROM %s
		WHERE ($1 = '' OR %s::text = $1)`,
		schema.AttendanceRequest.Status, schema.AttendanceRequest.Status,
		schema.AttendanceRequest.Table,
		schema.AttendanceRequest.UserID,
	)

	var counts RequestCounts
	if err := repository.db.QueryRow(context, query, userID).Scan(&counts.Total, &counts.Approved, &counts.Pending); err != nil {
		return RequestCounts{}, fmt.Errorf("postgres_dashboard_count_requests_failed: %w", err)
	}
	return counts, nil
}
