// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ZewK3/hrportal/internal/platform/database/schema"
	"github.com/ZewK3/hrportal/internal/platform/postgres"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	db postgres.DB
}

// NewPostgresStore creates the security_logs repository.
func NewPostgresStore(db postgres.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert implements [Store].
func (store *PostgresStore) Insert(context context.Context, entry *Entry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("audit_details_encode_failed: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.SecurityLog.Table,
		schema.SecurityLog.ID, schema.SecurityLog.EventType, schema.SecurityLog.UserID,
		schema.SecurityLog.IPAddress, schema.SecurityLog.Timestamp, schema.SecurityLog.Details,
	)

	if _, err := store.db.Exec(context, query,
		entry.ID, entry.EventType, entry.UserID, entry.IPAddress, entry.Timestamp, details,
	); err != nil {
		return fmt.Errorf("audit_insert_failed: %w", err)
	}
	return nil
}

// ListRecent implements [Store].
func (store *PostgresStore) ListRecent(context context.Context, userID string, limit int) ([]*Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE ($1 = '' OR %s::text = $1)
		ORDER BY %s DESC
		LIMIT $2`,
		schema.SecurityLog.ID, schema.SecurityLog.EventType, schema.SecurityLog.UserID,
		schema.SecurityLog.IPAddress, schema.SecurityLog.Timestamp, schema.SecurityLog.Details,
		schema.SecurityLog.Table,
		schema.SecurityLog.UserID,
		schema.SecurityLog.Timestamp,
	)

	rows, err := store.db.Query(context, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("audit_list_failed: %w", err)
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		entry := &Entry{}
		var details []byte
		if err := rows.Scan(&entry.ID, &entry.EventType, &entry.UserID, &entry.IPAddress, &entry.Timestamp, &details); err != nil {
			return nil, fmt.Errorf("audit_scan_failed: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("audit_details_decode_failed: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit_list_failed: %w", err)
	}
	return entries, nil
}
