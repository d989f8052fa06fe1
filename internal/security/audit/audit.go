// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package audit records security events in the append-only security_logs table.

Writes are best effort. A failed insert is logged and swallowed so that an
audit outage never turns a successful login into an error.
*/
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/ZewK3/hrportal/internal/platform/ctxutil"
	"github.com/ZewK3/hrportal/pkg/uuid"
)

// Entry is one security event.
type Entry struct {
	ID        string         `json:"id"`
	EventType string         `json:"eventType"`
	UserID    *string        `json:"userId,omitempty"`
	IPAddress string         `json:"ipAddress"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// Store persists and lists entries.
type Store interface {
	// Insert appends one entry.
	Insert(ctx context.Context, entry *Entry) error

	// ListRecent returns the newest entries first. An empty userID lists
	// events for every user.
	ListRecent(ctx context.Context, userID string, limit int) ([]*Entry, error)
}

// Recorder is the write side used by services.
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder over store.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// Record appends an event for userID (empty for anonymous events). The client
// IP is taken from the request context.
func (r *Recorder) Record(ctx context.Context, eventType, userID string, details map[string]any) {
	entry := &Entry{
		ID:        uuid.New(),
		EventType: eventType,
		IPAddress: ctxutil.GetClientIP(ctx),
		Timestamp: r.now().UTC(),
		Details:   details,
	}
	if userID != "" {
		entry.UserID = &userID
	}

	if err := r.store.Insert(ctx, entry); err != nil {
		r.logger.WarnContext(ctx, "audit_write_failed",
			slog.String("event_type", eventType),
			slog.Any("error", err),
		)
	}
}

// Recent lists the newest entries, optionally for one user.
func (r *Recorder) Recent(ctx context.Context, userID string, limit int) ([]*Entry, error) {
	return r.store.ListRecent(ctx, userID, limit)
}
