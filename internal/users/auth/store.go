// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
// Every lookup ignores accounts whose status is deleted.
type UserRepository interface {

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict when the email or employee id is taken
	*/
	Create(context context.Context, user *User) error

	// FindByID returns the account with the given ID.
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	FindByEmail(context context.Context, email string) (*User, error)

	// FindByVerificationToken returns the account holding the pending token.
	FindByVerificationToken(context context.Context, token string) (*User, error)

	// FindByResetToken returns the account whose unexpired reset token hashes to tokenHash.
	FindByResetToken(context context.Context, tokenHash string, now time.Time) (*User, error)

	// EmailExists reports whether a non-deleted account uses the email.
	EmailExists(context context.Context, email string) (bool, error)

	// EmployeeIDExists reports whether a non-deleted account uses the employee id.
	EmployeeIDExists(context context.Context, employeeID string) (bool, error)

	/*
		MarkVerified flags the email as verified, activates the account and
		drops the token. Only pending accounts are updated.

		Returns:
		  - error: apperr.NotFound when no pending account has the id
	*/
	MarkVerified(context context.Context, userID string) error

	// SetResetToken stores the hash of a reset token with its expiry.
	SetResetToken(context context.Context, userID, tokenHash string, expiresAt time.Time) error

	// UpdatePassword replaces the digest and clears any reset token.
	UpdatePassword(context context.Context, userID, passwordHash string) error

	// TouchLastLogin records a successful login time.
	TouchLastLogin(context context.Context, userID string, at time.Time) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {

	// Create persists a new session for an authenticated login.
	Create(context context.Context, session *Session) error

	/*
		FindActive returns the session with the given id when its token hash
		matches, it has not been revoked, and it has not expired at now.

		Returns:
		  - error: apperr.NotFound otherwise
	*/
	FindActive(context context.Context, id, tokenHash string, now time.Time) (*Session, error)

	// IsActive reports whether the session exists, is not revoked and has not expired at now.
	IsActive(context context.Context, id string, now time.Time) (bool, error)

	// Revoke invalidates one session. Revoking twice is not an error.
	Revoke(context context.Context, sessionID string) error

	// RevokeAll revokes every active session belonging to the user.
	RevokeAll(context context.Context, userID string) error

	// RevokeOthers revokes all of the user's sessions except keepID.
	RevokeOthers(context context.Context, userID, keepID string) error

	// DeleteExpired removes sessions that expired before now and returns how many.
	DeleteExpired(context context.Context, now time.Time) (int64, error)
}
