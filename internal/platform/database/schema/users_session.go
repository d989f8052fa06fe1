// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserSessionTable represents the 'users_sessions' table
type UserSessionTable struct {
	Table     string
	ID        string
	UserID    string
	TokenHash string
	IPAddress string
	UserAgent string
	ExpiresAt string
	RevokedAt string
	CreatedAt string
}

// UserSession is the schema definition for users_sessions
var UserSession = UserSessionTable{
	Table:     "users_sessions",
	ID:        "id",
	UserID:    "user_id",
	TokenHash: "token_hash",
	IPAddress: "ip_address",
	UserAgent: "user_agent",
	ExpiresAt: "expires_at",
	RevokedAt: "revoked_at",
	CreatedAt: "created_at",
}

// Columns returns all standard column names
func (t UserSessionTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.TokenHash, t.IPAddress, t.UserAgent, t.ExpiresAt, t.RevokedAt, t.CreatedAt,
	}
}
