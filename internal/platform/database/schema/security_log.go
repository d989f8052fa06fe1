// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SecurityLogTable represents the append-only 'security_logs' table
type SecurityLogTable struct {
	Table     string
	ID        string
	EventType string
	UserID    string
	IPAddress string
	Timestamp string
	Details   string
}

var SecurityLog = SecurityLogTable{
	Table:     "security_logs",
	ID:        "id",
	EventType: "event_type",
	UserID:    "user_id",
	IPAddress: "ip_address",
	Timestamp: "timestamp",
	Details:   "details",
}
