// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered identifiers used as primary keys.

Version 7 values sort by creation time, which keeps PostgreSQL B-tree indexes
append-mostly for users, sessions and audit rows.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// IsValid reports whether value parses as a UUID of any version.
func IsValid(value string) bool {
	return uuid.Validate(value) == nil
}
