// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Full system access, including role changes
	RoleAdmin UserRole = "admin"

	// Approves accounts and attendance requests
	RoleManager UserRole = "manager"

	// Default role for registered staff
	RoleEmployee UserRole = "employee"
)

// ParseRole validates a role name coming from a request or a token.
func ParseRole(value string) (UserRole, bool) {
	role := UserRole(value)
	return role, role.level() > 0
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleManager:
		return 20
	case RoleEmployee:
		return 10
	default:
		return 0
	}
}
