// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserTable represents the 'users' table
type UserTable struct {
	Table                 string
	ID                    string
	Email                 string
	PasswordHash          string
	FirstName             string
	LastName              string
	Phone                 string
	Department            string
	Position              string
	EmployeeID            string
	Role                  string
	Status                string
	EmailVerified         string
	VerificationToken     string
	ResetTokenHash        string
	ResetTokenExpiresAt   string
	LastLogin             string
	CreatedAt             string
	UpdatedAt             string
	EmailUniqueIndex      string
	EmployeeIDUniqueIndex string
}

// User is the schema definition for users
var User = UserTable{
	Table:                 "users",
	ID:                    "id",
	Email:                 "email",
	PasswordHash:          "password_hash",
	FirstName:             "first_name",
	LastName:              "last_name",
	Phone:                 "phone",
	Department:            "department",
	Position:              "position",
	EmployeeID:            "employee_id",
	Role:                  "role",
	Status:                "status",
	EmailVerified:         "email_verified",
	VerificationToken:     "email_verification_token",
	ResetTokenHash:        "password_reset_token_hash",
	ResetTokenExpiresAt:   "password_reset_expires",
	LastLogin:             "last_login",
	CreatedAt:             "created_at",
	UpdatedAt:             "updated_at",
	EmailUniqueIndex:      "users_email_key",
	EmployeeIDUniqueIndex: "users_employee_id_key",
}

// Columns returns the projection used to hydrate a full user row.
func (t UserTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.PasswordHash, t.FirstName, t.LastName, t.Phone, t.Department,
		t.Position, t.EmployeeID, t.Role, t.Status, t.EmailVerified, t.LastLogin,
		t.CreatedAt, t.UpdatedAt,
	}
}
