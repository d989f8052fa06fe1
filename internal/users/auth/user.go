// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the account entity, its lifecycle

	pending (registered, unverified) -> active (email verified) -> suspended | deleted

and the refresh-token sessions owned by each account.
*/
package auth

import (
	"strings"
	"time"

	"github.com/ZewK3/hrportal/internal/platform/sec"
)

// # Domain Entities

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	StatusPending   UserStatus = "pending"
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
	StatusDeleted   UserStatus = "deleted"
)

// ParseStatus validates a status name coming from a request.
func ParseStatus(value string) (UserStatus, bool) {
	switch status := UserStatus(value); status {
	case StatusPending, StatusActive, StatusSuspended, StatusDeleted:
		return status, true
	default:
		return "", false
	}
}

// User represents an employee account of the portal.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Phone         string
	Department    string
	Position      string
	EmployeeID    *string
	Role          sec.UserRole
	Status        UserStatus
	EmailVerified bool
	LastLogin     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Only populated on insert; never read back into responses.
	VerificationToken *string
}

// FullName joins the first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsActive reports whether the account may hold sessions.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Session represents a persisted refresh-token session.
type Session struct {
	ID        string
	UserID    string
	TokenHash string // SHA-256 of the refresh token
	UserAgent string
	IPAddress string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// # Projections

// UserView is the sanitized projection returned to clients. It never carries
// the password digest or any one-time token.
type UserView struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	FullName      string     `json:"fullName"`
	Phone         string     `json:"phone,omitempty"`
	Department    string     `json:"department,omitempty"`
	Position      string     `json:"position,omitempty"`
	EmployeeID    *string    `json:"employeeId,omitempty"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"emailVerified"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// View builds the client-safe projection of the account.
func (u *User) View() *UserView {
	return &UserView{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		Phone:         u.Phone,
		Department:    u.Department,
		Position:      u.Position,
		EmployeeID:    u.EmployeeID,
		Role:          string(u.Role),
		Status:        string(u.Status),
		EmailVerified: u.EmailVerified,
		LastLogin:     u.LastLogin,
		CreatedAt:     u.CreatedAt,
	}
}

// # Field Identifiers

// Field names used in validation errors and JSON payloads.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmployeeID      = "employeeId"
	FieldPhone           = "phone"
	FieldToken           = "token"
	FieldRefreshToken    = "refreshToken"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)
