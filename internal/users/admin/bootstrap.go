// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/platform/validate"
	"github.com/ZewK3/hrportal/internal/users/auth"
	"github.com/ZewK3/hrportal/pkg/normalize"
	"github.com/ZewK3/hrportal/pkg/uuid"
)

// AccountCreator is the slice of the user store needed to seed accounts.
type AccountCreator interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *auth.User) error
}

// AdminInput describes the first administrator of an installation.
type AdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

/*
CreateAdmin seeds an active, verified administrator account.

It is meant for operators (the hrctl CLI) and bypasses the registration and
approval flow. The password still has to satisfy the strength policy.
*/
func CreateAdmin(context context.Context, users AccountCreator, input AdminInput, now time.Time) (*auth.User, error) {
	input.Email = normalize.Email(input.Email)
	input.FirstName = normalize.Name(input.FirstName)
	input.LastName = normalize.Name(input.LastName)

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldPassword, input.Password).
		StrongPassword(auth.FieldPassword, input.Password).
		Required(auth.FieldFirstName, input.FirstName).
		Required(auth.FieldLastName, input.LastName)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	taken, err := users.EmailExists(context, input.Email)
	if err != nil {
		return nil, fmt.Errorf("admin_bootstrap_email_check_failed: %w", err)
	}
	if taken {
		return nil, apperr.Conflict("Email is already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("admin_bootstrap_hash_failed: %w", err)
	}

	user := &auth.User{
		ID:            uuid.New(),
		Email:         input.Email,
		PasswordHash:  hashedPassword,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Role:          sec.RoleAdmin,
		Status:        auth.StatusActive,
		EmailVerified: true,
		CreatedAt:     now.UTC(),
	}

	if err := users.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("admin_bootstrap_create_failed: %w", err)
	}
	return user, nil
}
