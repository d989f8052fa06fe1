// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin implements account administration for managers and admins.

It covers approval of pending registrations, role and status changes, and
manual release of client IPs locked by the login-attempt guard. Every write
produces a security log entry.
*/
package admin

import (
	"context"
	"fmt"
	"net"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/users/auth"
	"github.com/ZewK3/hrportal/pkg/pagination"
)

// # Contracts

// SessionRevoker ends every session of an account.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

// GuardClearer releases a client IP from the login-attempt guard.
type GuardClearer interface {
	Clear(ctx context.Context, ip string) error
}

// Auditor writes security log entries.
type Auditor interface {
	Record(ctx context.Context, eventType, userID string, details map[string]any)
}

// # Service Layer

// Service orchestrates account administration.
type Service struct {
	repository Repository
	sessions   SessionRevoker
	guard      GuardClearer
	auditor    Auditor
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, sessions SessionRevoker, guard GuardClearer, auditor Auditor) *Service {
	return &Service{
		repository: repository,
		sessions:   sessions,
		guard:      guard,
		auditor:    auditor,
	}
}

// ListUsers returns one page of accounts. status may be empty for all.
func (service *Service) ListUsers(context context.Context, status string, params pagination.Params) ([]*auth.User, int, error) {
	if status != "" {
		if _, ok := auth.ParseStatus(status); !ok {
			return nil, 0, apperr.ValidationError("Unknown status filter")
		}
	}

	users, total, err := service.repository.List(context, status, params)
	if err != nil {
		return nil, 0, fmt.Errorf("admin_service_list_failed: %w", err)
	}
	return users, total, nil
}

/*
Approve activates a pending registration.

Returns:
  - *auth.User: The account after approval
  - error: NotFound, or ValidationError when the account is not pending
*/
func (service *Service) Approve(context context.Context, actor *sec.AuthClaims, id string) (*auth.User, error) {
	user, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if user.Status != auth.StatusPending {
		return nil, apperr.ValidationError("User is not pending approval")
	}

	if err := service.repository.Approve(context, id); err != nil {
		return nil, err
	}
	user.Status = auth.StatusActive
	user.EmailVerified = true

	service.auditor.Record(context, constants.EventUserApproved, actor.UserID, map[string]any{"targetUserId": id})
	return user, nil
}

// ChangeRole assigns a new role. Callers cannot change their own role.
func (service *Service) ChangeRole(context context.Context, actor *sec.AuthClaims, id, role string) (*auth.User, error) {
	newRole, ok := sec.ParseRole(role)
	if !ok {
		return nil, apperr.ValidationError("Role must be one of admin, manager, employee")
	}
	if actor.UserID == id {
		return nil, apperr.Forbidden("You cannot change your own role")
	}

	user, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.repository.UpdateRole(context, id, newRole); err != nil {
		return nil, err
	}

	service.auditor.Record(context, constants.EventRoleChanged, actor.UserID, map[string]any{
		"targetUserId": id,
		"from":         string(user.Role),
		"to":           string(newRole),
	})
	user.Role = newRole
	return user, nil
}

/*
ChangeStatus moves an account to active, suspended or deleted.

Managers cannot change admin accounts. Suspending or deleting an account
revokes all of its sessions; deletion is logical only.
*/
func (service *Service) ChangeStatus(context context.Context, actor *sec.AuthClaims, id, status string) (*auth.User, error) {
	newStatus, ok := auth.ParseStatus(status)
	if !ok || newStatus == auth.StatusPending {
		return nil, apperr.ValidationError("Status must be one of active, suspended, deleted")
	}
	if actor.UserID == id {
		return nil, apperr.Forbidden("You cannot change your own status")
	}

	user, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if user.Role == sec.RoleAdmin && sec.UserRole(actor.Role) != sec.RoleAdmin {
		return nil, apperr.Forbidden("Only admins can change admin accounts")
	}

	if err := service.repository.UpdateStatus(context, id, newStatus); err != nil {
		return nil, err
	}

	if newStatus != auth.StatusActive {
		if err := service.sessions.RevokeAll(context, id); err != nil {
			return nil, fmt.Errorf("admin_service_revoke_failed: %w", err)
		}
	}

	service.auditor.Record(context, constants.EventStatusChanged, actor.UserID, map[string]any{
		"targetUserId": id,
		"from":         string(user.Status),
		"to":           string(newStatus),
	})
	user.Status = newStatus
	return user, nil
}

// ClearLoginGuard unlocks a client IP.
func (service *Service) ClearLoginGuard(context context.Context, actor *sec.AuthClaims, ip string) error {
	if net.ParseIP(ip) == nil {
		return apperr.ValidationError("A valid IP address is required")
	}

	if err := service.guard.Clear(context, ip); err != nil {
		return fmt.Errorf("admin_service_clear_guard_failed: %w", err)
	}

	service.auditor.Record(context, constants.EventLoginGuardCleared, actor.UserID, map[string]any{"ip": ip})
	return nil
}
