// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dashboard serves the landing-page aggregates.

Managers and admins see organisation-wide figures. Employees see figures about
their own attendance requests only.
*/
package dashboard

import (
	"context"
	"fmt"

	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/security/audit"
	"github.com/ZewK3/hrportal/pkg/pointer"
)

const (
	// DefaultActivityLimit is the number of activities returned when no limit is given.
	DefaultActivityLimit = 10
	// MaxActivityLimit caps the activities page.
	MaxActivityLimit = 100
)

// ActivitySource lists recent security events.
type ActivitySource interface {
	Recent(ctx context.Context, userID string, limit int) ([]*audit.Entry, error)
}

// Stats is the dashboard payload. Fields that do not apply to the caller's
// role are omitted.
type Stats struct {
	TotalUsers       *int `json:"totalUsers,omitempty"`
	ActiveUsers      *int `json:"activeUsers,omitempty"`
	PendingUsers     *int `json:"pendingUsers,omitempty"`
	TotalRequests    *int `json:"totalRequests,omitempty"`
	ApprovedRequests *int `json:"approvedRequests,omitempty"`
	PendingRequests  int  `json:"pendingRequests"`
}

// Service computes dashboard views.
type Service struct {
	repository Repository
	activities ActivitySource
}

// NewService constructs a new [Service].
func NewService(repository Repository, activities ActivitySource) *Service {
	return &Service{repository: repository, activities: activities}
}

// Stats returns the figures visible to actor.
func (service *Service) Stats(context context.Context, actor *sec.AuthClaims) (*Stats, error) {
	if sec.UserRole(actor.Role).AtLeast(sec.RoleManager) {
		users, err := service.repository.CountUsers(context)
		if err != nil {
			return nil, fmt.Errorf("dashboard_service_stats_failed: %w", err)
		}
		requests, err := service.repository.CountRequests(context, "")
		if err != nil {
			return nil, fmt.Errorf("dashboard_service_stats_failed: %w", err)
		}
		return &Stats{
			TotalUsers:      pointer.To(users.Total),
			ActiveUsers:     pointer.To(users.Active),
			PendingUsers:    pointer.To(users.Pending),
			PendingRequests: requests.Pending,
		}, nil
	}

	requests, err := service.repository.CountRequests(context, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("dashboard_service_stats_failed: %w", err)
	}
	return &Stats{
		TotalRequests:    pointer.To(requests.Total),
		ApprovedRequests: pointer.To(requests.Approved),
		PendingRequests:  requests.Pending,
	}, nil
}

// Activities returns the newest security events visible to actor.
func (service *Service) Activities(context context.Context, actor *sec.AuthClaims, limit int) ([]*audit.Entry, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	limit = min(limit, MaxActivityLimit)

	userID := actor.UserID
	if sec.UserRole(actor.Role).AtLeast(sec.RoleManager) {
		userID = ""
	}

	entries, err := service.activities.Recent(context, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard_service_activities_failed: %w", err)
	}
	return entries, nil
}
