// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package attendance

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/platform/validate"
	"github.com/ZewK3/hrportal/pkg/uuid"
)

// Auditor writes security log entries.
type Auditor interface {
	Record(ctx context.Context, eventType, userID string, details map[string]any)
}

// Service implements the attendance use cases.
type Service struct {
	repository Repository
	auditor    Auditor
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, auditor Auditor) *Service {
	return &Service{repository: repository, auditor: auditor, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Check-in / Check-out

// ClockInput carries the optional location and note of a check-in or check-out.
type ClockInput struct {
	Latitude  *float64
	Longitude *float64
	Note      string
}

func (input ClockInput) validate() error {
	validator := &validate.Validator{}
	if input.Latitude != nil {
		validator.Custom("latitude", *input.Latitude < -90 || *input.Latitude > 90, "Must be between -90 and 90")
	}
	if input.Longitude != nil {
		validator.Custom("longitude", *input.Longitude < -180 || *input.Longitude > 180, "Must be between -180 and 180")
	}
	validator.MaxLen("note", input.Note, 500)
	return validator.Err()
}

// CheckIn opens today's record for the user.
func (service *Service) CheckIn(context context.Context, userID string, input ClockInput) (*Record, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	today := workDate(now)

	// 1. One record per user per day
	_, err := service.repository.FindRecord(context, userID, today)
	if err == nil {
		return nil, apperr.ValidationError("Already checked in today")
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("attendance_service_find_failed: %w", err)
	}

	record := &Record{
		ID:         uuid.New(),
		UserID:     userID,
		WorkDate:   today,
		ClockIn:    now,
		ClockInLat: input.Latitude,
		ClockInLng: input.Longitude,
		Note:       strings.TrimSpace(input.Note),
		CreatedAt:  now,
	}

	// 2. A concurrent check-in loses on the UNIQUE constraint
	if err := service.repository.CreateRecord(context, record); err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusConflict {
			return nil, apperr.ValidationError("Already checked in today")
		}
		return nil, fmt.Errorf("attendance_service_checkin_failed: %w", err)
	}

	return record, nil
}

// CheckOut closes today's record and computes the worked hours.
func (service *Service) CheckOut(context context.Context, userID string, input ClockInput) (*Record, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := service.now().UTC()

	record, err := service.repository.FindRecord(context, userID, workDate(now))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ValidationError("You have not checked in today")
		}
		return nil, fmt.Errorf("attendance_service_find_failed: %w", err)
	}
	if record.ClockOut != nil {
		return nil, apperr.ValidationError("Already checked out today")
	}

	hours := math.Round(now.Sub(record.ClockIn).Hours()*100) / 100
	record.ClockOut = &now
	record.ClockOutLat = input.Latitude
	record.ClockOutLng = input.Longitude
	record.TotalHours = &hours
	if note := strings.TrimSpace(input.Note); note != "" {
		record.Note = note
	}

	if err := service.repository.CloseRecord(context, record); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("attendance_service_checkout_failed: %w", err)
	}

	return record, nil
}

// Today returns the user's record for the current day, or nil.
func (service *Service) Today(context context.Context, userID string) (*Record, error) {
	record, err := service.repository.FindRecord(context, userID, workDate(service.now()))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("attendance_service_today_failed: %w", err)
	}
	return record, nil
}

// # Requests

// RequestInput holds a new attendance request.
type RequestInput struct {
	Type   string
	Date   string
	Reason string
}

// CreateRequest files a pending request for the user.
func (service *Service) CreateRequest(context context.Context, userID string, input RequestInput) (*Request, error) {
	validator := &validate.Validator{}
	validator.Required("type", input.Type).
		OneOf("type", input.Type, RequestTypes...).
		Required("date", input.Date).
		Date("date", input.Date).
		Required("reason", strings.TrimSpace(input.Reason)).
		MaxLen("reason", input.Reason, 1000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	date, _ := time.Parse(time.DateOnly, input.Date)
	request := &Request{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        RequestType(input.Type),
		RequestDate: date,
		Reason:      strings.TrimSpace(input.Reason),
		Status:      RequestPending,
		CreatedAt:   service.now().UTC(),
	}

	if err := service.repository.CreateRequest(context, request); err != nil {
		return nil, fmt.Errorf("attendance_service_create_request_failed: %w", err)
	}

	service.auditor.Record(context, constants.EventAttendanceRequest, userID, map[string]any{
		"requestId": request.ID,
		"type":      input.Type,
	})
	return request, nil
}

/*
ListRequests returns the caller's own requests.

Managers and admins filtering by status see every user's requests instead.
*/
func (service *Service) ListRequests(context context.Context, actor *sec.AuthClaims, status string) ([]*Request, error) {
	if status != "" {
		validator := &validate.Validator{}
		validator.OneOf("status", status, string(RequestPending), string(RequestApproved), string(RequestRejected))
		if err := validator.Err(); err != nil {
			return nil, err
		}
	}

	filter := RequestFilter{UserID: actor.UserID, Status: status}
	if status != "" && sec.UserRole(actor.Role).AtLeast(sec.RoleManager) {
		filter.UserID = ""
	}

	requests, err := service.repository.ListRequests(context, filter)
	if err != nil {
		return nil, fmt.Errorf("attendance_service_list_requests_failed: %w", err)
	}
	return requests, nil
}

// Review approves or rejects a pending request. Reviewers cannot review their own requests.
func (service *Service) Review(context context.Context, actor *sec.AuthClaims, id string, approve bool) (*Request, error) {
	request, err := service.repository.FindRequest(context, id)
	if err != nil {
		return nil, err
	}
	if request.UserID == actor.UserID {
		return nil, apperr.Forbidden("You cannot review your own request")
	}
	if request.Status != RequestPending {
		return nil, apperr.ValidationError("Request has already been reviewed")
	}

	status := RequestRejected
	if approve {
		status = RequestApproved
	}
	now := service.now().UTC()

	if err := service.repository.ReviewRequest(context, id, status, actor.UserID, now); err != nil {
		return nil, err
	}

	request.Status = status
	request.ReviewedBy = &actor.UserID
	request.ReviewedAt = &now

	service.auditor.Record(context, constants.EventAttendanceReviewed, actor.UserID, map[string]any{
		"requestId": id,
		"status":    string(status),
	})
	return request, nil
}
