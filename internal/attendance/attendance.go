// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package attendance implements daily check-in/check-out and attendance requests.

A user has at most one attendance record per UTC calendar day. Requests
(leave, overtime, missed check-in and similar) start pending and are reviewed
by managers or admins.
*/
package attendance

import "time"

// # Domain Entities

// Record is one working day of a user.
type Record struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	WorkDate    time.Time  `json:"workDate"`
	ClockIn     time.Time  `json:"clockIn"`
	ClockOut    *time.Time `json:"clockOut"`
	ClockInLat  *float64   `json:"clockInLat,omitempty"`
	ClockInLng  *float64   `json:"clockInLng,omitempty"`
	ClockOutLat *float64   `json:"clockOutLat,omitempty"`
	ClockOutLng *float64   `json:"clockOutLng,omitempty"`
	Note        string     `json:"note,omitempty"`
	TotalHours  *float64   `json:"totalHours"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// RequestType classifies an attendance request.
type RequestType string

const (
	TypeLeave          RequestType = "leave"
	TypeOvertime       RequestType = "overtime"
	TypeShiftChange    RequestType = "shift_change"
	TypeForgotCheckIn  RequestType = "forgot_checkin"
	TypeForgotCheckOut RequestType = "forgot_checkout"
)

// RequestTypes lists the accepted request types.
var RequestTypes = []string{
	string(TypeLeave), string(TypeOvertime), string(TypeShiftChange),
	string(TypeForgotCheckIn), string(TypeForgotCheckOut),
}

// RequestStatus is the review state of a request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Request is an attendance correction or leave request.
type Request struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Type        RequestType   `json:"type"`
	RequestDate time.Time     `json:"date"`
	Reason      string        `json:"reason"`
	Status      RequestStatus `json:"status"`
	ReviewedBy  *string       `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time    `json:"reviewedAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// RequestFilter narrows a request listing. Empty fields match everything.
type RequestFilter struct {
	UserID string
	Status string
}

// workDate returns the UTC calendar day containing t.
func workDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
