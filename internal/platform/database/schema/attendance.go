// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AttendanceRecordTable represents the 'attendance_records' table
type AttendanceRecordTable struct {
	Table       string
	ID          string
	UserID      string
	WorkDate    string
	ClockIn     string
	ClockOut    string
	ClockInLat  string
	ClockInLng  string
	ClockOutLat string
	ClockOutLng string
	Note        string
	TotalHours  string
	CreatedAt   string
}

var AttendanceRecord = AttendanceRecordTable{
	Table:       "attendance_records",
	ID:          "id",
	UserID:      "user_id",
	WorkDate:    "work_date",
	ClockIn:     "clock_in",
	ClockOut:    "clock_out",
	ClockInLat:  "clock_in_lat",
	ClockInLng:  "clock_in_lng",
	ClockOutLat: "clock_out_lat",
	ClockOutLng: "clock_out_lng",
	Note:        "note",
	TotalHours:  "total_hours",
	CreatedAt:   "created_at",
}

// Columns returns all standard column names
func (t AttendanceRecordTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.WorkDate, t.ClockIn, t.ClockOut, t.ClockInLat, t.ClockInLng,
		t.ClockOutLat, t.ClockOutLng, t.Note, t.TotalHours, t.CreatedAt,
	}
}

// AttendanceRequestTable represents the 'attendance_requests' table
type AttendanceRequestTable struct {
	Table       string
	ID          string
	UserID      string
	Type        string
	RequestDate string
	Reason      string
	Status      string
	ReviewedBy  string
	ReviewedAt  string
	CreatedAt   string
}

var AttendanceRequest = AttendanceRequestTable{
	Table:       "attendance_requests",
	ID:          "id",
	UserID:      "user_id",
	Type:        "type",
	RequestDate: "request_date",
	Reason:      "reason",
	Status:      "status",
	ReviewedBy:  "reviewed_by",
	ReviewedAt:  "reviewed_at",
	CreatedAt:   "created_at",
}

// Columns returns all standard column names
func (t AttendanceRequestTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Type, t.RequestDate, t.Reason, t.Status, t.ReviewedBy, t.ReviewedAt, t.CreatedAt,
	}
}
