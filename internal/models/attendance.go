package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AttendanceCourse tracks class counts for one course.
type AttendanceCourse struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"max=128"`
	Attended     int    `json:"attended" validate:"gte=0"`
	DutyLeave    int    `json:"dutyLeave" validate:"gte=0"`
	TotalClasses int    `json:"totalClasses" validate:"gte=0"`
	Remaining    int    `json:"remaining" validate:"gte=0"`
}

// CombinedAttended counts duty leave as attendance.
func (c AttendanceCourse) CombinedAttended() int {
	return c.Attended + c.DutyLeave
}

// AttendanceData is the document stored per user.
type AttendanceData struct {
	Courses   []AttendanceCourse `json:"courses" validate:"dive"`
	Target    float64            `json:"target" validate:"gte=0,lte=100"`
	PrevTerm1 *float64           `json:"prevTerm1" validate:"omitempty,gte=0,lte=100"`
	PrevTerm2 *float64           `json:"prevTerm2" validate:"omitempty,gte=0,lte=100"`
}

// Value implements driver.Valuer so the document can be written to a JSONB column.
func (d AttendanceData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *AttendanceData) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*d = AttendanceData{}
		return nil
	default:
		return fmt.Errorf("unsupported attendance data type %T", src)
	}
	return json.Unmarshal(raw, d)
}

// AttendanceProfile is the attendance record of a user, replaced wholesale on save.
type AttendanceProfile struct {
	UserID    string         `db:"user_id" json:"user_id"`
	Data      AttendanceData `db:"data" json:"data"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
