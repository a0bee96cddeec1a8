package dto

import (
	"github.com/noah-isme/gpa-tracker-api/internal/attendance"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// AttendanceResponse returns the stored profile with its analysis.
type AttendanceResponse struct {
	Profile models.AttendanceData `json:"profile"`
	Report  attendance.Report     `json:"report"`
}
