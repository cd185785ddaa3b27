package models

import (
	"fmt"
	"time"
)

// Period bounds for a teaching day.
const (
	MinPeriod = 1
	MaxPeriod = 8
)

// MaxContinuousPeriods is the longest run of back-to-back periods a faculty member may teach on one date.
const MaxContinuousPeriods = 3

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// SessionType distinguishes lectures from lab sessions.
type SessionType string

const (
	SessionTheory SessionType = "Theory"
	SessionLab    SessionType = "Lab"
)

// Hours returns the workload weight of one session of this type.
func (t SessionType) Hours() float64 {
	if t == SessionLab {
		return 1.5
	}
	return 1
}

// TeachingDays are the weekday labels a slot may carry.
var TeachingDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// TimetableSlot is one scheduled (faculty, date, period) teaching assignment.
type TimetableSlot struct {
	ID           string      `db:"id" json:"id"`
	DepartmentID string      `db:"department_id" json:"department_id"`
	FacultyID    string      `db:"faculty_id" json:"faculty_id"`
	Subject      string      `db:"subject" json:"subject"`
	Day          string      `db:"day" json:"day"`
	Date         time.Time   `db:"date" json:"date"`
	Period       int         `db:"period" json:"period"`
	ClassYear    string      `db:"class_year" json:"class_year"`
	RoomNumber   string      `db:"room_number" json:"room_number"`
	Type         SessionType `db:"type" json:"type"`
	Hours        float64     `db:"hours" json:"hours"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// DateString renders the slot date in wire format.
func (s TimetableSlot) DateString() string {
	return s.Date.Format(DateLayout)
}

// TimetableSlotView enriches a slot with display names.
type TimetableSlotView struct {
	TimetableSlot
	FacultyName    string `db:"faculty_name" json:"faculty_name"`
	DepartmentName string `db:"department_name" json:"department_name"`
}

// TimetableFilter describes query params for listing slots.
type TimetableFilter struct {
	DepartmentID string
	ClassYear    string
	FacultyID    string
	Date         *time.Time
	Page         int
	PageSize     int
}

// SlotConflict describes an existing slot that blocks a commit.
type SlotConflict struct {
	SlotID       string `json:"slot_id"`
	FacultyID    string `json:"faculty_id"`
	DepartmentID string `json:"department_id"`
	ClassYear    string `json:"class_year"`
	Date         string `json:"date"`
	Period       int    `json:"period"`
	Dimension    string `json:"dimension"`
}

// Conflict dimensions.
const (
	ConflictDimensionFaculty = "FACULTY"
	ConflictDimensionClass   = "CLASS"
)

// SlotConflictError is returned when a slot collides with an existing one.
type SlotConflictError struct {
	Dimension string       `json:"dimension"`
	Message   string       `json:"message"`
	Conflict  SlotConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *SlotConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (slot %s)", e.Message, e.Conflict.SlotID)
}

// ParseDate parses a wire-format calendar date into a UTC midnight time.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, time.UTC)
}

// NormalizeDate truncates a time to its UTC calendar date.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
