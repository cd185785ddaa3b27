package models

import (
	"time"

	"github.com/lib/pq"
)

// DefaultMaxHours is the capacity ceiling assigned to new faculty members.
const DefaultMaxHours = 16

// Department groups faculty members and timetable slots.
type Department struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	HODID     *string   `db:"hod_id" json:"hod_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Faculty is a teaching staff member together with the workload counter the
// scheduling engine maintains for them.
type Faculty struct {
	ID           string         `db:"id" json:"id"`
	UserID       *string        `db:"user_id" json:"user_id,omitempty"`
	Name         string         `db:"name" json:"name"`
	DepartmentID string         `db:"department_id" json:"department_id"`
	Designation  string         `db:"designation" json:"designation"`
	Skills       pq.StringArray `db:"skills" json:"skills"`
	MaxHours     float64        `db:"max_hours" json:"max_hours"`
	CurrentHours float64        `db:"current_hours" json:"current_hours"`
	Phone        *string        `db:"phone" json:"phone,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// RemainingHours is the capacity still available before MaxHours is reached.
func (f Faculty) RemainingHours() float64 {
	return f.MaxHours - f.CurrentHours
}

// FacultyWorkload is the summary row used by department workload views.
type FacultyWorkload struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Designation  string  `db:"designation" json:"designation"`
	MaxHours     float64 `db:"max_hours" json:"max_hours"`
	CurrentHours float64 `db:"current_hours" json:"current_hours"`
}

// FacultyDetail bundles a faculty profile with its complete timetable.
type FacultyDetail struct {
	Profile        Faculty             `json:"profile"`
	DepartmentName string              `json:"department_name,omitempty"`
	Timetable      []TimetableSlotView `json:"timetable"`
}
