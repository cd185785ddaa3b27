package models

import "time"

// HourLedgerReason labels why a faculty counter moved.
type HourLedgerReason string

const (
	HourReasonSlotCreate HourLedgerReason = "SLOT_CREATE"
	HourReasonSlotEdit   HourLedgerReason = "SLOT_EDIT"
	HourReasonSlotDelete HourLedgerReason = "SLOT_DELETE"
	HourReasonReassign   HourLedgerReason = "REASSIGN"
	HourReasonReconcile  HourLedgerReason = "RECONCILE"
)

// HourLedgerEntry is one append-only change to a faculty member's current hours.
type HourLedgerEntry struct {
	ID        string           `db:"id" json:"id"`
	FacultyID string           `db:"faculty_id" json:"faculty_id"`
	Delta     float64          `db:"delta" json:"delta"`
	Reason    HourLedgerReason `db:"reason" json:"reason"`
	SlotID    *string          `db:"slot_id" json:"slot_id,omitempty"`
	RequestID *string          `db:"request_id" json:"request_id,omitempty"`
	ActorID   *string          `db:"actor_id" json:"actor_id,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// WorkloadDrift compares the stored counter with the hours implied by the timetable.
type WorkloadDrift struct {
	FacultyID      string    `db:"faculty_id" json:"faculty_id"`
	RecordedHours  float64   `db:"recorded_hours" json:"recorded_hours"`
	ScheduledHours float64   `db:"scheduled_hours" json:"scheduled_hours"`
	LedgerHours    float64   `db:"ledger_hours" json:"ledger_hours"`
	Drift          float64   `db:"-" json:"drift"`
	Repaired       bool      `db:"-" json:"repaired"`
	CheckedAt      time.Time `db:"-" json:"checked_at"`
}

// HasDrift reports whether the stored counter disagrees with the timetable.
func (d WorkloadDrift) HasDrift() bool {
	return d.Drift > 1e-9 || d.Drift < -1e-9
}
