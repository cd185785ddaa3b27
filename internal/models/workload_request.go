package models

import (
	"time"

	"github.com/lib/pq"
)

// WorkloadRequestType captures how much of a day the request covers.
type WorkloadRequestType string

const (
	WorkloadRequestSingle  WorkloadRequestType = "SINGLE"
	WorkloadRequestFullDay WorkloadRequestType = "FULL_DAY"
)

// WorkloadRequestStatus is the lifecycle status of a request.
type WorkloadRequestStatus string

const (
	WorkloadStatusPending    WorkloadRequestStatus = "Pending"
	WorkloadStatusApproved   WorkloadRequestStatus = "Approved"
	WorkloadStatusEscalated  WorkloadRequestStatus = "Escalated"
	WorkloadStatusReassigned WorkloadRequestStatus = "Reassigned"
	WorkloadStatusRejected   WorkloadRequestStatus = "Rejected"
)

// EscalationTarget is recorded when the engine cannot resolve every period.
const EscalationTarget = "Academics Office"

// Valid reports whether s is a known status.
func (s WorkloadRequestStatus) Valid() bool {
	switch s {
	case WorkloadStatusPending, WorkloadStatusApproved, WorkloadStatusEscalated, WorkloadStatusReassigned, WorkloadStatusRejected:
		return true
	}
	return false
}

// WorkloadRequest is a faculty member's notice that they cannot teach some periods on a date.
type WorkloadRequest struct {
	ID           string                `db:"id" json:"id"`
	FacultyID    string                `db:"faculty_id" json:"faculty_id"`
	DepartmentID string                `db:"department_id" json:"department_id"`
	Date         time.Time             `db:"date" json:"date"`
	Type         WorkloadRequestType   `db:"type" json:"type"`
	Periods      pq.Int64Array         `db:"periods" json:"periods"`
	Reason       string                `db:"reason" json:"reason"`
	Status       WorkloadRequestStatus `db:"status" json:"status"`
	EscalatedTo  *string               `db:"escalated_to" json:"escalated_to,omitempty"`
	DecisionLog  *string               `db:"decision_log" json:"decision_log,omitempty"`
	CreatedAt    time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time             `db:"updated_at" json:"updated_at"`
}

// WorkloadRequestView enriches a request with display names.
type WorkloadRequestView struct {
	WorkloadRequest
	FacultyName    string `db:"faculty_name" json:"faculty_name"`
	DepartmentName string `db:"department_name" json:"department_name"`
}

// WorkloadRequestFilter constrains listing queries.
type WorkloadRequestFilter struct {
	Status    []WorkloadRequestStatus
	FacultyID string
	Limit     int
	Offset    int
}

// ReassignmentResult is returned by the auto-reassign operation.
type ReassignmentResult struct {
	RequestID   string                `json:"request_id"`
	Status      WorkloadRequestStatus `json:"status"`
	DecisionLog string                `json:"decision_log"`
	Reassigned  []PeriodReassignment  `json:"reassigned"`
	Failed      []int                 `json:"failed"`
	Skipped     []int                 `json:"skipped"`
}

// PeriodReassignment records one successful handoff.
type PeriodReassignment struct {
	Period        int     `json:"period"`
	SlotID        string  `json:"slot_id"`
	FromFacultyID string  `json:"from_faculty_id"`
	ToFacultyID   string  `json:"to_faculty_id"`
	ToFacultyName string  `json:"to_faculty_name"`
	Hours         float64 `json:"hours"`
}
