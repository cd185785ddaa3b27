package dto

// RaiseWorkloadRequest is submitted by a faculty member who cannot take some periods.
type RaiseWorkloadRequest struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Type    string `json:"type" validate:"omitempty,oneof=SINGLE FULL_DAY"`
	Periods []int  `json:"periods" validate:"omitempty,dive,min=1,max=8"`
	Reason  string `json:"reason" validate:"required,max=500"`
}

// UpdateWorkloadRequest lets academics staff record a manual decision.
type UpdateWorkloadRequest struct {
	Status      *string `json:"status" validate:"omitempty,oneof=Pending Approved Escalated Reassigned Rejected"`
	DecisionLog *string `json:"decisionLog" validate:"omitempty,max=2000"`
	EscalatedTo *string `json:"escalatedTo" validate:"omitempty,max=128"`
	Reason      *string `json:"reason" validate:"omitempty,min=1,max=500"`
}
