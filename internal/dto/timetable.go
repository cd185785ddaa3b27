package dto

// CommitSlotRequest proposes a new timetable entry.
type CommitSlotRequest struct {
	DepartmentID string `json:"departmentId" validate:"required"`
	FacultyID    string `json:"facultyId" validate:"required"`
	Subject      string `json:"subject" validate:"required,max=128"`
	Day          string `json:"day" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Period       int    `json:"period"`
	ClassYear    string `json:"classYear" validate:"required,max=32"`
	RoomNumber   string `json:"roomNumber" validate:"omitempty,max=32"`
	Type         string `json:"type" validate:"omitempty,oneof=Theory Lab"`
}

// EditSlotRequest patches an existing timetable entry. Nil fields keep their value.
type EditSlotRequest struct {
	FacultyID  *string `json:"facultyId" validate:"omitempty,min=1"`
	Subject    *string `json:"subject" validate:"omitempty,min=1,max=128"`
	Day        *string `json:"day" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	Date       *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Period     *int    `json:"period"`
	ClassYear  *string `json:"classYear" validate:"omitempty,min=1,max=32"`
	RoomNumber *string `json:"roomNumber" validate:"omitempty,max=32"`
	Type       *string `json:"type" validate:"omitempty,oneof=Theory Lab"`
}

// ListSlotsQuery captures query string filters for the timetable listing.
type ListSlotsQuery struct {
	DepartmentID string `form:"department_id"`
	ClassYear    string `form:"class_year"`
	FacultyID    string `form:"faculty_id"`
	Date         string `form:"date"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}
