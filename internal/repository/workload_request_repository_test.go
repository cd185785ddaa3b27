package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-workload-api/internal/models"
)

func TestWorkloadRequestRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWorkloadRequestRepository(db)

	mock.ExpectExec("INSERT INTO workload_requests").
		WithArgs(sqlmock.AnyArg(), "fac-1", "dept-1", sqlmock.AnyArg(), "SINGLE", "{2,3}", "Conference", "Pending", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := &models.WorkloadRequest{
		FacultyID:    "fac-1",
		DepartmentID: "dept-1",
		Date:         time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		Type:         models.WorkloadRequestSingle,
		Periods:      []int64{2, 3},
		Reason:       "Conference",
		Status:       models.WorkloadStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), req))
	assert.NotEmpty(t, req.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkloadRequestRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWorkloadRequestRepository(db)

	now := time.Now()
	cols := []string{"id", "faculty_id", "department_id", "date", "type", "periods", "reason", "status", "escalated_to", "decision_log", "created_at", "updated_at", "faculty_name", "department_name"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND w.status IN ($1,$2) ORDER BY w.created_at DESC LIMIT 100 OFFSET 0")).
		WithArgs("Pending", "Escalated").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("req-1", "fac-1", "dept-1", now, "FULL_DAY", "{1,2,3,4,5,6,7,8}", "Sick", "Escalated", "Academics Office", "P1: No replacement found", now, now, "Dr. Rao", "CSE"))

	rows, err := repo.List(context.Background(), models.WorkloadRequestFilter{Status: []models.WorkloadRequestStatus{models.WorkloadStatusPending, models.WorkloadStatusEscalated}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Periods, 8)
	require.NotNil(t, rows[0].EscalatedTo)
	assert.Equal(t, models.EscalationTarget, *rows[0].EscalatedTo)
	assert.NoError(t, mock.ExpectationsWereMet())
}
