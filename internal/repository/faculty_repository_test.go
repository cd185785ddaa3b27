package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var facultyRowColumns = []string{"id", "user_id", "name", "department_id", "designation", "skills", "max_hours", "current_hours", "phone", "created_at", "updated_at"}

func TestFacultyRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(facultyRowColumns).
		AddRow("fac-1", nil, "Dr. Rao", "dept-1", "Professor", "{Databases,Networks}", 16.0, 4.5, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM faculty WHERE id = $1")).
		WithArgs("fac-1").
		WillReturnRows(rows)

	faculty, err := repo.FindByID(context.Background(), nil, "fac-1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", faculty.Name)
	assert.Equal(t, []string{"Databases", "Networks"}, []string(faculty.Skills))
	assert.InDelta(t, 11.5, faculty.RemainingHours(), 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryListByDepartmentOrdersStably(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(facultyRowColumns).
		AddRow("fac-1", nil, "A", "dept-1", "Lecturer", "{}", 16.0, 0.0, nil, now, now).
		AddRow("fac-2", nil, "B", "dept-1", "Lecturer", "{}", 16.0, 2.0, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM faculty WHERE department_id = $1 ORDER BY name ASC, id ASC")).
		WithArgs("dept-1").
		WillReturnRows(rows)

	list, err := repo.ListByDepartment(context.Background(), nil, "dept-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "fac-1", list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryDrift(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	rows := sqlmock.NewRows([]string{"faculty_id", "recorded_hours", "scheduled_hours", "ledger_hours"}).
		AddRow("fac-1", 5.0, 3.5, 5.0)
	mock.ExpectQuery("SELECT f.id AS faculty_id").
		WithArgs("fac-1").
		WillReturnRows(rows)

	drift, err := repo.Drift(context.Background(), "fac-1")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, drift.Drift, 1e-9)
	assert.True(t, drift.HasDrift())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryScheduledHours(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(hours), 0) FROM timetable_slots WHERE faculty_id = $1")).
		WithArgs("fac-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(2.5))

	total, err := repo.ScheduledHours(context.Background(), nil, "fac-1")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, total, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}
