package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-workload-api/internal/models"
)

func newUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return NewUnitOfWork(db, NewFacultyRepository(db), NewTimetableRepository(db), NewWorkloadRequestRepository(db), NewHourLedgerRepository(db))
}

func TestUnitOfWorkCommitsOnSuccess(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	uow := newUnitOfWork(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM faculty WHERE id = $1 FOR UPDATE")).
		WithArgs("fac-1").
		WillReturnRows(sqlmock.NewRows(facultyRowColumns).AddRow("fac-1", nil, "A", "dept-1", "Lecturer", "{}", 16.0, 0.0, nil, now, now))
	mock.ExpectExec("UPDATE faculty SET current_hours").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO hour_ledger_entries").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := uow.InTx(context.Background(), func(tx TimetableTx) error {
		faculty, err := tx.GetFaculty(context.Background(), "fac-1")
		if err != nil {
			return err
		}
		return tx.AdjustHours(context.Background(), &models.HourLedgerEntry{FacultyID: faculty.ID, Delta: 1, Reason: models.HourReasonSlotCreate})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	uow := newUnitOfWork(db)

	sentinel := errors.New("rejected")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := uow.InTx(context.Background(), func(TimetableTx) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWorkRollsBackOnPanic(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	uow := newUnitOfWork(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = uow.InTx(context.Background(), func(TimetableTx) error { panic("boom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWorkClassifiesUniqueViolations(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	uow := newUnitOfWork(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO timetable_slots").
		WillReturnError(&pq.Error{Code: "23505", Constraint: ClassSlotConstraint})
	mock.ExpectRollback()

	err := uow.InTx(context.Background(), func(tx TimetableTx) error {
		return tx.CreateSlot(context.Background(), &models.TimetableSlot{DepartmentID: "dept-1", FacultyID: "fac-1", Period: 1})
	})
	assert.ErrorIs(t, err, ErrClassSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify(nil))
	assert.ErrorIs(t, classify(&pq.Error{Code: "23505", Constraint: FacultySlotConstraint}), ErrFacultySlotTaken)
	assert.ErrorIs(t, classify(&pq.Error{Code: "40001"}), ErrConcurrentUpdate)

	other := &pq.Error{Code: "23503"}
	assert.Equal(t, error(other), classify(other))
}
