package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-workload-api/internal/models"
)

func TestHourLedgerRepositoryAdjust(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHourLedgerRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE faculty SET current_hours = current_hours + $2")).
		WithArgs("fac-1", 1.5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO hour_ledger_entries").
		WithArgs(sqlmock.AnyArg(), "fac-1", 1.5, "SLOT_CREATE", sqlmock.AnyArg(), nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	slotID := "slot-1"
	entry := &models.HourLedgerEntry{FacultyID: "fac-1", Delta: 1.5, Reason: models.HourReasonSlotCreate, SlotID: &slotID}
	require.NoError(t, repo.Adjust(context.Background(), nil, entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHourLedgerRepositoryAdjustMissingFaculty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHourLedgerRepository(db)

	mock.ExpectExec("UPDATE faculty SET current_hours").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Adjust(context.Background(), nil, &models.HourLedgerEntry{FacultyID: "ghost", Delta: 1, Reason: models.HourReasonSlotCreate})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
	assert.NoError(t, mock.ExpectationsWereMet())
}
