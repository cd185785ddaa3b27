package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/faculty-workload-api/internal/models"
)

// Constraint names declared by the timetable_slots migration.
const (
	FacultySlotConstraint = "timetable_slots_faculty_slot_key"
	ClassSlotConstraint   = "timetable_slots_class_slot_key"
)

const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// Storage-level rejections surfaced from inside a timetable transaction.
var (
	ErrFacultySlotTaken = errors.New("faculty already holds this date and period")
	ErrClassSlotTaken   = errors.New("class already occupied for this date and period")
	ErrConcurrentUpdate = errors.New("concurrent timetable update")
)

// TimetableTx is the set of reads and writes the scheduling engine performs atomically.
// Get* methods return sql.ErrNoRows when the row is missing; Find* methods return nil, nil.
type TimetableTx interface {
	GetFaculty(ctx context.Context, id string) (*models.Faculty, error)
	ListDepartmentFaculty(ctx context.Context, departmentID string) ([]models.Faculty, error)
	ScheduledHours(ctx context.Context, facultyID string) (float64, error)
	GetSlot(ctx context.Context, id string) (*models.TimetableSlot, error)
	FindFacultySlot(ctx context.Context, facultyID string, date time.Time, period int) (*models.TimetableSlot, error)
	FindClassSlot(ctx context.Context, departmentID, classYear string, date time.Time, period int) (*models.TimetableSlot, error)
	ListFacultySlotsOnDate(ctx context.Context, facultyID string, date time.Time) ([]models.TimetableSlot, error)
	CreateSlot(ctx context.Context, slot *models.TimetableSlot) error
	UpdateSlot(ctx context.Context, slot *models.TimetableSlot) error
	DeleteSlot(ctx context.Context, id string) error
	AdjustHours(ctx context.Context, entry *models.HourLedgerEntry) error
	GetWorkloadRequest(ctx context.Context, id string) (*models.WorkloadRequest, error)
	UpdateWorkloadRequest(ctx context.Context, req *models.WorkloadRequest) error
}

// UnitOfWork runs timetable mutations inside serializable transactions.
type UnitOfWork struct {
	db       *sqlx.DB
	faculty  *FacultyRepository
	slots    *TimetableRepository
	requests *WorkloadRequestRepository
	ledger   *HourLedgerRepository
}

// NewUnitOfWork wires the repositories that participate in timetable transactions.
func NewUnitOfWork(db *sqlx.DB, faculty *FacultyRepository, slots *TimetableRepository, requests *WorkloadRequestRepository, ledger *HourLedgerRepository) *UnitOfWork {
	return &UnitOfWork{db: db, faculty: faculty, slots: slots, requests: requests, ledger: ledger}
}

// InTx executes fn in a serializable transaction. The transaction commits only when fn
// returns nil; any error or panic rolls it back.
func (u *UnitOfWork) InTx(ctx context.Context, fn func(TimetableTx) error) error {
	tx, err := u.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin timetable tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&timetableTx{tx: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit timetable tx: %w", err))
	}
	return nil
}

type timetableTx struct {
	tx  *sqlx.Tx
	uow *UnitOfWork
}

func (t *timetableTx) GetFaculty(ctx context.Context, id string) (*models.Faculty, error) {
	faculty, err := t.uow.faculty.FindByIDForUpdate(ctx, t.tx, id)
	return faculty, classify(err)
}

func (t *timetableTx) ListDepartmentFaculty(ctx context.Context, departmentID string) ([]models.Faculty, error) {
	faculty, err := t.uow.faculty.ListByDepartment(ctx, t.tx, departmentID)
	return faculty, classify(err)
}

func (t *timetableTx) ScheduledHours(ctx context.Context, facultyID string) (float64, error) {
	total, err := t.uow.faculty.ScheduledHours(ctx, t.tx, facultyID)
	return total, classify(err)
}

func (t *timetableTx) GetSlot(ctx context.Context, id string) (*models.TimetableSlot, error) {
	slot, err := t.uow.slots.FindByID(ctx, t.tx, id)
	return slot, classify(err)
}

func (t *timetableTx) FindFacultySlot(ctx context.Context, facultyID string, date time.Time, period int) (*models.TimetableSlot, error) {
	slot, err := t.uow.slots.FindByFacultySlot(ctx, t.tx, facultyID, date, period)
	return slot, classify(err)
}

func (t *timetableTx) FindClassSlot(ctx context.Context, departmentID, classYear string, date time.Time, period int) (*models.TimetableSlot, error) {
	slot, err := t.uow.slots.FindByClassSlot(ctx, t.tx, departmentID, classYear, date, period)
	return slot, classify(err)
}

func (t *timetableTx) ListFacultySlotsOnDate(ctx context.Context, facultyID string, date time.Time) ([]models.TimetableSlot, error) {
	slots, err := t.uow.slots.ListByFacultyAndDate(ctx, t.tx, facultyID, date)
	return slots, classify(err)
}

func (t *timetableTx) CreateSlot(ctx context.Context, slot *models.TimetableSlot) error {
	return classify(t.uow.slots.Create(ctx, t.tx, slot))
}

func (t *timetableTx) UpdateSlot(ctx context.Context, slot *models.TimetableSlot) error {
	return classify(t.uow.slots.Update(ctx, t.tx, slot))
}

func (t *timetableTx) DeleteSlot(ctx context.Context, id string) error {
	return classify(t.uow.slots.Delete(ctx, t.tx, id))
}

func (t *timetableTx) AdjustHours(ctx context.Context, entry *models.HourLedgerEntry) error {
	return classify(t.uow.ledger.Adjust(ctx, t.tx, entry))
}

func (t *timetableTx) GetWorkloadRequest(ctx context.Context, id string) (*models.WorkloadRequest, error) {
	req, err := t.uow.requests.FindByIDForUpdate(ctx, t.tx, id)
	return req, classify(err)
}

func (t *timetableTx) UpdateWorkloadRequest(ctx context.Context, req *models.WorkloadRequest) error {
	return classify(t.uow.requests.Update(ctx, t.tx, req))
}

// classify maps Postgres constraint and serialization failures onto repository sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pqUniqueViolation:
		switch pqErr.Constraint {
		case FacultySlotConstraint:
			return fmt.Errorf("%w: %v", ErrFacultySlotTaken, err)
		case ClassSlotConstraint:
			return fmt.Errorf("%w: %v", ErrClassSlotTaken, err)
		}
	case pqSerializationFailure, pqDeadlockDetected:
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	return err
}
