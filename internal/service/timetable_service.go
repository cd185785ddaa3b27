package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-workload-api/internal/dto"
	"github.com/noah-isme/faculty-workload-api/internal/models"
	"github.com/noah-isme/faculty-workload-api/internal/repository"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
)

type timetableUnitOfWork interface {
	InTx(ctx context.Context, fn func(repository.TimetableTx) error) error
}

type timetableReader interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableSlotView, int, error)
}

// TimetableService validates and commits timetable mutations while keeping faculty
// hour counters in step with the slots they own.
type TimetableService struct {
	uow       timetableUnitOfWork
	reader    timetableReader
	cache     *WorkloadCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(uow timetableUnitOfWork, reader timetableReader, cache *WorkloadCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{uow: uow, reader: reader, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns timetable slots plus pagination data.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableSlotView, *models.Pagination, error) {
	slots, total, err := s.reader.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return slots, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// CommitSlot validates a proposed slot and inserts it, charging its hours to the faculty member.
// Checks run in order: payload, period range, faculty existence, capacity, faculty clash,
// class clash, continuity. Nothing is written unless every check passes.
func (s *TimetableService) CommitSlot(ctx context.Context, actor *models.JWTClaims, req dto.CommitSlotRequest) (*models.TimetableSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordSlotOperation("commit", OutcomeRejected)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	if !validPeriod(req.Period) {
		s.metrics.RecordSlotOperation("commit", OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrInvalidPeriod, "")
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		s.metrics.RecordSlotOperation("commit", OutcomeRejected)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	day, err := resolveDay(req.Day, date)
	if err != nil {
		s.metrics.RecordSlotOperation("commit", OutcomeRejected)
		return nil, err
	}

	sessionType := sessionTypeOrDefault(req.Type)
	slot := &models.TimetableSlot{
		DepartmentID: strings.TrimSpace(req.DepartmentID),
		FacultyID:    strings.TrimSpace(req.FacultyID),
		Subject:      strings.TrimSpace(req.Subject),
		Day:          day,
		Date:         date,
		Period:       req.Period,
		ClassYear:    strings.TrimSpace(req.ClassYear),
		RoomNumber:   strings.TrimSpace(req.RoomNumber),
		Type:         sessionType,
		Hours:        sessionType.Hours(),
	}

	var facultyDepartment string
	err = s.uow.InTx(ctx, func(tx repository.TimetableTx) error {
		faculty, err := tx.GetFaculty(ctx, slot.FacultyID)
		if err != nil {
			return lookupError(err, "faculty not found", "failed to load faculty")
		}
		facultyDepartment = faculty.DepartmentID
		if faculty.CurrentHours+slot.Hours > faculty.MaxHours {
			return overloadError(faculty)
		}
		if err := s.checkPlacement(ctx, tx, slot, ""); err != nil {
			return err
		}
		if err := tx.CreateSlot(ctx, slot); err != nil {
			return err
		}
		return tx.AdjustHours(ctx, newLedgerEntry(slot.FacultyID, slot.Hours, models.HourReasonSlotCreate, slot.ID, "", actor))
	})
	if err != nil {
		return nil, s.fail("commit", err, "failed to commit timetable slot")
	}

	s.metrics.RecordSlotOperation("commit", OutcomeSuccess)
	s.cache.Invalidate(ctx, facultyDepartment)
	s.logger.Info("timetable slot committed",
		zap.String("slot_id", slot.ID),
		zap.String("faculty_id", slot.FacultyID),
		zap.String("date", slot.DateString()),
		zap.Int("period", slot.Period),
	)
	return slot, nil
}

// EditSlot applies a partial update to a slot. Capacity is evaluated against the net hour
// change and every placement rule is re-checked with the slot itself excluded.
func (s *TimetableService) EditSlot(ctx context.Context, actor *models.JWTClaims, id string, req dto.EditSlotRequest) (*models.TimetableSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordSlotOperation("edit", OutcomeRejected)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	if req.Period != nil && !validPeriod(*req.Period) {
		s.metrics.RecordSlotOperation("edit", OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrInvalidPeriod, "")
	}

	var (
		updated     models.TimetableSlot
		departments []string
	)
	err := s.uow.InTx(ctx, func(tx repository.TimetableTx) error {
		current, err := tx.GetSlot(ctx, id)
		if err != nil {
			return lookupError(err, "timetable slot not found", "failed to load timetable slot")
		}

		next, err := applySlotEdit(*current, req)
		if err != nil {
			return err
		}

		faculty, err := tx.GetFaculty(ctx, next.FacultyID)
		if err != nil {
			return lookupError(err, "faculty not found", "failed to load faculty")
		}

		departments = []string{faculty.DepartmentID}

		facultyChanged := next.FacultyID != current.FacultyID
		if facultyChanged {
			previous, err := tx.GetFaculty(ctx, current.FacultyID)
			if err != nil {
				return lookupError(err, "faculty not found", "failed to load faculty")
			}
			departments = append(departments, previous.DepartmentID)
		}

		switch {
		case facultyChanged:
			if faculty.CurrentHours+next.Hours > faculty.MaxHours {
				return overloadError(faculty)
			}
		case next.Hours > current.Hours:
			if faculty.CurrentHours-current.Hours+next.Hours > faculty.MaxHours {
				return overloadError(faculty)
			}
		}

		if err := s.checkPlacement(ctx, tx, &next, current.ID); err != nil {
			return err
		}
		if err := tx.UpdateSlot(ctx, &next); err != nil {
			return err
		}

		if facultyChanged {
			if err := tx.AdjustHours(ctx, newLedgerEntry(current.FacultyID, -current.Hours, models.HourReasonSlotEdit, current.ID, "", actor)); err != nil {
				return err
			}
			if err := tx.AdjustHours(ctx, newLedgerEntry(next.FacultyID, next.Hours, models.HourReasonSlotEdit, next.ID, "", actor)); err != nil {
				return err
			}
		} else if delta := next.Hours - current.Hours; delta != 0 {
			if err := tx.AdjustHours(ctx, newLedgerEntry(next.FacultyID, delta, models.HourReasonSlotEdit, next.ID, "", actor)); err != nil {
				return err
			}
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, s.fail("edit", err, "failed to update timetable slot")
	}

	s.metrics.RecordSlotOperation("edit", OutcomeSuccess)
	s.cache.Invalidate(ctx, departments...)
	s.logger.Info("timetable slot updated", zap.String("slot_id", updated.ID), zap.String("faculty_id", updated.FacultyID))
	return &updated, nil
}

// DeleteSlot removes a slot and releases its hours.
func (s *TimetableService) DeleteSlot(ctx context.Context, actor *models.JWTClaims, id string) error {
	var departmentID string
	err := s.uow.InTx(ctx, func(tx repository.TimetableTx) error {
		slot, err := tx.GetSlot(ctx, id)
		if err != nil {
			return lookupError(err, "timetable slot not found", "failed to load timetable slot")
		}
		faculty, err := tx.GetFaculty(ctx, slot.FacultyID)
		if err != nil {
			return lookupError(err, "faculty not found", "failed to load faculty")
		}
		if err := tx.DeleteSlot(ctx, slot.ID); err != nil {
			return err
		}
		departmentID = faculty.DepartmentID
		return tx.AdjustHours(ctx, newLedgerEntry(slot.FacultyID, -slot.Hours, models.HourReasonSlotDelete, slot.ID, "", actor))
	})
	if err != nil {
		return s.fail("delete", err, "failed to delete timetable slot")
	}

	s.metrics.RecordSlotOperation("delete", OutcomeSuccess)
	s.cache.Invalidate(ctx, departmentID)
	s.logger.Info("timetable slot deleted", zap.String("slot_id", id))
	return nil
}

// checkPlacement enforces faculty uniqueness, class uniqueness and the continuity cap.
func (s *TimetableService) checkPlacement(ctx context.Context, tx repository.TimetableTx, slot *models.TimetableSlot, excludeID string) error {
	existing, err := tx.FindFacultySlot(ctx, slot.FacultyID, slot.Date, slot.Period)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return clashError(appErrors.ErrFacultyClash, models.ConflictDimensionFaculty, existing)
	}

	existing, err = tx.FindClassSlot(ctx, slot.DepartmentID, slot.ClassYear, slot.Date, slot.Period)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return clashError(appErrors.ErrClassClash, models.ConflictDimensionClass, existing)
	}

	sameDay, err := tx.ListFacultySlotsOnDate(ctx, slot.FacultyID, slot.Date)
	if err != nil {
		return err
	}
	if exceedsContinuity(occupiedPeriods(sameDay, excludeID), slot.Period) {
		return appErrors.Clone(appErrors.ErrContinuityViolation, "")
	}
	return nil
}

func (s *TimetableService) fail(operation string, err error, message string) error {
	translated := translateStoreError(err, message)
	appErr := appErrors.FromError(translated)
	switch {
	case appErr.Code == appErrors.ErrConflict.Code:
		s.metrics.RecordSlotOperation(operation, OutcomeConflict)
	case appErr.Status >= 500:
		s.metrics.RecordSlotOperation(operation, OutcomeError)
		s.logger.Error("timetable mutation failed", zap.String("operation", operation), zap.Error(err))
	default:
		s.metrics.RecordSlotOperation(operation, OutcomeRejected)
	}
	return translated
}

func applySlotEdit(slot models.TimetableSlot, req dto.EditSlotRequest) (models.TimetableSlot, error) {
	if req.FacultyID != nil {
		slot.FacultyID = strings.TrimSpace(*req.FacultyID)
	}
	if req.Subject != nil {
		slot.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Date != nil {
		date, err := models.ParseDate(*req.Date)
		if err != nil {
			return slot, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
		}
		slot.Date = date
		if req.Day == nil {
			day, err := resolveDay("", date)
			if err != nil {
				return slot, err
			}
			slot.Day = day
		}
	}
	if req.Day != nil {
		slot.Day = *req.Day
	}
	if req.Period != nil {
		slot.Period = *req.Period
	}
	if req.ClassYear != nil {
		slot.ClassYear = strings.TrimSpace(*req.ClassYear)
	}
	if req.RoomNumber != nil {
		slot.RoomNumber = strings.TrimSpace(*req.RoomNumber)
	}
	if req.Type != nil {
		slot.Type = sessionTypeOrDefault(*req.Type)
	}
	slot.Hours = slot.Type.Hours()
	return slot, nil
}

func newLedgerEntry(facultyID string, delta float64, reason models.HourLedgerReason, slotID, requestID string, actor *models.JWTClaims) *models.HourLedgerEntry {
	entry := &models.HourLedgerEntry{FacultyID: facultyID, Delta: delta, Reason: reason}
	if slotID != "" {
		entry.SlotID = &slotID
	}
	if requestID != "" {
		entry.RequestID = &requestID
	}
	if actor != nil && actor.UserID != "" {
		actorID := actor.UserID
		entry.ActorID = &actorID
	}
	return entry
}

// lookupError maps a missing row to NOT_FOUND and passes other failures through.
func lookupError(err error, notFound, failure string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return translateStoreError(err, failure)
}

// translateStoreError converts repository failures into typed API errors.
func translateStoreError(err error, message string) error {
	var appErr *appErrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrFacultySlotTaken):
		return appErrors.Wrap(err, appErrors.ErrFacultyClash.Code, appErrors.ErrFacultyClash.Status, appErrors.ErrFacultyClash.Message)
	case errors.Is(err, repository.ErrClassSlotTaken):
		return appErrors.Wrap(err, appErrors.ErrClassClash.Code, appErrors.ErrClassClash.Status, appErrors.ErrClassClash.Message)
	case errors.Is(err, repository.ErrConcurrentUpdate):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "concurrent timetable update, retry")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}
