package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-workload-api/internal/models"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
)

type facultyRepository interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Faculty, error)
	FindByUserID(ctx context.Context, userID string) (*models.Faculty, error)
	WorkloadByDepartment(ctx context.Context, departmentID string) ([]models.FacultyWorkload, error)
}

type facultyTimetableRepository interface {
	ListByFaculty(ctx context.Context, facultyID string) ([]models.TimetableSlotView, error)
}

type departmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

// FacultyService serves read-only faculty and department workload views.
type FacultyService struct {
	faculty     facultyRepository
	slots       facultyTimetableRepository
	departments departmentRepository
	cache       *WorkloadCache
	logger      *zap.Logger
}

// NewFacultyService constructs a FacultyService.
func NewFacultyService(faculty facultyRepository, slots facultyTimetableRepository, departments departmentRepository, cache *WorkloadCache, logger *zap.Logger) *FacultyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{faculty: faculty, slots: slots, departments: departments, cache: cache, logger: logger}
}

// Current resolves the faculty profile of the authenticated user.
func (s *FacultyService) Current(ctx context.Context, actor *models.JWTClaims) (*models.Faculty, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	var (
		faculty *models.Faculty
		err     error
	)
	if actor.FacultyID != "" {
		faculty, err = s.faculty.FindByID(ctx, nil, actor.FacultyID)
	} else {
		faculty, err = s.faculty.FindByUserID(ctx, actor.UserID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty profile")
	}
	return faculty, nil
}

// MyTimetable returns every slot of the authenticated faculty member.
func (s *FacultyService) MyTimetable(ctx context.Context, actor *models.JWTClaims) ([]models.TimetableSlotView, error) {
	faculty, err := s.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.timetable(ctx, faculty.ID)
}

// Details returns a faculty profile with its department name and full timetable.
func (s *FacultyService) Details(ctx context.Context, facultyID string) (*models.FacultyDetail, error) {
	faculty, err := s.faculty.FindByID(ctx, nil, facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	slots, err := s.timetable(ctx, faculty.ID)
	if err != nil {
		return nil, err
	}
	detail := &models.FacultyDetail{Profile: *faculty, Timetable: slots}
	if dept, err := s.departments.FindByID(ctx, faculty.DepartmentID); err == nil {
		detail.DepartmentName = dept.Name
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("failed to load department name", zap.String("department_id", faculty.DepartmentID), zap.Error(err))
	}
	return detail, nil
}

// DepartmentWorkload lists name, designation and hours for every faculty member of a
// department. The boolean reports whether the rows came from the cache.
func (s *FacultyService) DepartmentWorkload(ctx context.Context, departmentID string) ([]models.FacultyWorkload, bool, error) {
	if rows, ok := s.cache.Get(ctx, departmentID); ok {
		return rows, true, nil
	}
	if _, err := s.departments.FindByID(ctx, departmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	rows, err := s.faculty.WorkloadByDepartment(ctx, departmentID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department workload")
	}
	if rows == nil {
		rows = []models.FacultyWorkload{}
	}
	s.cache.Set(ctx, departmentID, rows)
	return rows, false, nil
}

func (s *FacultyService) timetable(ctx context.Context, facultyID string) ([]models.TimetableSlotView, error) {
	slots, err := s.slots.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if slots == nil {
		slots = []models.TimetableSlotView{}
	}
	return slots, nil
}
