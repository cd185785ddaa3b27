package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-workload-api/internal/dto"
	"github.com/noah-isme/faculty-workload-api/internal/models"
	"github.com/noah-isme/faculty-workload-api/internal/repository"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
)

type workloadRequestRepository interface {
	Create(ctx context.Context, req *models.WorkloadRequest) error
	FindByID(ctx context.Context, id string) (*models.WorkloadRequest, error)
	List(ctx context.Context, filter models.WorkloadRequestFilter) ([]models.WorkloadRequestView, error)
	Delete(ctx context.Context, id string) error
}

type currentFacultyResolver interface {
	Current(ctx context.Context, actor *models.JWTClaims) (*models.Faculty, error)
}

// WorkloadRequestService manages the lifecycle of workload requests outside the
// reassignment engine.
type WorkloadRequestService struct {
	repo      workloadRequestRepository
	uow       timetableUnitOfWork
	faculty   currentFacultyResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkloadRequestService constructs a WorkloadRequestService.
func NewWorkloadRequestService(repo workloadRequestRepository, uow timetableUnitOfWork, faculty currentFacultyResolver, validate *validator.Validate, logger *zap.Logger) *WorkloadRequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadRequestService{repo: repo, uow: uow, faculty: faculty, validator: validate, logger: logger}
}

// Raise records a new pending request for the authenticated faculty member.
func (s *WorkloadRequestService) Raise(ctx context.Context, actor *models.JWTClaims, req dto.RaiseWorkloadRequest) (*models.WorkloadRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid workload request payload")
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	requestType := models.WorkloadRequestType(req.Type)
	if requestType == "" {
		requestType = models.WorkloadRequestSingle
	}
	periods := normalizePeriods(req.Periods)
	switch {
	case requestType == models.WorkloadRequestFullDay && len(periods) == 0:
		for p := models.MinPeriod; p <= models.MaxPeriod; p++ {
			periods = append(periods, int64(p))
		}
	case len(periods) == 0:
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one period is required")
	}

	faculty, err := s.faculty.Current(ctx, actor)
	if err != nil {
		return nil, err
	}

	record := &models.WorkloadRequest{
		FacultyID:    faculty.ID,
		DepartmentID: faculty.DepartmentID,
		Date:         date,
		Type:         requestType,
		Periods:      periods,
		Reason:       strings.TrimSpace(req.Reason),
		Status:       models.WorkloadStatusPending,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create workload request")
	}
	s.logger.Info("workload request raised", zap.String("request_id", record.ID), zap.String("faculty_id", faculty.ID))
	return record, nil
}

// ListMine returns the authenticated faculty member's requests, newest first.
func (s *WorkloadRequestService) ListMine(ctx context.Context, actor *models.JWTClaims) ([]models.WorkloadRequestView, error) {
	faculty, err := s.faculty.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, models.WorkloadRequestFilter{FacultyID: faculty.ID})
}

// List returns requests filtered by status.
func (s *WorkloadRequestService) List(ctx context.Context, statuses []string) ([]models.WorkloadRequestView, error) {
	filter := models.WorkloadRequestFilter{}
	for _, raw := range statuses {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			status := models.WorkloadRequestStatus(part)
			if !status.Valid() {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown workload request status: "+part)
			}
			filter.Status = append(filter.Status, status)
		}
	}
	return s.list(ctx, filter)
}

// Get returns a single request.
func (s *WorkloadRequestService) Get(ctx context.Context, id string) (*models.WorkloadRequest, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workload request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workload request")
	}
	return record, nil
}

// Update records a manual decision on a request. The row is read under the same lock
// AutoReassign takes, so a concurrent reassignment is either fully visible or waits.
func (s *WorkloadRequestService) Update(ctx context.Context, id string, req dto.UpdateWorkloadRequest) (*models.WorkloadRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid workload request payload")
	}

	var updated *models.WorkloadRequest
	err := s.uow.InTx(ctx, func(tx repository.TimetableTx) error {
		record, err := tx.GetWorkloadRequest(ctx, id)
		if err != nil {
			return lookupError(err, "workload request not found", "failed to load workload request")
		}
		if req.Status != nil {
			record.Status = models.WorkloadRequestStatus(*req.Status)
		}
		if req.DecisionLog != nil {
			record.DecisionLog = normalizeOptional(req.DecisionLog)
		}
		if req.EscalatedTo != nil {
			record.EscalatedTo = normalizeOptional(req.EscalatedTo)
		}
		if req.Reason != nil {
			record.Reason = strings.TrimSpace(*req.Reason)
		}
		if err := tx.UpdateWorkloadRequest(ctx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		translated := translateStoreError(err, "failed to update workload request")
		if appErrors.FromError(translated).Status >= 500 {
			s.logger.Error("workload request update failed", zap.String("request_id", id), zap.Error(err))
		}
		return nil, translated
	}
	return updated, nil
}

// Delete removes a request.
func (s *WorkloadRequestService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete workload request")
	}
	return nil
}

func (s *WorkloadRequestService) list(ctx context.Context, filter models.WorkloadRequestFilter) ([]models.WorkloadRequestView, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list workload requests")
	}
	if rows == nil {
		rows = []models.WorkloadRequestView{}
	}
	return rows, nil
}

func normalizePeriods(raw []int) []int64 {
	seen := make(map[int]struct{}, len(raw))
	periods := make([]int64, 0, len(raw))
	for _, p := range raw {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		periods = append(periods, int64(p))
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
	return periods
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
