package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/faculty-workload-api/internal/models"
	"github.com/noah-isme/faculty-workload-api/internal/repository"
	"github.com/noah-isme/faculty-workload-api/pkg/config"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
)

const noScheduledPeriodsNote = "No scheduled periods to reassign"

// ReassignmentService hands the periods of a workload request over to colleagues in the
// same department, one period at a time, choosing the least-loaded eligible candidate.
type ReassignmentService struct {
	uow     timetableUnitOfWork
	cache   *WorkloadCache
	metrics *MetricsService
	logger  *zap.Logger
	policy  string
}

// NewReassignmentService constructs a ReassignmentService. Unknown policies fall back to strict.
func NewReassignmentService(uow timetableUnitOfWork, cache *WorkloadCache, metrics *MetricsService, logger *zap.Logger, policy string) *ReassignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy != config.ReassignPolicyLenient {
		policy = config.ReassignPolicyStrict
	}
	return &ReassignmentService{uow: uow, cache: cache, metrics: metrics, logger: logger, policy: policy}
}

// AutoReassign processes every period of the request and records the outcome on it.
// Per-period failures are reported through the decision log, never as errors.
func (s *ReassignmentService) AutoReassign(ctx context.Context, actor *models.JWTClaims, requestID string) (*models.ReassignmentResult, error) {
	var result *models.ReassignmentResult
	var departmentID string

	err := s.uow.InTx(ctx, func(tx repository.TimetableTx) error {
		req, err := tx.GetWorkloadRequest(ctx, requestID)
		if err != nil {
			return lookupError(err, "workload request not found", "failed to load workload request")
		}
		if req.Status == models.WorkloadStatusReassigned {
			return appErrors.Clone(appErrors.ErrAlreadyReassigned, "")
		}
		departmentID = req.DepartmentID

		staff, err := tx.ListDepartmentFaculty(ctx, req.DepartmentID)
		if err != nil {
			return err
		}
		candidates := make([]models.Faculty, 0, len(staff))
		for _, member := range staff {
			if member.ID != req.FacultyID {
				candidates = append(candidates, member)
			}
		}

		res := &models.ReassignmentResult{RequestID: req.ID}
		var successes, failures []string
		for _, raw := range req.Periods {
			period := int(raw)
			slot, err := tx.FindFacultySlot(ctx, req.FacultyID, req.Date, period)
			if err != nil {
				return err
			}
			if slot == nil {
				res.Skipped = append(res.Skipped, period)
				continue
			}

			chosen, err := s.pickReplacement(ctx, tx, candidates, slot)
			if err != nil {
				return err
			}
			if chosen == nil {
				failures = append(failures, fmt.Sprintf("P%d: No replacement found", period))
				res.Failed = append(res.Failed, period)
				continue
			}

			slot.FacultyID = chosen.ID
			if err := tx.UpdateSlot(ctx, slot); err != nil {
				return err
			}
			if err := tx.AdjustHours(ctx, newLedgerEntry(req.FacultyID, -slot.Hours, models.HourReasonReassign, slot.ID, req.ID, actor)); err != nil {
				return err
			}
			if err := tx.AdjustHours(ctx, newLedgerEntry(chosen.ID, slot.Hours, models.HourReasonReassign, slot.ID, req.ID, actor)); err != nil {
				return err
			}
			chosen.CurrentHours += slot.Hours

			successes = append(successes, fmt.Sprintf("P%d: Reassigned to %s", period, chosen.Name))
			res.Reassigned = append(res.Reassigned, models.PeriodReassignment{
				Period:        period,
				SlotID:        slot.ID,
				FromFacultyID: req.FacultyID,
				ToFacultyID:   chosen.ID,
				ToFacultyName: chosen.Name,
				Hours:         slot.Hours,
			})
		}

		status, log := decideOutcome(successes, failures)
		req.Status = status
		req.DecisionLog = &log
		req.EscalatedTo = nil
		if status == models.WorkloadStatusEscalated {
			target := models.EscalationTarget
			req.EscalatedTo = &target
		}
		if err := tx.UpdateWorkloadRequest(ctx, req); err != nil {
			return err
		}

		res.Status = status
		res.DecisionLog = log
		result = res
		return nil
	})
	if err != nil {
		translated := translateStoreError(err, "failed to reassign workload request")
		if appErrors.FromError(translated).Status >= 500 {
			s.logger.Error("auto reassignment failed", zap.String("request_id", requestID), zap.Error(err))
		}
		return nil, translated
	}

	s.metrics.RecordReassignment(len(result.Reassigned), len(result.Failed), len(result.Skipped))
	if len(result.Reassigned) > 0 {
		s.cache.Invalidate(ctx, departmentID)
	}
	s.logger.Info("workload request processed",
		zap.String("request_id", requestID),
		zap.String("status", string(result.Status)),
		zap.Int("reassigned", len(result.Reassigned)),
		zap.Int("failed", len(result.Failed)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// pickReplacement returns the eligible candidate with the lowest current hours. Ties keep
// enumeration order. Besides capacity and a free period, the candidate must stay within
// the three-consecutive-period cap on that date. The returned pointer aliases candidates
// so hour changes carry over to later periods of the same run.
func (s *ReassignmentService) pickReplacement(ctx context.Context, tx repository.TimetableTx, candidates []models.Faculty, slot *models.TimetableSlot) (*models.Faculty, error) {
	var best *models.Faculty
	for i := range candidates {
		candidate := &candidates[i]
		if !s.hasCapacity(candidate, slot) {
			continue
		}
		if best != nil && candidate.CurrentHours >= best.CurrentHours {
			continue
		}
		busy, err := tx.FindFacultySlot(ctx, candidate.ID, slot.Date, slot.Period)
		if err != nil {
			return nil, err
		}
		if busy != nil {
			continue
		}
		sameDay, err := tx.ListFacultySlotsOnDate(ctx, candidate.ID, slot.Date)
		if err != nil {
			return nil, err
		}
		if exceedsContinuity(occupiedPeriods(sameDay, ""), slot.Period) {
			continue
		}
		best = candidate
	}
	return best, nil
}

func (s *ReassignmentService) hasCapacity(candidate *models.Faculty, slot *models.TimetableSlot) bool {
	if s.policy == config.ReassignPolicyLenient {
		return candidate.CurrentHours < candidate.MaxHours
	}
	return hasSkill(candidate.Skills, slot.Subject) && candidate.CurrentHours+slot.Hours <= candidate.MaxHours
}

func decideOutcome(successes, failures []string) (models.WorkloadRequestStatus, string) {
	switch {
	case len(successes) > 0 && len(failures) == 0:
		return models.WorkloadStatusApproved, strings.Join(successes, "; ")
	case len(successes) > 0:
		return models.WorkloadStatusEscalated, fmt.Sprintf("Partial: %s | Failed: %s", strings.Join(successes, "; "), strings.Join(failures, "; "))
	case len(failures) > 0:
		return models.WorkloadStatusEscalated, strings.Join(failures, "; ")
	default:
		return models.WorkloadStatusEscalated, noScheduledPeriodsNote
	}
}
