package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-workload-api/internal/models"
	"github.com/noah-isme/faculty-workload-api/internal/repository"
	"github.com/noah-isme/faculty-workload-api/pkg/jobs"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
)

// ReconcileJobType labels queue jobs produced by the reconciliation sweep.
const ReconcileJobType = "faculty.reconcile"

type driftRepository interface {
	Drift(ctx context.Context, facultyID string) (*models.WorkloadDrift, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// ReconciliationService compares stored faculty hours with the timetable and optionally
// corrects the counter through the hour ledger.
type ReconciliationService struct {
	uow     timetableUnitOfWork
	repo    driftRepository
	cache   *WorkloadCache
	metrics *MetricsService
	logger  *zap.Logger
}

// NewReconciliationService constructs a ReconciliationService.
func NewReconciliationService(uow timetableUnitOfWork, repo driftRepository, cache *WorkloadCache, metrics *MetricsService, logger *zap.Logger) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{uow: uow, repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// Reconcile measures drift for one faculty member and, when repair is set, writes a
// RECONCILE ledger entry that brings current hours back to the scheduled total.
func (s *ReconciliationService) Reconcile(ctx context.Context, actor *models.JWTClaims, facultyID string, repair bool) (*models.WorkloadDrift, error) {
	drift, err := s.repo.Drift(ctx, facultyID)
	if err != nil {
		s.metrics.RecordReconcile("error")
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to measure workload drift")
	}
	drift.CheckedAt = time.Now().UTC()
	s.metrics.SetHourDrift(facultyID, drift.Drift)

	if !drift.HasDrift() {
		s.metrics.RecordReconcile("clean")
		return drift, nil
	}
	s.logger.Warn("faculty hour drift detected",
		zap.String("faculty_id", facultyID),
		zap.Float64("recorded_hours", drift.RecordedHours),
		zap.Float64("scheduled_hours", drift.ScheduledHours),
		zap.Float64("ledger_hours", drift.LedgerHours),
	)
	if !repair {
		s.metrics.RecordReconcile("drift")
		return drift, nil
	}

	var departmentID string
	err = s.uow.InTx(ctx, func(tx repository.TimetableTx) error {
		faculty, err := tx.GetFaculty(ctx, facultyID)
		if err != nil {
			return lookupError(err, "faculty not found", "failed to load faculty")
		}
		departmentID = faculty.DepartmentID
		scheduled, err := tx.ScheduledHours(ctx, facultyID)
		if err != nil {
			return err
		}
		delta := scheduled - faculty.CurrentHours
		if delta == 0 {
			return nil
		}
		return tx.AdjustHours(ctx, newLedgerEntry(facultyID, delta, models.HourReasonReconcile, "", "", actor))
	})
	if err != nil {
		s.metrics.RecordReconcile("error")
		translated := translateStoreError(err, "failed to repair workload drift")
		if appErrors.FromError(translated).Status >= 500 {
			s.logger.Error("workload drift repair failed", zap.String("faculty_id", facultyID), zap.Error(err))
		}
		return nil, translated
	}

	drift.RecordedHours = drift.ScheduledHours
	drift.Drift = 0
	drift.Repaired = true
	s.metrics.SetHourDrift(facultyID, 0)
	s.metrics.RecordReconcile("repaired")
	s.cache.Invalidate(ctx, departmentID)
	s.logger.Info("faculty hour drift repaired", zap.String("faculty_id", facultyID))
	return drift, nil
}

// ReconcileSweeper enqueues one reconciliation job per faculty member.
type ReconcileSweeper struct {
	repo   driftRepository
	queue  jobDispatcher
	logger *zap.Logger
}

// NewReconcileSweeper constructs a sweeper.
func NewReconcileSweeper(repo driftRepository, queue jobDispatcher, logger *zap.Logger) *ReconcileSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileSweeper{repo: repo, queue: queue, logger: logger}
}

// Sweep lists every faculty member and schedules a reconciliation job for each.
func (s *ReconcileSweeper) Sweep(ctx context.Context) error {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return err
	}
	enqueued := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: ReconcileJobType, Payload: id}); err != nil {
			return fmt.Errorf("enqueue reconcile job for %s: %w", id, err)
		}
		enqueued++
	}
	s.logger.Info("reconciliation sweep queued", zap.Int("faculty", enqueued))
	return nil
}

type reconciler interface {
	Reconcile(ctx context.Context, actor *models.JWTClaims, facultyID string, repair bool) (*models.WorkloadDrift, error)
}

// ReconcileWorker bridges queue jobs to the reconciliation service.
type ReconcileWorker struct {
	svc    reconciler
	repair bool
}

// NewReconcileWorker constructs a worker. repair controls whether drift is corrected automatically.
func NewReconcileWorker(svc reconciler, repair bool) *ReconcileWorker {
	return &ReconcileWorker{svc: svc, repair: repair}
}

// Handle processes a queue job.
func (w *ReconcileWorker) Handle(ctx context.Context, job jobs.Job) error {
	facultyID, ok := job.Payload.(string)
	if !ok || facultyID == "" {
		return fmt.Errorf("reconcile job %s: missing faculty id", job.ID)
	}
	_, err := w.svc.Reconcile(ctx, nil, facultyID, w.repair)
	if appErrors.HasCode(err, appErrors.ErrNotFound.Code) {
		return nil
	}
	return err
}
