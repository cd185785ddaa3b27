package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-workload-api/internal/models"
)

const workloadRequestColumns = `id, faculty_id, department_id, date, type, periods, reason, status, escalated_to, decision_log, created_at, updated_at`

// WorkloadRequestRepository persists workload requests.
type WorkloadRequestRepository struct {
	db *sqlx.DB
}

// NewWorkloadRequestRepository constructs a WorkloadRequestRepository.
func NewWorkloadRequestRepository(db *sqlx.DB) *WorkloadRequestRepository {
	return &WorkloadRequestRepository{db: db}
}

func (r *WorkloadRequestRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a new request.
func (r *WorkloadRequestRepository) Create(ctx context.Context, req *models.WorkloadRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	const query = `INSERT INTO workload_requests (id, faculty_id, department_id, date, type, periods, reason, status, escalated_to, decision_log, created_at, updated_at)
VALUES (:id, :faculty_id, :department_id, :date, :type, :periods, :reason, :status, :escalated_to, :decision_log, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create workload request: %w", err)
	}
	return nil
}

// FindByID fetches a request by ID.
func (r *WorkloadRequestRepository) FindByID(ctx context.Context, id string) (*models.WorkloadRequest, error) {
	query := `SELECT ` + workloadRequestColumns + ` FROM workload_requests WHERE id = $1`
	var req models.WorkloadRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByIDForUpdate fetches a request and locks its row for the surrounding transaction.
func (r *WorkloadRequestRepository) FindByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.WorkloadRequest, error) {
	query := `SELECT ` + workloadRequestColumns + ` FROM workload_requests WHERE id = $1 FOR UPDATE`
	var req models.WorkloadRequest
	if err := sqlx.GetContext(ctx, r.exec(exec), &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// List returns requests matching the filter, newest first.
func (r *WorkloadRequestRepository) List(ctx context.Context, filter models.WorkloadRequestFilter) ([]models.WorkloadRequestView, error) {
	base := `FROM workload_requests w JOIN faculty f ON f.id = w.faculty_id JOIN departments d ON d.id = w.department_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if len(filter.Status) > 0 {
		holders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, string(status))
			holders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, "w.status IN ("+strings.Join(holders, ",")+")")
	}
	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("w.faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT w.id, w.faculty_id, w.department_id, w.date, w.type, w.periods, w.reason, w.status, w.escalated_to, w.decision_log, w.created_at, w.updated_at, f.name AS faculty_name, d.name AS department_name %s ORDER BY w.created_at DESC LIMIT %d OFFSET %d`, base, limit, offset)
	var rows []models.WorkloadRequestView
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list workload requests: %w", err)
	}
	return rows, nil
}

// Update rewrites the editable columns of a request.
func (r *WorkloadRequestRepository) Update(ctx context.Context, exec sqlx.ExtContext, req *models.WorkloadRequest) error {
	req.UpdatedAt = time.Now().UTC()
	const query = `UPDATE workload_requests SET reason = :reason, status = :status, escalated_to = :escalated_to, decision_log = :decision_log, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, req); err != nil {
		return fmt.Errorf("update workload request: %w", err)
	}
	return nil
}

// Delete removes a request.
func (r *WorkloadRequestRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM workload_requests WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete workload request: %w", err)
	}
	return nil
}
