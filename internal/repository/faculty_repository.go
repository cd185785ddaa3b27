package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-workload-api/internal/models"
)

const facultyColumns = `id, user_id, name, department_id, designation, skills, max_hours, current_hours, phone, created_at, updated_at`

// FacultyRepository reads faculty profiles and their workload counters.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

func (r *FacultyRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByID fetches a faculty member by ID.
func (r *FacultyRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculty WHERE id = $1`
	var faculty models.Faculty
	if err := sqlx.GetContext(ctx, r.exec(exec), &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// FindByIDForUpdate fetches a faculty member and locks the row until the transaction ends.
func (r *FacultyRepository) FindByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculty WHERE id = $1 FOR UPDATE`
	var faculty models.Faculty
	if err := sqlx.GetContext(ctx, r.exec(exec), &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// FindByUserID resolves the faculty profile linked to a login account.
func (r *FacultyRepository) FindByUserID(ctx context.Context, userID string) (*models.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculty WHERE user_id = $1 LIMIT 1`
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, userID); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// ListByDepartment returns every faculty member of a department in a stable order.
func (r *FacultyRepository) ListByDepartment(ctx context.Context, exec sqlx.ExtContext, departmentID string) ([]models.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculty WHERE department_id = $1 ORDER BY name ASC, id ASC`
	var faculty []models.Faculty
	if err := sqlx.SelectContext(ctx, r.exec(exec), &faculty, query, departmentID); err != nil {
		return nil, fmt.Errorf("list department faculty: %w", err)
	}
	return faculty, nil
}

// ListIDs returns the identifiers of every faculty member.
func (r *FacultyRepository) ListIDs(ctx context.Context) ([]string, error) {
	const query = `SELECT id FROM faculty ORDER BY id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list faculty ids: %w", err)
	}
	return ids, nil
}

// WorkloadByDepartment summarises the hour counters of a department.
func (r *FacultyRepository) WorkloadByDepartment(ctx context.Context, departmentID string) ([]models.FacultyWorkload, error) {
	const query = `SELECT id, name, designation, max_hours, current_hours FROM faculty WHERE department_id = $1 ORDER BY name ASC, id ASC`
	var rows []models.FacultyWorkload
	if err := r.db.SelectContext(ctx, &rows, query, departmentID); err != nil {
		return nil, fmt.Errorf("department workload: %w", err)
	}
	return rows, nil
}

// ScheduledHours sums the hours of every slot assigned to a faculty member.
func (r *FacultyRepository) ScheduledHours(ctx context.Context, exec sqlx.ExtContext, facultyID string) (float64, error) {
	const query = `SELECT COALESCE(SUM(hours), 0) FROM timetable_slots WHERE faculty_id = $1`
	var total float64
	if err := sqlx.GetContext(ctx, r.exec(exec), &total, query, facultyID); err != nil {
		return 0, fmt.Errorf("sum scheduled hours: %w", err)
	}
	return total, nil
}

// Drift compares the stored counter with the timetable and the ledger for one faculty member.
func (r *FacultyRepository) Drift(ctx context.Context, facultyID string) (*models.WorkloadDrift, error) {
	const query = `
SELECT f.id AS faculty_id,
       f.current_hours AS recorded_hours,
       COALESCE((SELECT SUM(s.hours) FROM timetable_slots s WHERE s.faculty_id = f.id), 0) AS scheduled_hours,
       COALESCE((SELECT SUM(l.delta) FROM hour_ledger_entries l WHERE l.faculty_id = f.id), 0) AS ledger_hours
FROM faculty f
WHERE f.id = $1`
	var drift models.WorkloadDrift
	if err := r.db.GetContext(ctx, &drift, query, facultyID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("compute workload drift: %w", err)
	}
	drift.Drift = drift.RecordedHours - drift.ScheduledHours
	return &drift, nil
}
