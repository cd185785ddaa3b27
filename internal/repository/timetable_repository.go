package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-workload-api/internal/models"
)

const slotColumns = `id, department_id, faculty_id, subject, day, date, period, class_year, room_number, type, hours, created_at, updated_at`

// TimetableRepository persists timetable slots.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByID fetches a slot by ID.
func (r *TimetableRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots WHERE id = $1 FOR UPDATE`
	var slot models.TimetableSlot
	if err := sqlx.GetContext(ctx, r.exec(exec), &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// FindByFacultySlot returns the slot a faculty member holds at (date, period), or nil when free.
func (r *TimetableRepository) FindByFacultySlot(ctx context.Context, exec sqlx.ExtContext, facultyID string, date time.Time, period int) (*models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots WHERE faculty_id = $1 AND date = $2 AND period = $3 LIMIT 1`
	var slot models.TimetableSlot
	if err := sqlx.GetContext(ctx, r.exec(exec), &slot, query, facultyID, date, period); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find faculty slot: %w", err)
	}
	return &slot, nil
}

// FindByClassSlot returns the slot occupying a class at (date, period), or nil when free.
func (r *TimetableRepository) FindByClassSlot(ctx context.Context, exec sqlx.ExtContext, departmentID, classYear string, date time.Time, period int) (*models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots WHERE department_id = $1 AND class_year = $2 AND date = $3 AND period = $4 LIMIT 1`
	var slot models.TimetableSlot
	if err := sqlx.GetContext(ctx, r.exec(exec), &slot, query, departmentID, classYear, date, period); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find class slot: %w", err)
	}
	return &slot, nil
}

// ListByFacultyAndDate returns the slots a faculty member teaches on one date ordered by period.
func (r *TimetableRepository) ListByFacultyAndDate(ctx context.Context, exec sqlx.ExtContext, facultyID string, date time.Time) ([]models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots WHERE faculty_id = $1 AND date = $2 ORDER BY period ASC`
	var slots []models.TimetableSlot
	if err := sqlx.SelectContext(ctx, r.exec(exec), &slots, query, facultyID, date); err != nil {
		return nil, fmt.Errorf("list faculty slots on date: %w", err)
	}
	return slots, nil
}

// Create inserts a slot.
func (r *TimetableRepository) Create(ctx context.Context, exec sqlx.ExtContext, slot *models.TimetableSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	const query = `INSERT INTO timetable_slots (id, department_id, faculty_id, subject, day, date, period, class_year, room_number, type, hours, created_at, updated_at)
VALUES (:id, :department_id, :faculty_id, :subject, :day, :date, :period, :class_year, :room_number, :type, :hours, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, slot); err != nil {
		return fmt.Errorf("create timetable slot: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a slot.
func (r *TimetableRepository) Update(ctx context.Context, exec sqlx.ExtContext, slot *models.TimetableSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetable_slots SET faculty_id = :faculty_id, subject = :subject, day = :day, date = :date, period = :period,
class_year = :class_year, room_number = :room_number, type = :type, hours = :hours, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, slot); err != nil {
		return fmt.Errorf("update timetable slot: %w", err)
	}
	return nil
}

// Delete removes a slot.
func (r *TimetableRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	const query = `DELETE FROM timetable_slots WHERE id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete timetable slot: %w", err)
	}
	return nil
}

// List returns slots matching filters along with the total count.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableSlotView, int, error) {
	base := `FROM timetable_slots s JOIN faculty f ON f.id = s.faculty_id JOIN departments d ON d.id = s.department_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("s.department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.ClassYear != "" {
		conditions = append(conditions, fmt.Sprintf("s.class_year = $%d", len(args)+1))
		args = append(args, filter.ClassYear)
	}
	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("s.faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("s.date = $%d", len(args)+1))
		args = append(args, *filter.Date)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.department_id, s.faculty_id, s.subject, s.day, s.date, s.period, s.class_year, s.room_number, s.type, s.hours, s.created_at, s.updated_at, f.name AS faculty_name, d.name AS department_name %s ORDER BY s.date ASC, s.period ASC, s.class_year ASC LIMIT %d OFFSET %d`, base, size, offset)
	var slots []models.TimetableSlotView
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list timetable slots: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count timetable slots: %w", err)
	}
	return slots, total, nil
}

// ListByFaculty returns every slot of a faculty member, most recent date first.
func (r *TimetableRepository) ListByFaculty(ctx context.Context, facultyID string) ([]models.TimetableSlotView, error) {
	const query = `SELECT s.id, s.department_id, s.faculty_id, s.subject, s.day, s.date, s.period, s.class_year, s.room_number, s.type, s.hours, s.created_at, s.updated_at, f.name AS faculty_name, d.name AS department_name
FROM timetable_slots s JOIN faculty f ON f.id = s.faculty_id JOIN departments d ON d.id = s.department_id
WHERE s.faculty_id = $1 ORDER BY s.date DESC, s.period ASC`
	var slots []models.TimetableSlotView
	if err := r.db.SelectContext(ctx, &slots, query, facultyID); err != nil {
		return nil, fmt.Errorf("list faculty timetable: %w", err)
	}
	return slots, nil
}
