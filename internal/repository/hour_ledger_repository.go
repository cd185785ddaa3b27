package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-workload-api/internal/models"
)

// HourLedgerRepository moves faculty hour counters and records every move.
type HourLedgerRepository struct {
	db *sqlx.DB
}

// NewHourLedgerRepository constructs a HourLedgerRepository.
func NewHourLedgerRepository(db *sqlx.DB) *HourLedgerRepository {
	return &HourLedgerRepository{db: db}
}

func (r *HourLedgerRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Adjust applies entry.Delta to the faculty counter and appends the entry to the ledger.
// Both statements must share exec when it is a transaction.
func (r *HourLedgerRepository) Adjust(ctx context.Context, exec sqlx.ExtContext, entry *models.HourLedgerEntry) error {
	target := r.exec(exec)
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	const update = `UPDATE faculty SET current_hours = current_hours + $2, updated_at = $3 WHERE id = $1`
	res, err := target.ExecContext(ctx, update, entry.FacultyID, entry.Delta, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("adjust faculty hours: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("adjust faculty hours: faculty %s not found", entry.FacultyID)
	}

	const insert = `INSERT INTO hour_ledger_entries (id, faculty_id, delta, reason, slot_id, request_id, actor_id, created_at)
VALUES (:id, :faculty_id, :delta, :reason, :slot_id, :request_id, :actor_id, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insert, entry); err != nil {
		return fmt.Errorf("append hour ledger entry: %w", err)
	}
	return nil
}

// ListByFaculty returns the most recent ledger entries of a faculty member.
func (r *HourLedgerRepository) ListByFaculty(ctx context.Context, facultyID string, limit int) ([]models.HourLedgerEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, faculty_id, delta, reason, slot_id, request_id, actor_id, created_at FROM hour_ledger_entries WHERE faculty_id = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var entries []models.HourLedgerEntry
	if err := r.db.SelectContext(ctx, &entries, query, facultyID); err != nil {
		return nil, fmt.Errorf("list hour ledger: %w", err)
	}
	return entries, nil
}
