package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/faculty-workload-api/internal/models"
	"github.com/noah-isme/faculty-workload-api/internal/repository"
)

// memoryTimetable is an in-memory stand-in for the Postgres unit of work. Transactions are
// serialised by a mutex and roll back by restoring a snapshot.
type memoryTimetable struct {
	mu       sync.Mutex
	faculty  map[string]models.Faculty
	slots    map[string]models.TimetableSlot
	requests map[string]models.WorkloadRequest
	ledger   []models.HourLedgerEntry
	seq      int
	txCount  int
}

func newMemoryTimetable() *memoryTimetable {
	return &memoryTimetable{
		faculty:  map[string]models.Faculty{},
		slots:    map[string]models.TimetableSlot{},
		requests: map[string]models.WorkloadRequest{},
	}
}

func (m *memoryTimetable) addFaculty(f models.Faculty) {
	if f.MaxHours == 0 {
		f.MaxHours = models.DefaultMaxHours
	}
	m.faculty[f.ID] = f
}

// seedSlot inserts a slot and charges its hours without going through the service.
func (m *memoryTimetable) seedSlot(slot models.TimetableSlot) models.TimetableSlot {
	if slot.Type == "" {
		slot.Type = models.SessionTheory
	}
	slot.Hours = slot.Type.Hours()
	if slot.ID == "" {
		m.seq++
		slot.ID = fmt.Sprintf("seed-%d", m.seq)
	}
	m.slots[slot.ID] = slot
	f := m.faculty[slot.FacultyID]
	f.CurrentHours += slot.Hours
	m.faculty[slot.FacultyID] = f
	return slot
}

func (m *memoryTimetable) addRequest(req models.WorkloadRequest) {
	m.requests[req.ID] = req
}

func (m *memoryTimetable) facultyHours(id string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.faculty[id].CurrentHours
}

func (m *memoryTimetable) scheduledHours(id string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0.0
	for _, slot := range m.slots {
		if slot.FacultyID == id {
			total += slot.Hours
		}
	}
	return total
}

func (m *memoryTimetable) slotCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

func (m *memoryTimetable) ledgerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ledger)
}

func (m *memoryTimetable) slot(id string) models.TimetableSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[id]
}

func (m *memoryTimetable) request(id string) models.WorkloadRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[id]
}

func (m *memoryTimetable) InTx(ctx context.Context, fn func(repository.TimetableTx) error) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCount++

	snapshot := m.snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.restore(snapshot)
			panic(p)
		}
		if err != nil {
			m.restore(snapshot)
		}
	}()
	return fn(&memoryTx{store: m})
}

type memorySnapshot struct {
	faculty  map[string]models.Faculty
	slots    map[string]models.TimetableSlot
	requests map[string]models.WorkloadRequest
	ledger   []models.HourLedgerEntry
}

func (m *memoryTimetable) snapshot() memorySnapshot {
	snap := memorySnapshot{
		faculty:  make(map[string]models.Faculty, len(m.faculty)),
		slots:    make(map[string]models.TimetableSlot, len(m.slots)),
		requests: make(map[string]models.WorkloadRequest, len(m.requests)),
		ledger:   append([]models.HourLedgerEntry(nil), m.ledger...),
	}
	for k, v := range m.faculty {
		snap.faculty[k] = v
	}
	for k, v := range m.slots {
		snap.slots[k] = v
	}
	for k, v := range m.requests {
		snap.requests[k] = v
	}
	return snap
}

func (m *memoryTimetable) restore(snap memorySnapshot) {
	m.faculty = snap.faculty
	m.slots = snap.slots
	m.requests = snap.requests
	m.ledger = snap.ledger
}

type memoryTx struct {
	store *memoryTimetable
}

func (t *memoryTx) GetFaculty(ctx context.Context, id string) (*models.Faculty, error) {
	f, ok := t.store.faculty[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &f, nil
}

func (t *memoryTx) ListDepartmentFaculty(ctx context.Context, departmentID string) ([]models.Faculty, error) {
	var out []models.Faculty
	for _, f := range t.store.faculty {
		if f.DepartmentID == departmentID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (t *memoryTx) ScheduledHours(ctx context.Context, facultyID string) (float64, error) {
	total := 0.0
	for _, slot := range t.store.slots {
		if slot.FacultyID == facultyID {
			total += slot.Hours
		}
	}
	return total, nil
}

func (t *memoryTx) GetSlot(ctx context.Context, id string) (*models.TimetableSlot, error) {
	slot, ok := t.store.slots[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &slot, nil
}

func (t *memoryTx) FindFacultySlot(ctx context.Context, facultyID string, date time.Time, period int) (*models.TimetableSlot, error) {
	for _, slot := range t.store.slots {
		if slot.FacultyID == facultyID && slot.Date.Equal(date) && slot.Period == period {
			found := slot
			return &found, nil
		}
	}
	return nil, nil
}

func (t *memoryTx) FindClassSlot(ctx context.Context, departmentID, classYear string, date time.Time, period int) (*models.TimetableSlot, error) {
	for _, slot := range t.store.slots {
		if slot.DepartmentID == departmentID && slot.ClassYear == classYear && slot.Date.Equal(date) && slot.Period == period {
			found := slot
			return &found, nil
		}
	}
	return nil, nil
}

func (t *memoryTx) ListFacultySlotsOnDate(ctx context.Context, facultyID string, date time.Time) ([]models.TimetableSlot, error) {
	var out []models.TimetableSlot
	for _, slot := range t.store.slots {
		if slot.FacultyID == facultyID && slot.Date.Equal(date) {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

// checkUnique mirrors the two unique constraints on timetable_slots.
func (t *memoryTx) checkUnique(slot *models.TimetableSlot) error {
	for _, other := range t.store.slots {
		if other.ID == slot.ID || !other.Date.Equal(slot.Date) || other.Period != slot.Period {
			continue
		}
		if other.FacultyID == slot.FacultyID {
			return repository.ErrFacultySlotTaken
		}
		if other.DepartmentID == slot.DepartmentID && other.ClassYear == slot.ClassYear {
			return repository.ErrClassSlotTaken
		}
	}
	return nil
}

func (t *memoryTx) CreateSlot(ctx context.Context, slot *models.TimetableSlot) error {
	t.store.seq++
	slot.ID = fmt.Sprintf("slot-%d", t.store.seq)
	if err := t.checkUnique(slot); err != nil {
		return err
	}
	t.store.slots[slot.ID] = *slot
	return nil
}

func (t *memoryTx) UpdateSlot(ctx context.Context, slot *models.TimetableSlot) error {
	if _, ok := t.store.slots[slot.ID]; !ok {
		return sql.ErrNoRows
	}
	if err := t.checkUnique(slot); err != nil {
		return err
	}
	t.store.slots[slot.ID] = *slot
	return nil
}

func (t *memoryTx) DeleteSlot(ctx context.Context, id string) error {
	if _, ok := t.store.slots[id]; !ok {
		return sql.ErrNoRows
	}
	delete(t.store.slots, id)
	return nil
}

func (t *memoryTx) AdjustHours(ctx context.Context, entry *models.HourLedgerEntry) error {
	f, ok := t.store.faculty[entry.FacultyID]
	if !ok {
		return fmt.Errorf("faculty %s not found", entry.FacultyID)
	}
	f.CurrentHours += entry.Delta
	t.store.faculty[entry.FacultyID] = f
	t.store.ledger = append(t.store.ledger, *entry)
	return nil
}

func (t *memoryTx) GetWorkloadRequest(ctx context.Context, id string) (*models.WorkloadRequest, error) {
	req, ok := t.store.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	req.Periods = append(req.Periods[:0:0], req.Periods...)
	return &req, nil
}

func (t *memoryTx) UpdateWorkloadRequest(ctx context.Context, req *models.WorkloadRequest) error {
	if _, ok := t.store.requests[req.ID]; !ok {
		return sql.ErrNoRows
	}
	t.store.requests[req.ID] = *req
	return nil
}

func mustDate(raw string) time.Time {
	d, err := models.ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}
