package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-workload-api/internal/models"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
)

type facultyRepoStub struct {
	byID        map[string]models.Faculty
	byUser      map[string]models.Faculty
	workload    []models.FacultyWorkload
	workloadErr error
	workloadHit int
}

func (s *facultyRepoStub) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Faculty, error) {
	f, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &f, nil
}

func (s *facultyRepoStub) FindByUserID(ctx context.Context, userID string) (*models.Faculty, error) {
	f, ok := s.byUser[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &f, nil
}

func (s *facultyRepoStub) WorkloadByDepartment(ctx context.Context, departmentID string) ([]models.FacultyWorkload, error) {
	s.workloadHit++
	return s.workload, s.workloadErr
}

type slotListStub struct {
	rows []models.TimetableSlotView
	err  error
}

func (s slotListStub) ListByFaculty(ctx context.Context, facultyID string) ([]models.TimetableSlotView, error) {
	return s.rows, s.err
}

type departmentStub struct {
	departments map[string]models.Department
}

func (s departmentStub) FindByID(ctx context.Context, id string) (*models.Department, error) {
	d, ok := s.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

// mapCacheRepo keeps JSON-encoded values in memory.
type mapCacheRepo struct {
	values  map[string][]byte
	deleted []string
}

func newMapCacheRepo() *mapCacheRepo {
	return &mapCacheRepo{values: map[string][]byte{}}
}

func (r *mapCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := r.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *mapCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.values[key] = raw
	return nil
}

func (r *mapCacheRepo) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		r.deleted = append(r.deleted, key)
		delete(r.values, key)
	}
	return nil
}

func newFacultyFixture(cache *WorkloadCache) (*FacultyService, *facultyRepoStub) {
	repo := &facultyRepoStub{
		byID: map[string]models.Faculty{
			"f-1": {ID: "f-1", Name: "Asha", DepartmentID: testDept, CurrentHours: 2, MaxHours: 16},
		},
		byUser: map[string]models.Faculty{
			"u-1": {ID: "f-1", Name: "Asha", DepartmentID: testDept},
		},
		workload: []models.FacultyWorkload{{ID: "f-1", Name: "Asha", Designation: "Professor", CurrentHours: 2, MaxHours: 16}},
	}
	slots := slotListStub{rows: []models.TimetableSlotView{{TimetableSlot: models.TimetableSlot{ID: "s-1", FacultyID: "f-1", Period: 2}}}}
	departments := departmentStub{departments: map[string]models.Department{testDept: {ID: testDept, Name: "Computer Science"}}}
	return NewFacultyService(repo, slots, departments, cache, nil), repo
}

func TestFacultyServiceCurrent(t *testing.T) {
	svc, _ := newFacultyFixture(nil)

	f, err := svc.Current(context.Background(), &models.JWTClaims{UserID: "u-9", FacultyID: "f-1"})
	require.NoError(t, err)
	assert.Equal(t, "f-1", f.ID)

	f, err = svc.Current(context.Background(), &models.JWTClaims{UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "f-1", f.ID)

	_, err = svc.Current(context.Background(), &models.JWTClaims{UserID: "u-2"})
	assert.Equal(t, appErrors.ErrNotFound.Code, errCode(err))

	_, err = svc.Current(context.Background(), nil)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errCode(err))
}

func TestFacultyServiceMyTimetable(t *testing.T) {
	svc, _ := newFacultyFixture(nil)

	rows, err := svc.MyTimetable(context.Background(), &models.JWTClaims{UserID: "u-1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "s-1", rows[0].ID)
}

func TestFacultyServiceDetails(t *testing.T) {
	svc, _ := newFacultyFixture(nil)

	detail, err := svc.Details(context.Background(), "f-1")
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", detail.DepartmentName)
	assert.Equal(t, 2.0, detail.Profile.CurrentHours)
	assert.Len(t, detail.Timetable, 1)

	_, err = svc.Details(context.Background(), "ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, errCode(err))
}

func TestFacultyServiceDepartmentWorkload(t *testing.T) {
	repo := newMapCacheRepo()
	cache := NewWorkloadCache(NewCacheService(repo, nil, time.Minute, nil, true), time.Minute, nil)
	svc, facultyRepo := newFacultyFixture(cache)

	rows, cached, err := svc.DepartmentWorkload(context.Background(), testDept)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, cached)
	assert.Equal(t, "Professor", rows[0].Designation)

	rows, cached, err = svc.DepartmentWorkload(context.Background(), testDept)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.True(t, cached)
	assert.Equal(t, 1, facultyRepo.workloadHit)

	cache.Invalidate(context.Background(), testDept)
	_, cached, err = svc.DepartmentWorkload(context.Background(), testDept)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, facultyRepo.workloadHit)

	_, _, err = svc.DepartmentWorkload(context.Background(), "dept-unknown")
	assert.Equal(t, appErrors.ErrNotFound.Code, errCode(err))

	facultyRepo.workloadErr = errors.New("db down")
	cache.Invalidate(context.Background(), testDept)
	_, _, err = svc.DepartmentWorkload(context.Background(), testDept)
	assert.Equal(t, appErrors.ErrInternal.Code, errCode(err))
}

func TestWorkloadCacheDisabledIsNoop(t *testing.T) {
	var nilCache *WorkloadCache
	_, ok := nilCache.Get(context.Background(), testDept)
	assert.False(t, ok)
	nilCache.Set(context.Background(), testDept, nil)
	nilCache.Invalidate(context.Background(), testDept)

	repo := newMapCacheRepo()
	disabled := NewWorkloadCache(NewCacheService(repo, nil, time.Minute, nil, false), time.Minute, nil)
	disabled.Set(context.Background(), testDept, []models.FacultyWorkload{{ID: "f-1"}})
	assert.Empty(t, repo.values)
}

func TestWorkloadCacheInvalidateDedupes(t *testing.T) {
	repo := newMapCacheRepo()
	cache := NewWorkloadCache(NewCacheService(repo, nil, time.Minute, nil, true), time.Minute, nil)

	cache.Invalidate(context.Background(), "a", "", "a", "b")
	assert.Equal(t, []string{"workload:department:a", "workload:department:b"}, repo.deleted)
}
