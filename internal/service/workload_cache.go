package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/faculty-workload-api/internal/models"
)

const workloadCachePrefix = "workload:department:"

// WorkloadCache keeps department workload summaries in the shared cache and drops them
// whenever a timetable mutation moves faculty hours.
type WorkloadCache struct {
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewWorkloadCache wraps a cache service with the department workload key scheme.
func NewWorkloadCache(cache *CacheService, ttl time.Duration, logger *zap.Logger) *WorkloadCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadCache{cache: cache, ttl: ttl, logger: logger}
}

func workloadCacheKey(departmentID string) string {
	return workloadCachePrefix + departmentID
}

// Get loads a cached summary. It returns false on a miss or when caching is disabled.
func (w *WorkloadCache) Get(ctx context.Context, departmentID string) ([]models.FacultyWorkload, bool) {
	if w == nil || !w.cache.Enabled() {
		return nil, false
	}
	var rows []models.FacultyWorkload
	hit, err := w.cache.Get(ctx, workloadCacheKey(departmentID), &rows)
	if err != nil || !hit {
		return nil, false
	}
	return rows, true
}

// Set stores a summary.
func (w *WorkloadCache) Set(ctx context.Context, departmentID string, rows []models.FacultyWorkload) {
	if w == nil || !w.cache.Enabled() {
		return
	}
	_ = w.cache.Set(ctx, workloadCacheKey(departmentID), rows, w.ttl)
}

// Invalidate drops the cached summaries of the given departments. Empty and repeated ids
// are ignored.
func (w *WorkloadCache) Invalidate(ctx context.Context, departmentIDs ...string) {
	if w == nil || !w.cache.Enabled() {
		return
	}
	seen := make(map[string]struct{}, len(departmentIDs))
	keys := make([]string, 0, len(departmentIDs))
	for _, id := range departmentIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, workloadCacheKey(id))
	}
	if err := w.cache.Invalidate(ctx, keys...); err != nil {
		w.logger.Warn("failed to invalidate workload cache", zap.Strings("department_ids", departmentIDs), zap.Error(err))
	}
}
