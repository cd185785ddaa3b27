package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the timetable engine metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic, cache usage and
// the timetable engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	slotOperations    *prometheus.CounterVec
	reassignedPeriods *prometheus.CounterVec
	hourDrift         *prometheus.GaugeVec
	reconcileRuns     *prometheus.CounterVec

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	slotOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_slot_operations_total",
		Help: "Timetable slot commits, edits and deletes by outcome",
	}, []string{"operation", "outcome"})

	reassignedPeriods := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workload_reassigned_periods_total",
		Help: "Periods processed by auto reassignment by outcome",
	}, []string{"outcome"})

	hourDrift := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "faculty_hour_drift",
		Help: "Difference between recorded faculty hours and scheduled slot hours",
	}, []string{"faculty_id"})

	reconcileRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "faculty_hour_reconcile_total",
		Help: "Hour reconciliation runs by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		slotOperations, reassignedPeriods, hourDrift, reconcileRuns, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:          registry,
		handler:           handler,
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLatency:      cacheLatency,
		cacheWrite:        cacheWrite,
		cacheHitRatio:     cacheHitRatio,
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
		slotOperations:    slotOperations,
		reassignedPeriods: reassignedPeriods,
		hourDrift:         hourDrift,
		reconcileRuns:     reconcileRuns,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordSlotOperation counts a commit/edit/delete attempt.
func (m *MetricsService) RecordSlotOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.slotOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordReassignment counts periods handled by one auto-reassign run.
func (m *MetricsService) RecordReassignment(reassigned, unfilled, skipped int) {
	if m == nil {
		return
	}
	m.reassignedPeriods.WithLabelValues("reassigned").Add(float64(reassigned))
	m.reassignedPeriods.WithLabelValues("unfilled").Add(float64(unfilled))
	m.reassignedPeriods.WithLabelValues("skipped").Add(float64(skipped))
}

// SetHourDrift publishes the latest drift measured for a faculty member.
func (m *MetricsService) SetHourDrift(facultyID string, drift float64) {
	if m == nil {
		return
	}
	m.hourDrift.WithLabelValues(facultyID).Set(drift)
}

// RecordReconcile counts a reconciliation result (clean, drift, repaired, error).
func (m *MetricsService) RecordReconcile(result string) {
	if m == nil {
		return
	}
	m.reconcileRuns.WithLabelValues(result).Inc()
}
