package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// Audit metrics double as the observability sink required for fail-safe
// logging: persistence failures are counted here instead of being raised to
// the audited operation.
type Metrics struct {
	AuditEventsRecorded  *prometheus.CounterVec
	AuditPersistFailures prometheus.Counter
	RollupDuration       prometheus.Histogram
	RollupCacheHits      prometheus.Counter
	RollupCacheMisses    prometheus.Counter
	KegiatanCreated      prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AuditEventsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "simonev_audit_events_recorded_total",
			Help: "Total number of audit events recorded, by action type",
		}, []string{"action"}),
		AuditPersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "simonev_audit_persist_failures_total",
			Help: "Total number of audit events lost to storage failures",
		}),
		RollupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "simonev_progress_rollup_duration_seconds",
			Help:    "Duration of project rollup computations (dashboard critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RollupCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "simonev_progress_rollup_cache_hits_total",
			Help: "Total number of rollups served from the Redis cache",
		}),
		RollupCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "simonev_progress_rollup_cache_misses_total",
			Help: "Total number of rollups recomputed from stage records",
		}),
		KegiatanCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "simonev_kegiatan_created_total",
			Help: "Total number of kegiatan created in the system",
		}),
	}
}

// IncAuditRecorded records one persisted audit event.
func (m *Metrics) IncAuditRecorded(action string) {
	if m == nil {
		return
	}
	m.AuditEventsRecorded.WithLabelValues(action).Inc()
}

// IncAuditPersistFailure records one audit event lost to a storage failure.
func (m *Metrics) IncAuditPersistFailure() {
	if m == nil {
		return
	}
	m.AuditPersistFailures.Inc()
}

// ObserveRollup records the duration of a rollup computation.
// Call with time.Now() at the start of the computation.
func (m *Metrics) ObserveRollup(start time.Time) {
	if m == nil {
		return
	}
	m.RollupDuration.Observe(time.Since(start).Seconds())
}

// IncCacheHit records a rollup served from cache.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.RollupCacheHits.Inc()
}

// IncCacheMiss records a rollup recomputed from stage records.
func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.RollupCacheMisses.Inc()
}

// IncKegiatanCreated records a successful kegiatan creation.
func (m *Metrics) IncKegiatanCreated() {
	if m == nil {
		return
	}
	m.KegiatanCreated.Inc()
}
