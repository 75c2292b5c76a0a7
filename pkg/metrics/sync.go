package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records snapshot refresh and changefeed publish activity.
type SyncMetrics struct {
	refreshDuration *prometheus.HistogramVec
	refreshSuccess  *prometheus.CounterVec
	refreshFailure  *prometheus.CounterVec
	published       *prometheus.CounterVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	refreshDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snapshot_refresh_duration_seconds",
		Help:    "Duration of full snapshot refreshes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"table"})
	refreshSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_refresh_success",
		Help: "Successful snapshot refreshes.",
	}, []string{"table"})
	refreshFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_refresh_failure",
		Help: "Failed snapshot refreshes.",
	}, []string{"table"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "changefeed_events_published",
		Help: "Change events drained to Pub/Sub.",
	}, []string{"table"})
	reg.MustRegister(refreshDuration, refreshSuccess, refreshFailure, published)
	return &SyncMetrics{
		refreshDuration: refreshDuration,
		refreshSuccess:  refreshSuccess,
		refreshFailure:  refreshFailure,
		published:       published,
	}
}

// ObserveRefresh records the duration of a snapshot refresh for the table.
func (s *SyncMetrics) ObserveRefresh(table string, duration time.Duration) {
	if s == nil || s.refreshDuration == nil {
		return
	}
	s.refreshDuration.WithLabelValues(normalizeLabel(table)).Observe(duration.Seconds())
}

// IncRefreshSuccess increments the success counter for the table.
func (s *SyncMetrics) IncRefreshSuccess(table string) {
	if s == nil || s.refreshSuccess == nil {
		return
	}
	s.refreshSuccess.WithLabelValues(normalizeLabel(table)).Inc()
}

// IncRefreshFailure increments the failure counter for the table.
func (s *SyncMetrics) IncRefreshFailure(table string) {
	if s == nil || s.refreshFailure == nil {
		return
	}
	s.refreshFailure.WithLabelValues(normalizeLabel(table)).Inc()
}

// AddPublished counts change events drained for the table.
func (s *SyncMetrics) AddPublished(table string, n int) {
	if s == nil || s.published == nil || n <= 0 {
		return
	}
	s.published.WithLabelValues(normalizeLabel(table)).Add(float64(n))
}

func normalizeLabel(table string) string {
	if table == "" {
		return "unknown"
	}
	return table
}
