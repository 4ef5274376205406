package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahityapata_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sahityapata_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostSubmissions counts submitted posts by category.
	PostSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahityapata_post_submissions_total",
		Help: "Total number of posts submitted for review by category",
	}, []string{"category"})

	// ModerationDecisions counts moderation outcomes by decision (approve, reject, delete).
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahityapata_moderation_decisions_total",
		Help: "Total number of moderation decisions by outcome",
	}, []string{"decision"})

	// FeedCacheResults counts feed cache lookups by result (hit, miss).
	FeedCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahityapata_feed_cache_results_total",
		Help: "Total number of feed cache lookups by result",
	}, []string{"result"})

	// SessionResolutions counts session gate outcomes (new, returning, banned).
	SessionResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahityapata_session_resolutions_total",
		Help: "Total number of session resolutions by outcome",
	}, []string{"outcome"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
