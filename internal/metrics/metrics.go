// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBRowsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_rows_loaded_total",
			Help: "Total number of rows read from or imported into DuckDB",
		},
		[]string{"table"},
	)

	// Recommendation Engine Metrics
	RecommendOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_operation_duration_seconds",
			Help:    "Duration of recommendation engine queries in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	RecommendOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_operation_errors_total",
			Help: "Total number of failed recommendation engine queries",
		},
		[]string{"operation", "kind"},
	)

	// Snapshot Metrics
	SnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_version",
			Help: "Version of the snapshot currently serving queries",
		},
	)

	SnapshotUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_users",
			Help: "Number of users in the current snapshot",
		},
	)

	SnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_items",
			Help: "Number of items with metadata in the current snapshot",
		},
	)

	SnapshotRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_ratings",
			Help: "Number of distinct ratings in the current snapshot",
		},
	)

	SnapshotBuiltTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_built_timestamp_seconds",
			Help: "Unix timestamp when the current snapshot was built",
		},
	)

	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_refresh_total",
			Help: "Total number of snapshot refresh attempts",
		},
		[]string{"status"}, // "success", "failure", "skipped"
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_refresh_duration_seconds",
			Help:    "Duration of snapshot refreshes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	RefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_refresh_last_success_timestamp",
			Help: "Unix timestamp of the last successful snapshot refresh",
		},
	)

	SnapshotPersistTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_snapshot_persist_total",
			Help: "Total number of snapshot store operations",
		},
		[]string{"operation", "status"}, // operation: "save", "restore"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages to bound label cardinality
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordRowsLoaded adds n rows to the table's load counter.
func RecordRowsLoaded(table string, n int) {
	DBRowsLoaded.WithLabelValues(table).Add(float64(n))
}

// RecordOperation records an engine query. kind is empty on success.
func RecordOperation(operation, kind string, duration time.Duration) {
	RecommendOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if kind != "" {
		RecommendOperationErrors.WithLabelValues(operation, kind).Inc()
	}
}

// RecordRefresh records one refresh attempt.
func RecordRefresh(status string, duration time.Duration) {
	RefreshTotal.WithLabelValues(status).Inc()
	if status == "skipped" {
		return
	}
	RefreshDuration.Observe(duration.Seconds())
	if status == "success" {
		RefreshLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// SetSnapshot updates the snapshot gauges.
func SetSnapshot(version int64, users, items, ratings int, builtAt time.Time) {
	SnapshotVersion.Set(float64(version))
	SnapshotUsers.Set(float64(users))
	SnapshotItems.Set(float64(items))
	SnapshotRatings.Set(float64(ratings))
	if !builtAt.IsZero() {
		SnapshotBuiltTimestamp.Set(float64(builtAt.Unix()))
	}
}

// RecordSnapshotPersist records a snapshot store save or restore.
func RecordSnapshotPersist(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	SnapshotPersistTotal.WithLabelValues(operation, status).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rejected request on endpoint.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}
