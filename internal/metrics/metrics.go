// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

// Package metrics declares the Prometheus instruments exported on /metrics.
package metrics

import (
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
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	DBTransactionRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duckdb_transaction_retries_total",
			Help: "Total number of upserts retried after a transaction conflict",
		},
	)

	// Sequence Metrics
	SequenceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fizzbuzz_sequence_requests_total",
			Help: "Sequence requests by where the answer came from",
		},
		[]string{"source"}, // "hot", "store", "computed"
	)

	SequenceValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fizzbuzz_validation_failures_total",
			Help: "Rejected sequence requests by validation reason",
		},
		[]string{"reason"},
	)

	SequenceGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fizzbuzz_generation_duration_seconds",
			Help:    "Time spent rendering sequences",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	// Write Buffer Metrics
	BufferRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fizzbuzz_buffer_recorded_total",
			Help: "Requests appended to the write buffer",
		},
	)

	BufferFlushed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fizzbuzz_buffer_flushed_total",
			Help: "Requests persisted by buffer flushes",
		},
	)

	BufferFlushErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fizzbuzz_buffer_flush_errors_total",
			Help: "Buffer flushes that failed and kept their entries",
		},
	)

	BufferFlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fizzbuzz_buffer_flush_duration_seconds",
			Help:    "Duration of buffer flushes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	BufferSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fizzbuzz_buffer_entries",
			Help: "Requests currently waiting in the write buffer",
		},
	)

	// Cache Metrics
	HotCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fizzbuzz_hot_cache_hits_total",
			Help: "Sequence lookups answered by the hot cache",
		},
	)

	HotCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fizzbuzz_hot_cache_misses_total",
			Help: "Sequence lookups not found in the hot cache",
		},
	)

	HotCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fizzbuzz_hot_cache_entries",
			Help: "Identities currently held in the hot cache",
		},
	)

	SnapshotHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fizzbuzz_stats_snapshot_hits_total",
			Help: "Statistics reports served from a fresh snapshot",
		},
	)

	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fizzbuzz_stats_snapshot_refreshes_total",
			Help: "Statistics snapshot refreshes by outcome",
		},
		[]string{"result"}, // "success", "error"
	)

	// Worker Pool Metrics
	WorkerPoolInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fizzbuzz_worker_pool_in_flight",
			Help: "Tasks currently running on the worker pool",
		},
	)

	WorkerPoolAbandoned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fizzbuzz_worker_pool_abandoned_total",
			Help: "Tasks whose caller gave up before they finished",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
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
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBufferFlush records a completed or failed flush of n entries.
func RecordBufferFlush(n int, duration time.Duration, err error) {
	BufferFlushDuration.Observe(duration.Seconds())
	if err != nil {
		BufferFlushErrors.Inc()
		return
	}
	BufferFlushed.Add(float64(n))
}

// RecordSnapshotRefresh records the outcome of a statistics refresh.
func RecordSnapshotRefresh(err error) {
	if err != nil {
		SnapshotRefreshes.WithLabelValues("error").Inc()
		return
	}
	SnapshotRefreshes.WithLabelValues("success").Inc()
}
