// Package metrics provides Prometheus metrics for the apexcoach analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Dataset metrics - the footprint of the loaded season snapshot
	datasetRows        prometheus.Gauge
	datasetDrivers     prometheus.Gauge
	datasetTracks      prometheus.Gauge
	datasetRowsSkipped prometheus.Counter

	// Model metrics - training and prediction quality
	trainingDuration prometheus.Histogram
	trainingFailures prometheus.Counter
	modelR2          prometheus.Gauge
	modelMAE         prometheus.Gauge
	modelTrees       prometheus.Gauge
	predictions      prometheus.Counter
	predictionLatency prometheus.Histogram

	// Snapshot metrics - rebuild timings
	snapshotRebuildDuration prometheus.Histogram
	snapshotLastUnix        prometheus.Gauge
	reloads                 prometheus.Counter
	reloadFailures          prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "apexcoach",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.datasetRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_rows",
		Help:      "Number of corner records in the active snapshot",
	})

	m.datasetDrivers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_drivers",
		Help:      "Number of distinct drivers in the active snapshot",
	})

	m.datasetTracks = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_tracks",
		Help:      "Number of circuits present in the active snapshot",
	})

	m.datasetRowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_rows_skipped_total",
		Help:      "Rows rejected during dataset load (unknown track or malformed)",
	})

	m.trainingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_duration_milliseconds",
		Help:      "Random forest training duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.trainingFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_failures_total",
		Help:      "Model training attempts that failed on degenerate input",
	})

	m.modelR2 = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_r2",
		Help:      "Holdout R-squared of the active model",
	})

	m.modelMAE = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_mae_seconds",
		Help:      "Holdout mean absolute error of the active model in seconds",
	})

	m.modelTrees = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_trees",
		Help:      "Number of trees in the active forest",
	})

	m.predictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of improvement predictions served",
	})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_latency_milliseconds",
		Help:      "Latency of a single prediction pass in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotRebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_rebuild_duration_milliseconds",
		Help:      "Full snapshot rebuild (load+aggregate+train+cluster) duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_unix",
		Help:      "Unix timestamp of the last successful snapshot publish",
	})

	m.reloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reloads_total",
		Help:      "Total number of successful dataset reloads",
	})

	m.reloadFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reload_failures_total",
		Help:      "Total number of failed dataset reloads",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of error responses by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// GetRegistry returns the registry metrics are served from.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

// UpdateDatasetFootprint sets the dataset size gauges after a snapshot publish.
func UpdateDatasetFootprint(rows, drivers, tracks int) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetRows.Set(float64(rows))
	globalManager.datasetDrivers.Set(float64(drivers))
	globalManager.datasetTracks.Set(float64(tracks))
}

// RecordSkippedRows counts rows rejected during a dataset load.
func RecordSkippedRows(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.datasetRowsSkipped.Add(float64(n))
}

// RecordTrainingDuration observes one training run.
func RecordTrainingDuration(ms float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.trainingDuration.Observe(ms)
}

// RecordTrainingFailure counts a failed training attempt.
func RecordTrainingFailure() {
	if !globalManager.enabled {
		return
	}
	globalManager.trainingFailures.Inc()
}

// UpdateModelQuality publishes holdout metrics of the active model.
func UpdateModelQuality(r2, mae float64, trees int) {
	if !globalManager.enabled {
		return
	}
	globalManager.modelR2.Set(r2)
	globalManager.modelMAE.Set(mae)
	globalManager.modelTrees.Set(float64(trees))
}

// RecordPrediction observes one prediction pass.
func RecordPrediction(ms float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.predictions.Inc()
	globalManager.predictionLatency.Observe(ms)
}

// RecordSnapshotRebuild observes one full snapshot rebuild and stamps it.
func RecordSnapshotRebuild(ms float64, unix int64) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotRebuildDuration.Observe(ms)
	globalManager.snapshotLastUnix.Set(float64(unix))
}

// RecordReload counts a reload attempt.
func RecordReload(ok bool) {
	if !globalManager.enabled {
		return
	}
	if ok {
		globalManager.reloads.Inc()
	} else {
		globalManager.reloadFailures.Inc()
	}
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordErrorByEndpoint counts one error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(ms float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(ms)
}
