package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	ErrorTotal      *prometheus.CounterVec

	// Notification job metrics
	JobsProcessed  *prometheus.CounterVec
	JobsFailed     *prometheus.CounterVec
	JobsRetried    *prometheus.CounterVec
	JobLatency     *prometheus.HistogramVec
	JobsEnqueued   *prometheus.CounterVec
	JobBatchLength prometheus.Gauge

	// Database metrics
	DatabaseOperations *prometheus.CounterVec

	// Live snapshot metrics
	Subscribers        *prometheus.GaugeVec
	SnapshotsDelivered *prometheus.CounterVec

	// Documents
	DocumentsRendered *prometheus.CounterVec
	FontFallbacks     prometheus.Counter
}

// NewMetrics creates all application metrics and registers them with reg.
// Passing a fresh registry keeps tests independent of the global one.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		RequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		ErrorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP errors",
		}, []string{"method", "path", "type"}),

		JobsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_jobs_processed_total",
			Help:      "Total number of successfully delivered notification jobs",
		}, []string{"kind"}),
		JobsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_jobs_failed_total",
			Help:      "Total number of notification jobs that exhausted their attempts",
		}, []string{"kind"}),
		JobsRetried: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_jobs_retried_total",
			Help:      "Total number of rescheduled notification job attempts",
		}, []string{"kind"}),
		JobLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_job_duration_seconds",
			Help:      "Time spent delivering a notification job",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		JobsEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_jobs_enqueued_total",
			Help:      "Total number of notification jobs enqueued",
		}, []string{"kind", "status"}),
		JobBatchLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notification_job_batch_size",
			Help:      "Number of jobs claimed in the last poll",
		}),

		DatabaseOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),

		Subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_subscribers",
			Help:      "Current number of live snapshot subscribers",
		}, []string{"collection"}),
		SnapshotsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_delivered_total",
			Help:      "Total number of snapshots pushed to subscribers",
		}, []string{"collection"}),

		DocumentsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "Total number of rendered PDF documents",
		}, []string{"kind"}),
		FontFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_font_fallbacks_total",
			Help:      "Number of renders that fell back to the built-in font",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.RequestDuration, m.RequestTotal, m.ErrorTotal,
			m.JobsProcessed, m.JobsFailed, m.JobsRetried, m.JobLatency, m.JobsEnqueued, m.JobBatchLength,
			m.DatabaseOperations,
			m.Subscribers, m.SnapshotsDelivered,
			m.DocumentsRendered, m.FontFallbacks,
		)
	}

	return m
}

// New returns unregistered metrics, handy for tests.
func New(namespace string) *Metrics {
	return NewMetrics(namespace, nil)
}
