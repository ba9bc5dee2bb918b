package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// location service and its enrichment pipeline.
type Metrics struct {
	// Lookup metrics, fed by the instrumented provider.
	LookupRequests *prometheus.CounterVec   // labels: operation, outcome
	LookupDuration *prometheus.HistogramVec // labels: operation

	// Pipeline metrics.
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geomaps",
			Name:      "lookup_requests_total",
			Help:      "Location lookups by operation and outcome.",
		}, []string{"operation", "outcome"}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "geomaps",
			Name:      "lookup_duration_seconds",
			Help:      "Vendor request duration in seconds by operation.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geomaps",
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geomaps",
			Name:      "messages_produced_total",
			Help:      "Total messages written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geomaps",
			Name:      "transform_errors_total",
			Help:      "Total lookup or serialization failures during enrichment.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "geomaps",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geomaps",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geomaps",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.LookupRequests,
		m.LookupDuration,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with nothing registered to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		LookupRequests:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "geomaps", Name: "lookup_requests_total"}, []string{"operation", "outcome"}),
		LookupDuration:          prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "geomaps", Name: "lookup_duration_seconds"}, []string{"operation"}),
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "geomaps", Name: "messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "geomaps", Name: "messages_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "geomaps", Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "geomaps", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "geomaps", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "geomaps", Name: "batch_processing_duration_seconds"}),
	}
}
