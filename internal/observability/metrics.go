package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// assessment pipeline.
type Metrics struct {
	RequestsConsumed    prometheus.Counter
	AssessmentsProduced prometheus.Counter
	AssessErrors        prometheus.Counter
	PipelineRunning     prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Hazard outcome metrics.
	HazardTier   *prometheus.CounterVec // labels: hazard={icing,wind,visibility}, tier
	WindowStatus *prometheus.CounterVec // labels: status={optimal,warning,critical}

	// Forecast provider metrics.
	ProviderRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	ProviderCache       *prometheus.CounterVec // labels: result={hit,miss}
	ProviderAPIDuration prometheus.Histogram
	ProviderEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RequestsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uav_wx",
			Name:      "requests_consumed_total",
			Help:      "Total forecast requests read from the source topic.",
		}),
		AssessmentsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uav_wx",
			Name:      "assessments_produced_total",
			Help:      "Total assessments written to the sink topic.",
		}),
		AssessErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uav_wx",
			Name:      "assess_errors_total",
			Help:      "Total assessment failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "uav_wx",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "uav_wx",
			Name:      "batch_size",
			Help:      "Number of requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "uav_wx",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-assess-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		HazardTier: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uav_wx",
			Name:      "hazard_tier_total",
			Help:      "Assessed hazard tiers by hazard and tier.",
		}, []string{"hazard", "tier"}),
		WindowStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uav_wx",
			Name:      "window_status_total",
			Help:      "Safety window statuses across assessments.",
		}, []string{"status"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uav_wx",
			Name:      "provider_requests_total",
			Help:      "Forecast provider API requests by outcome.",
		}, []string{"outcome"}),
		ProviderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uav_wx",
			Name:      "provider_cache_total",
			Help:      "Forecast cache lookups by result.",
		}, []string{"result"}),
		ProviderAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "uav_wx",
			Name:      "provider_api_duration_seconds",
			Help:      "Forecast provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ProviderEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "uav_wx",
			Name:      "provider_enabled",
			Help:      "1 when pull-mode forecast fetching is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.RequestsConsumed,
		m.AssessmentsProduced,
		m.AssessErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.HazardTier,
		m.WindowStatus,
		m.ProviderRequests,
		m.ProviderCache,
		m.ProviderAPIDuration,
		m.ProviderEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RequestsConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uav_wx", Name: "requests_consumed_total"}),
		AssessmentsProduced:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uav_wx", Name: "assessments_produced_total"}),
		AssessErrors:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uav_wx", Name: "assess_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "uav_wx", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "uav_wx", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "uav_wx", Name: "batch_processing_duration_seconds"}),
		HazardTier:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uav_wx", Name: "hazard_tier_total"}, []string{"hazard", "tier"}),
		WindowStatus:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uav_wx", Name: "window_status_total"}, []string{"status"}),
		ProviderRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uav_wx", Name: "provider_requests_total"}, []string{"outcome"}),
		ProviderCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uav_wx", Name: "provider_cache_total"}, []string{"result"}),
		ProviderAPIDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "uav_wx", Name: "provider_api_duration_seconds"}),
		ProviderEnabled:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "uav_wx", Name: "provider_enabled"}),
	}
}
