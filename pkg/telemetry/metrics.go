package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/element"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "tagkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the render duration buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "tagkit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is an element.Observer that records Prometheus metrics.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	requests       *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	attached       prometheus.Gauge
	diagnostics    *prometheus.CounterVec
	flushPasses    prometheus.Histogram
}

// NewMetrics registers the runtime metrics. Registering twice with the
// same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Render passes by result (painted, unchanged, failed)",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "result"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"tag"}),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_requests_total",
			Help:        "Render requests by outcome (scheduled, coalesced)",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "outcome"}),

		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lifecycle_transitions_total",
			Help:        "Lifecycle transitions by phase entered",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "phase"}),

		attached: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "attached_instances",
			Help:        "Number of attached component instances",
			ConstLabels: config.ConstLabels,
		}),

		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diagnostics_total",
			Help:        "Diagnostics reported by code",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "code"}),

		flushPasses: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_passes",
			Help:        "Render passes per flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 3, 4, 8, 16, 32},
		}),
	}
}

// RenderRequested implements element.Observer.
func (m *Metrics) RenderRequested(tag string, coalesced bool) {
	outcome := "scheduled"
	if coalesced {
		outcome = "coalesced"
	}
	m.requests.WithLabelValues(tag, outcome).Inc()
}

// Rendered implements element.Observer.
func (m *Metrics) Rendered(info element.RenderInfo) {
	m.renders.WithLabelValues(info.Tag, string(info.Result)).Inc()
	m.renderDuration.WithLabelValues(info.Tag).Observe(info.Duration.Seconds())
}

// Transition implements element.Observer.
func (m *Metrics) Transition(tag string, phase element.Phase) {
	m.transitions.WithLabelValues(tag, phase.String()).Inc()
	switch phase {
	case element.PhaseAttached:
		m.attached.Inc()
	case element.PhaseDetached:
		m.attached.Dec()
	}
}

// Flushed implements element.Observer.
func (m *Metrics) Flushed(info element.FlushInfo) {
	m.flushPasses.Observe(float64(info.Passes))
}

// Diagnosed implements element.Observer.
func (m *Metrics) Diagnosed(d diag.Diagnostic) {
	m.diagnostics.WithLabelValues(d.Tag, d.Code).Inc()
}
