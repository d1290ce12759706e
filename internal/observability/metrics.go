package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lightning_alert"

// Metrics holds the Prometheus counters, histograms, and gauges for matching.
type Metrics struct {
	StrikesConsumed prometheus.Counter
	StrikesInvalid  prometheus.Counter
	StrikeOutcomes  *prometheus.CounterVec // labels: outcome={alerted,suppressed,unmatched,ignored}
	AlertsEmitted   *prometheus.CounterVec // labels: kind={lightning,heartbeat}
	AssetsIndexed   prometheus.Gauge
	PipelineRunning prometheus.Gauge

	// Stream mode batch metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates all metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.register(prometheus.DefaultRegisterer)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// NewMetricsWithRegistry creates Metrics registered with reg.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	m.register(reg)
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		StrikesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strikes_consumed_total",
			Help:      "Total strike records read from the input.",
		}),
		StrikesInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strikes_invalid_total",
			Help:      "Total strike records that failed to parse or validate.",
		}),
		StrikeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strike_outcomes_total",
			Help:      "Parsed strikes by match outcome.",
		}, []string{"outcome"}),
		AlertsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_emitted_total",
			Help:      "Alerts written to the configured sinks, by kind.",
		}, []string{"kind"}),
		AssetsIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "assets_indexed",
			Help:      "Number of distinct quadkeys in the asset index.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while strikes are being processed, 0 otherwise.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of strike messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-match-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.StrikesConsumed,
		m.StrikesInvalid,
		m.StrikeOutcomes,
		m.AlertsEmitted,
		m.AssetsIndexed,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)
}
