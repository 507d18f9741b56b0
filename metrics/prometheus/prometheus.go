package prometheusmetrics

import (
	"time"

	"github.com/maio/mopub-adapter/config"
	"github.com/maio/mopub-adapter/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics defines the Prometheus metrics backing the MetricsEngine implementation.
type Metrics struct {
	Registry *prometheus.Registry

	adapterInitializations *prometheus.CounterVec
	adapterInitTimer       *prometheus.HistogramVec
	biddingTokenFetches    *prometheus.CounterVec
	parameterCacheUpdates  *prometheus.CounterVec
}

const (
	adapterLabel = "adapter"
	outcomeLabel = "outcome"
)

// NewMetrics initializes a new Prometheus metrics instance with preloaded label values.
func NewMetrics(cfg config.PrometheusMetrics, adapters []string) *Metrics {
	// Network SDK starts are slow compared to request handling, so the buckets reach up to a minute.
	initTimeBuckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

	metrics := Metrics{}
	metrics.Registry = prometheus.NewRegistry()

	metrics.adapterInitializations = newCounter(cfg, metrics.Registry,
		"adapter_initializations",
		"Count of network initialization calls labeled by adapter and outcome.",
		[]string{adapterLabel, outcomeLabel})

	metrics.adapterInitTimer = newHistogramVec(cfg, metrics.Registry,
		"adapter_init_time_seconds",
		"Seconds spent by the network SDK on a single start attempt labeled by adapter.",
		[]string{adapterLabel},
		initTimeBuckets)

	metrics.biddingTokenFetches = newCounter(cfg, metrics.Registry,
		"bidding_token_fetches",
		"Count of bidding token refreshes labeled by adapter and outcome.",
		[]string{adapterLabel, outcomeLabel})

	metrics.parameterCacheUpdates = newCounter(cfg, metrics.Registry,
		"parameter_cache_updates",
		"Count of initialization parameter cache replacements labeled by adapter.",
		[]string{adapterLabel})

	preloadLabelValues(&metrics, adapters)

	return &metrics
}

func newCounter(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounterVec(opts, labels)
	registry.MustRegister(counter)
	return counter
}

func newHistogramVec(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogramVec(opts, labels)
	registry.MustRegister(histogram)
	return histogram
}

func preloadLabelValues(m *Metrics, adapters []string) {
	for _, adapter := range adapters {
		for _, outcome := range metrics.InitOutcomes() {
			m.adapterInitializations.With(prometheus.Labels{adapterLabel: adapter, outcomeLabel: string(outcome)})
		}
		for _, outcome := range metrics.TokenOutcomes() {
			m.biddingTokenFetches.With(prometheus.Labels{adapterLabel: adapter, outcomeLabel: string(outcome)})
		}
		m.adapterInitTimer.With(prometheus.Labels{adapterLabel: adapter})
		m.parameterCacheUpdates.With(prometheus.Labels{adapterLabel: adapter})
	}
}

func (m *Metrics) RecordAdapterInitialization(labels metrics.InitLabels) {
	m.adapterInitializations.With(prometheus.Labels{
		adapterLabel: labels.Adapter,
		outcomeLabel: string(labels.Outcome),
	}).Inc()
}

func (m *Metrics) RecordAdapterInitTime(adapter string, length time.Duration) {
	m.adapterInitTimer.With(prometheus.Labels{
		adapterLabel: adapter,
	}).Observe(length.Seconds())
}

func (m *Metrics) RecordBiddingTokenFetch(labels metrics.TokenLabels) {
	m.biddingTokenFetches.With(prometheus.Labels{
		adapterLabel: labels.Adapter,
		outcomeLabel: string(labels.Outcome),
	}).Inc()
}

func (m *Metrics) RecordParameterCacheUpdate(adapter string) {
	m.parameterCacheUpdates.With(prometheus.Labels{
		adapterLabel: adapter,
	}).Inc()
}
