package config

import (
	"time"

	mainConfig "github.com/maio/mopub-adapter/config"
	"github.com/maio/mopub-adapter/metrics"
	prometheusmetrics "github.com/maio/mopub-adapter/metrics/prometheus"
	gometrics "github.com/rcrowley/go-metrics"
	influxdb "github.com/vrischmann/go-metrics-influxdb"
)

// NewMetricsEngine reads the configuration and returns the appropriate metrics engine
// for this instance.
func NewMetricsEngine(cfg *mainConfig.Configuration, adapterList []string) *DetailedMetricsEngine {
	// Create a list of metrics engines to use.
	// Capacity of 2, as unlikely to have more than 2 metrics backends, and in the case
	// of 1 we won't use the list so it will be garbage collected.
	engineList := make(MultiMetricsEngine, 0, 2)
	returnEngine := DetailedMetricsEngine{}

	if cfg.Metrics.Influxdb.Host != "" {
		// Currently use go-metrics as the metrics piece for influx
		returnEngine.GoMetrics = metrics.NewMetrics(gometrics.NewPrefixedRegistry("maioadapter."), adapterList)
		engineList = append(engineList, returnEngine.GoMetrics)
		// Start the send loop
		go influxdb.InfluxDB(
			returnEngine.GoMetrics.MetricsRegistry, // metrics registry
			time.Second*time.Duration(cfg.Metrics.Influxdb.MetricSendInterval), // Configurable interval
			cfg.Metrics.Influxdb.Host,     // the InfluxDB url
			cfg.Metrics.Influxdb.Database, // your InfluxDB database
			cfg.Metrics.Influxdb.Username, // your InfluxDB user
			cfg.Metrics.Influxdb.Password, // your InfluxDB password
		)
		// Influx is not added to the engine list as goMetrics takes care of it already.
	}
	if cfg.Metrics.Prometheus.Port != 0 {
		// Set up the Prometheus metrics.
		returnEngine.PrometheusMetrics = prometheusmetrics.NewMetrics(cfg.Metrics.Prometheus, adapterList)
		engineList = append(engineList, returnEngine.PrometheusMetrics)
	}

	// Now return the proper metrics engine
	if len(engineList) > 1 {
		returnEngine.MetricsEngine = &engineList
	} else if len(engineList) == 1 {
		returnEngine.MetricsEngine = engineList[0]
	} else {
		returnEngine.MetricsEngine = &metrics.NilMetricsEngine{}
	}

	return &returnEngine
}

// DetailedMetricsEngine is a MultiMetricsEngine that preserves links to underlying metrics engines.
type DetailedMetricsEngine struct {
	metrics.MetricsEngine
	GoMetrics         *metrics.Metrics
	PrometheusMetrics *prometheusmetrics.Metrics
}

// MultiMetricsEngine logs metrics to multiple metrics databases. The can be useful in transitioning
// an instance from one engine to another, you can run both in parallel to verify stats match up.
type MultiMetricsEngine []metrics.MetricsEngine

// RecordAdapterInitialization across all engines
func (me *MultiMetricsEngine) RecordAdapterInitialization(labels metrics.InitLabels) {
	for _, thisME := range *me {
		thisME.RecordAdapterInitialization(labels)
	}
}

// RecordAdapterInitTime across all engines
func (me *MultiMetricsEngine) RecordAdapterInitTime(adapter string, length time.Duration) {
	for _, thisME := range *me {
		thisME.RecordAdapterInitTime(adapter, length)
	}
}

// RecordBiddingTokenFetch across all engines
func (me *MultiMetricsEngine) RecordBiddingTokenFetch(labels metrics.TokenLabels) {
	for _, thisME := range *me {
		thisME.RecordBiddingTokenFetch(labels)
	}
}

// RecordParameterCacheUpdate across all engines
func (me *MultiMetricsEngine) RecordParameterCacheUpdate(adapter string) {
	for _, thisME := range *me {
		thisME.RecordParameterCacheUpdate(adapter)
	}
}
