package config

import (
	"testing"
	"time"

	mainConfig "github.com/maio/mopub-adapter/config"
	"github.com/maio/mopub-adapter/metrics"
	prometheusmetrics "github.com/maio/mopub-adapter/metrics/prometheus"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
)

// Start a simple test to insure we get valid MetricsEngines for various configurations
func TestNilMetricsEngine(t *testing.T) {
	cfg := mainConfig.Configuration{}
	testEngine := NewMetricsEngine(&cfg, []string{"maio"})
	_, ok := testEngine.MetricsEngine.(*metrics.NilMetricsEngine)
	assert.True(t, ok, "Expected a NilMetricsEngine")
}

func TestGoMetricsEngine(t *testing.T) {
	cfg := mainConfig.Configuration{}
	cfg.Metrics.Influxdb.Host = "localhost"
	cfg.Metrics.Influxdb.MetricSendInterval = 3600
	testEngine := NewMetricsEngine(&cfg, []string{"maio"})
	_, ok := testEngine.MetricsEngine.(*metrics.Metrics)
	assert.True(t, ok, "Expected a go-metrics MetricsEngine")
}

func TestPrometheusMetricsEngine(t *testing.T) {
	cfg := mainConfig.Configuration{}
	cfg.Metrics.Prometheus.Port = 9090
	testEngine := NewMetricsEngine(&cfg, []string{"maio"})
	_, ok := testEngine.MetricsEngine.(*prometheusmetrics.Metrics)
	assert.True(t, ok, "Expected a prometheus MetricsEngine")
	assert.NotNil(t, testEngine.PrometheusMetrics)
}

// Test the multiengine
func TestMultiMetricsEngine(t *testing.T) {
	goEngine := metrics.NewMetrics(gometrics.NewPrefixedRegistry("maioadapter."), []string{"maio"})
	engineList := make(MultiMetricsEngine, 2)
	engineList[0] = goEngine
	engineList[1] = &metrics.NilMetricsEngine{}
	var metricsEngine metrics.MetricsEngine = &engineList

	for i := 0; i < 5; i++ {
		metricsEngine.RecordAdapterInitialization(metrics.InitLabels{Adapter: "maio", Outcome: metrics.InitAlreadyInitialized})
		metricsEngine.RecordAdapterInitTime("maio", 20*time.Millisecond)
		metricsEngine.RecordBiddingTokenFetch(metrics.TokenLabels{Adapter: "maio", Outcome: metrics.TokenSuccess})
	}
	metricsEngine.RecordParameterCacheUpdate("maio")

	am := goEngine.AdapterMetrics["maio"]
	VerifyMetrics(t, "init.already_initialized", am.InitMeters[metrics.InitAlreadyInitialized].Count(), 5)
	VerifyMetrics(t, "init_time", am.InitTimer.Count(), 5)
	VerifyMetrics(t, "token.success", am.TokenMeters[metrics.TokenSuccess].Count(), 5)
	VerifyMetrics(t, "params_updated", am.ParamsUpdatedMeter.Count(), 1)
}

func VerifyMetrics(t *testing.T, name string, actual int64, expected int64) {
	t.Helper()
	if expected != actual {
		t.Errorf("Error in metric %s: expected %d, got %d.", name, expected, actual)
	}
}
