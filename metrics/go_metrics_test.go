package metrics

import (
	"testing"
	"time"

	metrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics(t *testing.T) {
	registry := metrics.NewRegistry()
	m := NewMetrics(registry, []string{"maio"})

	ensureContains(t, registry, "adapter.maio.init.success", m.AdapterMetrics["maio"].InitMeters[InitSuccess])
	ensureContains(t, registry, "adapter.maio.init.missing_config", m.AdapterMetrics["maio"].InitMeters[InitMissingConfig])
	ensureContains(t, registry, "adapter.maio.init_time", m.AdapterMetrics["maio"].InitTimer)
	ensureContains(t, registry, "adapter.maio.token.unavailable", m.AdapterMetrics["maio"].TokenMeters[TokenUnavailable])
	ensureContains(t, registry, "adapter.maio.params_updated", m.AdapterMetrics["maio"].ParamsUpdatedMeter)
}

func TestRecordAdapterLifecycle(t *testing.T) {
	registry := metrics.NewRegistry()
	m := NewMetrics(registry, []string{"maio"})

	m.RecordAdapterInitialization(InitLabels{Adapter: "maio", Outcome: InitSuccess})
	m.RecordAdapterInitialization(InitLabels{Adapter: "maio", Outcome: InitCoalesced})
	m.RecordAdapterInitialization(InitLabels{Adapter: "maio", Outcome: InitCoalesced})
	m.RecordAdapterInitTime("maio", 20*time.Millisecond)
	m.RecordBiddingTokenFetch(TokenLabels{Adapter: "maio", Outcome: TokenError})
	m.RecordParameterCacheUpdate("maio")

	am := m.AdapterMetrics["maio"]
	assert.Equal(t, int64(1), am.InitMeters[InitSuccess].Count())
	assert.Equal(t, int64(2), am.InitMeters[InitCoalesced].Count())
	assert.Equal(t, int64(0), am.InitMeters[InitSDKError].Count())
	assert.Equal(t, int64(1), am.InitTimer.Count())
	assert.Equal(t, int64(1), am.TokenMeters[TokenError].Count())
	assert.Equal(t, int64(1), am.ParamsUpdatedMeter.Count())
}

func TestRecordUnknownAdapter(t *testing.T) {
	m := NewMetrics(metrics.NewRegistry(), []string{"maio"})

	assert.NotPanics(t, func() {
		m.RecordAdapterInitialization(InitLabels{Adapter: "unknown", Outcome: InitSuccess})
		m.RecordAdapterInitTime("unknown", time.Second)
		m.RecordBiddingTokenFetch(TokenLabels{Adapter: "unknown", Outcome: TokenSuccess})
		m.RecordParameterCacheUpdate("unknown")
	})
}

func TestBlankMetricsDoNotRegister(t *testing.T) {
	registry := metrics.NewRegistry()
	m := NewBlankMetrics(registry, []string{"maio"})

	m.RecordAdapterInitialization(InitLabels{Adapter: "maio", Outcome: InitSuccess})
	assert.Nil(t, registry.Get("adapter.maio.init.success"))
}

func ensureContains(t *testing.T, registry metrics.Registry, name string, metric interface{}) {
	t.Helper()
	if inRegistry := registry.Get(name); inRegistry == nil {
		t.Errorf("No metric in registry at %s.", name)
	} else if inRegistry != metric {
		t.Errorf("Bad value stored at metric %s.", name)
	}
}
