package metrics

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	metrics "github.com/rcrowley/go-metrics"
)

// Metrics is the go-metrics implementation of the MetricsEngine interface.
type Metrics struct {
	MetricsRegistry metrics.Registry
	AdapterMetrics  map[string]*AdapterMetrics
}

// AdapterMetrics houses the metrics for a particular adapter
type AdapterMetrics struct {
	InitMeters         map[InitOutcome]metrics.Meter
	InitTimer          metrics.Timer
	TokenMeters        map[TokenOutcome]metrics.Meter
	ParamsUpdatedMeter metrics.Meter
}

// NewBlankMetrics creates a new Metrics object with all blank metrics object. This may also be useful for
// testing routines to ensure that no metrics are written anywhere.
func NewBlankMetrics(registry metrics.Registry, adapters []string) *Metrics {
	newMetrics := &Metrics{
		MetricsRegistry: registry,
		AdapterMetrics:  make(map[string]*AdapterMetrics, len(adapters)),
	}
	for _, a := range adapters {
		newMetrics.AdapterMetrics[a] = makeBlankAdapterMetrics()
	}
	return newMetrics
}

// NewMetrics creates a new Metrics object with every adapter metric registered in the registry.
func NewMetrics(registry metrics.Registry, adapters []string) *Metrics {
	newMetrics := NewBlankMetrics(registry, adapters)
	for _, a := range adapters {
		registerAdapterMetrics(registry, a, newMetrics.AdapterMetrics[a])
	}
	return newMetrics
}

func makeBlankAdapterMetrics() *AdapterMetrics {
	blankMeter := &metrics.NilMeter{}
	am := &AdapterMetrics{
		InitMeters:         make(map[InitOutcome]metrics.Meter),
		InitTimer:          &metrics.NilTimer{},
		TokenMeters:        make(map[TokenOutcome]metrics.Meter),
		ParamsUpdatedMeter: blankMeter,
	}
	for _, o := range InitOutcomes() {
		am.InitMeters[o] = blankMeter
	}
	for _, o := range TokenOutcomes() {
		am.TokenMeters[o] = blankMeter
	}
	return am
}

func registerAdapterMetrics(registry metrics.Registry, adapter string, am *AdapterMetrics) {
	for _, o := range InitOutcomes() {
		am.InitMeters[o] = metrics.GetOrRegisterMeter(fmt.Sprintf("adapter.%s.init.%s", adapter, o), registry)
	}
	am.InitTimer = metrics.GetOrRegisterTimer(fmt.Sprintf("adapter.%s.init_time", adapter), registry)
	for _, o := range TokenOutcomes() {
		am.TokenMeters[o] = metrics.GetOrRegisterMeter(fmt.Sprintf("adapter.%s.token.%s", adapter, o), registry)
	}
	am.ParamsUpdatedMeter = metrics.GetOrRegisterMeter(fmt.Sprintf("adapter.%s.params_updated", adapter), registry)
}

func (me *Metrics) adapterMetrics(adapter string) (*AdapterMetrics, bool) {
	am, ok := me.AdapterMetrics[adapter]
	if !ok {
		glog.Errorf("Trying to run adapter metrics on %s: adapter metrics not found", adapter)
	}
	return am, ok
}

// RecordAdapterInitialization implements a part of the MetricsEngine interface
func (me *Metrics) RecordAdapterInitialization(labels InitLabels) {
	if am, ok := me.adapterMetrics(labels.Adapter); ok {
		if meter, ok := am.InitMeters[labels.Outcome]; ok {
			meter.Mark(1)
		}
	}
}

// RecordAdapterInitTime implements a part of the MetricsEngine interface
func (me *Metrics) RecordAdapterInitTime(adapter string, length time.Duration) {
	if am, ok := me.adapterMetrics(adapter); ok {
		am.InitTimer.Update(length)
	}
}

// RecordBiddingTokenFetch implements a part of the MetricsEngine interface
func (me *Metrics) RecordBiddingTokenFetch(labels TokenLabels) {
	if am, ok := me.adapterMetrics(labels.Adapter); ok {
		if meter, ok := am.TokenMeters[labels.Outcome]; ok {
			meter.Mark(1)
		}
	}
}

// RecordParameterCacheUpdate implements a part of the MetricsEngine interface
func (me *Metrics) RecordParameterCacheUpdate(adapter string) {
	if am, ok := me.adapterMetrics(adapter); ok {
		am.ParamsUpdatedMeter.Mark(1)
	}
}
