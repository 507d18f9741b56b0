package metrics

import "time"

// NilMetricsEngine is a no-op MetricsEngine, used when no metrics backend is configured.
type NilMetricsEngine struct{}

func (me *NilMetricsEngine) RecordAdapterInitialization(labels InitLabels) {
}

func (me *NilMetricsEngine) RecordAdapterInitTime(adapter string, length time.Duration) {
}

func (me *NilMetricsEngine) RecordBiddingTokenFetch(labels TokenLabels) {
}

func (me *NilMetricsEngine) RecordParameterCacheUpdate(adapter string) {
}
