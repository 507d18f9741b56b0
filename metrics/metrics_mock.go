package metrics

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MetricsEngineMock is mock for the MetricsEngine interface
type MetricsEngineMock struct {
	mock.Mock
}

// RecordAdapterInitialization mock
func (me *MetricsEngineMock) RecordAdapterInitialization(labels InitLabels) {
	me.Called(labels)
}

// RecordAdapterInitTime mock
func (me *MetricsEngineMock) RecordAdapterInitTime(adapter string, length time.Duration) {
	me.Called(adapter, length)
}

// RecordBiddingTokenFetch mock
func (me *MetricsEngineMock) RecordBiddingTokenFetch(labels TokenLabels) {
	me.Called(labels)
}

// RecordParameterCacheUpdate mock
func (me *MetricsEngineMock) RecordParameterCacheUpdate(adapter string) {
	me.Called(adapter)
}
