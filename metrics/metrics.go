package metrics

import (
	"time"
)

// InitOutcome labels the result of an InitializeNetwork call.
type InitOutcome string

const (
	// InitSuccess is a network SDK start which completed successfully.
	InitSuccess InitOutcome = "success"
	// InitAlreadyInitialized is a call short-circuited because the SDK was already running.
	InitAlreadyInitialized InitOutcome = "already_initialized"
	// InitCoalesced is a call which attached to an attempt already in flight.
	InitCoalesced InitOutcome = "coalesced"
	// InitMissingConfig is a call rejected because required parameters were absent.
	InitMissingConfig InitOutcome = "missing_config"
	// InitSDKError is a network SDK start which reported failure.
	InitSDKError InitOutcome = "sdk_error"
)

func InitOutcomes() []InitOutcome {
	return []InitOutcome{
		InitSuccess,
		InitAlreadyInitialized,
		InitCoalesced,
		InitMissingConfig,
		InitSDKError,
	}
}

// TokenOutcome labels the result of a bidding token refresh.
type TokenOutcome string

const (
	TokenSuccess     TokenOutcome = "success"
	TokenUnavailable TokenOutcome = "unavailable"
	TokenError       TokenOutcome = "error"
)

func TokenOutcomes() []TokenOutcome {
	return []TokenOutcome{
		TokenSuccess,
		TokenUnavailable,
		TokenError,
	}
}

// InitLabels defines the labels attached to adapter initialization metrics.
type InitLabels struct {
	Adapter string
	Outcome InitOutcome
}

// TokenLabels defines the labels attached to bidding token metrics.
type TokenLabels struct {
	Adapter string
	Outcome TokenOutcome
}

// MetricsEngine is a generic interface to record adapter lifecycle metrics into the desired backend.
// The first three metric families are initialization, token refresh and parameter cache activity.
type MetricsEngine interface {
	RecordAdapterInitialization(labels InitLabels)
	// RecordAdapterInitTime records the time spent by the network SDK on a single start attempt.
	RecordAdapterInitTime(adapter string, length time.Duration)
	RecordBiddingTokenFetch(labels TokenLabels)
	RecordParameterCacheUpdate(adapter string)
}
