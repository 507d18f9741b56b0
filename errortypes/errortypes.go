package errortypes

import "fmt"

// MissingConfiguration should be used when the parameters supplied to a network initialization
// lack a key the network SDK cannot start without.
//
// The adapter state is left untouched, so a later call with corrected parameters may still succeed.
type MissingConfiguration struct {
	Network string
	Keys    []string
}

func (err *MissingConfiguration) Error() string {
	return fmt.Sprintf("%s: missing required initialization parameter(s) %v", err.Network, err.Keys)
}

func (err *MissingConfiguration) Code() int {
	return MissingConfigurationErrorCode
}

func (err *MissingConfiguration) Severity() Severity {
	return SeverityFatal
}

// SDKInitialization should be used when the wrapped network SDK reported a failed start.
//
// The cause is forwarded opaquely. Hosts are expected to exclude the network for the session
// and may retry by initializing again.
type SDKInitialization struct {
	Network string
	Cause   error
}

func (err *SDKInitialization) Error() string {
	if err.Cause == nil {
		return fmt.Sprintf("%s: network sdk initialization failed", err.Network)
	}
	return fmt.Sprintf("%s: network sdk initialization failed: %v", err.Network, err.Cause)
}

func (err *SDKInitialization) Unwrap() error {
	return err.Cause
}

func (err *SDKInitialization) Code() int {
	return SDKInitializationErrorCode
}

func (err *SDKInitialization) Severity() Severity {
	return SeverityFatal
}

// TokenUnavailable is returned by asynchronous bidding token requests made before the network
// SDK finished initializing. The synchronous accessor never returns it; it reports an empty
// token instead.
type TokenUnavailable struct {
	Network string
}

func (err *TokenUnavailable) Error() string {
	return fmt.Sprintf("%s: bidding token unavailable, network sdk is not initialized", err.Network)
}

func (err *TokenUnavailable) Code() int {
	return TokenUnavailableWarningCode
}

func (err *TokenUnavailable) Severity() Severity {
	return SeverityWarning
}

// TokenFetch should be used when an initialized network SDK failed to produce a bidding token.
// The previously cached token, if any, stays in place.
type TokenFetch struct {
	Network string
	Cause   error
}

func (err *TokenFetch) Error() string {
	return fmt.Sprintf("%s: bidding token fetch failed: %v", err.Network, err.Cause)
}

func (err *TokenFetch) Unwrap() error {
	return err.Cause
}

func (err *TokenFetch) Code() int {
	return TokenFetchWarningCode
}

func (err *TokenFetch) Severity() Severity {
	return SeverityWarning
}

// BadInput should be used for invalid host configuration, such as a duplicate network name.
type BadInput struct {
	Message string
}

func (err *BadInput) Error() string {
	return err.Message
}

func (err *BadInput) Code() int {
	return BadInputErrorCode
}

func (err *BadInput) Severity() Severity {
	return SeverityFatal
}
