// Package maiosdk bridges the maio network SDK surface the adapter depends on.
package maiosdk

// SDK is the subset of the maio SDK the adapter drives. Both calls are asynchronous and report
// back through done exactly once.
type SDK interface {
	// Version reports the network SDK version.
	Version() string
	// Start initializes the SDK for the given media ID.
	Start(mediaID string, testMode bool, done func(error))
	// FetchBiddingToken asks the SDK for a fresh bidding token for the given media ID.
	FetchBiddingToken(mediaID string, done func(token string, err error))
}
