package adapters

import (
	"context"
	"time"

	"github.com/maio/mopub-adapter/config"
)

// AdapterConfiguration connects an ad network SDK to the MoPub mediation host. The host keys
// adapters by MoPubNetworkName, reads the identity fields for reporting, and drives the network
// through a single initialization per process.
type AdapterConfiguration interface {
	// AdapterVersion is the version of the integration code, independent of the network SDK.
	AdapterVersion() string
	// NetworkSDKVersion is the version of the wrapped network SDK.
	NetworkSDKVersion() string
	// MoPubNetworkName uniquely identifies this adapter in the host registry. It must not
	// change across releases, since the host may persist it.
	MoPubNetworkName() string
	// BiddingToken returns the most recently fetched bidding token, or "" if none is available.
	// It never blocks and never fails.
	BiddingToken() string

	// UpdateInitializationParameters replaces the cached parameters for this adapter type.
	UpdateInitializationParameters(params map[string]string)
	// InitializeNetwork starts the network SDK, at most once per process. onComplete is invoked
	// exactly once, with nil on success.
	InitializeNetwork(cachedParams map[string]string, onComplete func(error))
	// FetchBiddingToken refreshes the bidding token and reports it through onComplete.
	FetchBiddingToken(onComplete func(token string, err error))
}

// ContextAdapterConfiguration is implemented by adapters which can also be driven by blocking calls.
// Cancelling ctx stops the wait, not the attempt.
type ContextAdapterConfiguration interface {
	AdapterConfiguration
	InitializeNetworkContext(ctx context.Context, cachedParams map[string]string) error
	FetchBiddingTokenContext(ctx context.Context) (string, error)
}

// StatusReporter is implemented by adapters which expose their lifecycle state.
type StatusReporter interface {
	State() InitState
	CachedInitializationParameters() map[string]string
	TokenFetchedAt() time.Time
}

// Builder is the constructor registered for each network. deps carries the host-owned store,
// metrics engine and clock shared by all adapters.
type Builder func(network string, cfg config.Adapter, deps Dependencies) (AdapterConfiguration, error)
