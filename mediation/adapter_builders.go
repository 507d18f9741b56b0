package mediation

import (
	"github.com/maio/mopub-adapter/adapters"
	"github.com/maio/mopub-adapter/adapters/maio"
)

// newAdapterBuilders returns the builders of every network this host can mediate, keyed by
// MoPubNetworkName.
func newAdapterBuilders() map[string]adapters.Builder {
	return map[string]adapters.Builder{
		maio.NetworkName: maio.Builder,
	}
}
