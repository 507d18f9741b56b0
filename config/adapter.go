package config

import (
	"fmt"
	"time"

	validator "github.com/asaskevich/govalidator"
)

// Adapter holds the host-side settings for one ad network adapter.
type Adapter struct {
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the base URL of the network SDK bridge. Required for enabled adapters.
	Endpoint  string `mapstructure:"endpoint"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
	// Parameters seed the initialization-parameter cache before the first initialization.
	Parameters map[string]string `mapstructure:"parameters"`
	// TokenRefreshSeconds schedules a periodic bidding token refresh. Zero disables it.
	TokenRefreshSeconds int  `mapstructure:"token_refresh_seconds"`
	TestMode            bool `mapstructure:"test_mode"`
}

// Timeout returns the SDK bridge timeout for this adapter.
func (a Adapter) Timeout() time.Duration {
	return time.Duration(a.TimeoutMS) * time.Millisecond
}

// TokenRefreshInterval returns the bidding token refresh period, or zero when disabled.
func (a Adapter) TokenRefreshInterval() time.Duration {
	return time.Duration(a.TokenRefreshSeconds) * time.Second
}

// validateAdapters validates every enabled adapter's endpoint and timeouts
func validateAdapters(adapterMap map[string]Adapter, errs []error) []error {
	for adapterName, adapter := range adapterMap {
		if adapter.Enabled {
			errs = validateAdapterEndpoint(adapter.Endpoint, adapterName, errs)

			if adapter.TimeoutMS < 0 {
				errs = append(errs, fmt.Errorf("adapters.%s.timeout_ms must not be negative. Got %d", adapterName, adapter.TimeoutMS))
			}
			if adapter.TokenRefreshSeconds < 0 {
				errs = append(errs, fmt.Errorf("adapters.%s.token_refresh_seconds must not be negative. Got %d", adapterName, adapter.TokenRefreshSeconds))
			}
		}
	}
	return errs
}

// validateAdapterEndpoint makes sure that an adapter has a valid endpoint
// associated with it
func validateAdapterEndpoint(endpoint string, adapterName string, errs []error) []error {
	if endpoint == "" {
		return append(errs, fmt.Errorf("There's no endpoint available for %s. Initialization of this network will fail. "+
			"Please set adapters.%s.endpoint in your app config", adapterName, adapterName))
	}

	// IsURL allows relative paths while IsRequestURL requires an absolute one, so both are checked.
	if !validator.IsURL(endpoint) || !validator.IsRequestURL(endpoint) {
		errs = append(errs, fmt.Errorf("The endpoint: %s for %s is not a valid URL", endpoint, adapterName))
	}
	return errs
}
