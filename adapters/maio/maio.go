package maio

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/maio/mopub-adapter/adapters"
	"github.com/maio/mopub-adapter/adapters/maio/maiosdk"
	"github.com/maio/mopub-adapter/config"
)

const (
	// NetworkName is the registry key of the maio adapter. Hosts persist it, so it never changes.
	NetworkName = "maio"
	// AdapterVersion is the SDK version followed by the adapter revision.
	AdapterVersion = maiosdk.SDKVersion + ".0"

	MediaIDKey = "mediaId"
	// AppKeyKey is accepted in place of MediaIDKey.
	AppKeyKey   = "appKey"
	TestModeKey = "testMode"
)

// Adapter is the maio AdapterConfiguration.
type Adapter struct {
	*adapters.Lifecycle
	sdk maiosdk.SDK
}

// New builds the maio adapter over sdk. testMode is used when the parameters don't set testMode.
func New(sdk maiosdk.SDK, testMode bool, deps adapters.Dependencies) *Adapter {
	bridge := &sdkBridge{sdk: sdk, defaultTestMode: testMode}
	return &Adapter{
		Lifecycle: adapters.NewLifecycle(NetworkName, bridge, deps),
		sdk:       sdk,
	}
}

// Builder builds the maio adapter from host config, talking to the SDK bridge at cfg.Endpoint.
func Builder(network string, cfg config.Adapter, deps adapters.Dependencies) (adapters.AdapterConfiguration, error) {
	client := maiosdk.NewClient(&http.Client{}, cfg.Endpoint, cfg.Timeout())
	return New(client, cfg.TestMode, deps), nil
}

func (a *Adapter) AdapterVersion() string {
	return AdapterVersion
}

func (a *Adapter) NetworkSDKVersion() string {
	return a.sdk.Version()
}

func (a *Adapter) MoPubNetworkName() string {
	return NetworkName
}

// sdkBridge adapts the maio SDK to the lifecycle. Token fetches reuse the media ID of the last start.
type sdkBridge struct {
	sdk             maiosdk.SDK
	defaultTestMode bool

	mu      sync.Mutex
	mediaID string
}

func (b *sdkBridge) MissingParameters(params map[string]string) []string {
	if mediaID(params) == "" {
		return []string{MediaIDKey}
	}
	return nil
}

func (b *sdkBridge) Start(params map[string]string, done func(error)) {
	id := mediaID(params)

	b.mu.Lock()
	b.mediaID = id
	b.mu.Unlock()

	b.sdk.Start(id, testMode(params, b.defaultTestMode), done)
}

func (b *sdkBridge) FetchBiddingToken(done func(token string, err error)) {
	b.mu.Lock()
	id := b.mediaID
	b.mu.Unlock()

	b.sdk.FetchBiddingToken(id, done)
}

func mediaID(params map[string]string) string {
	if id := lookup(params, MediaIDKey); id != "" {
		return id
	}
	return lookup(params, AppKeyKey)
}

func testMode(params map[string]string, fallback bool) bool {
	raw := lookup(params, TestModeKey)
	if raw == "" {
		return fallback
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return enabled
}

// lookup matches key exactly first, then case-insensitively, since config loaders may fold case.
func lookup(params map[string]string, key string) string {
	if v, ok := params[key]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range params {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
