package adapters

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"github.com/maio/mopub-adapter/errortypes"
	"github.com/maio/mopub-adapter/metrics"
	"golang.org/x/sync/singleflight"
)

// NetworkSDK is the network specific half of an adapter: how to validate parameters, how to start
// the SDK and how to ask it for a bidding token. Both calls are asynchronous and must invoke done
// once; extra invocations are ignored.
type NetworkSDK interface {
	// MissingParameters returns the required keys absent from params.
	MissingParameters(params map[string]string) []string
	Start(params map[string]string, done func(error))
	FetchBiddingToken(done func(token string, err error))
}

// Dependencies are the host-owned collaborators shared by every adapter.
type Dependencies struct {
	ParamStore    ParamStore
	MetricsEngine metrics.MetricsEngine
	Clock         clock.Clock
}

// Lifecycle implements the initialization and bidding token protocol shared by all adapters.
// Network adapters embed it and supply the identity accessors.
type Lifecycle struct {
	network string
	sdk     NetworkSDK
	store   ParamStore
	me      metrics.MetricsEngine
	clock   clock.Clock

	mu      sync.Mutex
	state   InitState
	pending *initCall

	tokenGroup singleflight.Group
	token      atomic.Pointer[biddingToken]
}

// initCall is the shared result of one network SDK start. done is closed once err is final.
type initCall struct {
	done chan struct{}
	err  error
}

type biddingToken struct {
	value     string
	fetchedAt time.Time
}

type tokenResult struct {
	token string
	err   error
}

// NewLifecycle builds the lifecycle for network. Missing dependencies fall back to a fresh
// in-memory store, no metrics and the wall clock.
func NewLifecycle(network string, sdk NetworkSDK, deps Dependencies) *Lifecycle {
	l := &Lifecycle{
		network: network,
		sdk:     sdk,
		store:   deps.ParamStore,
		me:      deps.MetricsEngine,
		clock:   deps.Clock,
	}
	if l.store == nil {
		l.store = NewParamStore()
	}
	if l.me == nil {
		l.me = &metrics.NilMetricsEngine{}
	}
	if l.clock == nil {
		l.clock = clock.New()
	}
	return l
}

// State returns the current initialization state.
func (l *Lifecycle) State() InitState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// UpdateInitializationParameters replaces the cached parameters for this adapter type.
func (l *Lifecycle) UpdateInitializationParameters(params map[string]string) {
	l.store.Store(l.network, params)
	l.me.RecordParameterCacheUpdate(l.network)
	glog.V(2).Infof("%s: cached %d initialization parameter(s)", l.network, len(params))
}

// CachedInitializationParameters returns a copy of the cached parameters, or nil if none were cached.
func (l *Lifecycle) CachedInitializationParameters() map[string]string {
	return l.store.Load(l.network)
}

// InitializeNetwork starts the network SDK with the cached parameters overlaid by cachedParams.
//
// When the SDK is already running onComplete(nil) is invoked before returning. Missing required
// parameters are reported the same way and leave the state untouched. Otherwise onComplete runs on
// its own goroutine once the shared start attempt resolves.
func (l *Lifecycle) InitializeNetwork(cachedParams map[string]string, onComplete func(error)) {
	if onComplete == nil {
		onComplete = func(error) {}
	}

	call, err := l.initialize(cachedParams)
	switch {
	case err != nil:
		onComplete(err)
	case call == nil:
		onComplete(nil)
	default:
		go func() {
			<-call.done
			onComplete(call.err)
		}()
	}
}

// InitializeNetworkContext is the blocking form of InitializeNetwork.
func (l *Lifecycle) InitializeNetworkContext(ctx context.Context, cachedParams map[string]string) error {
	call, err := l.initialize(cachedParams)
	if err != nil || call == nil {
		return err
	}

	select {
	case <-call.done:
		return call.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// initialize returns a nil call when the SDK is already running, an error when the parameters are
// unusable, or the call every concurrent caller shares.
func (l *Lifecycle) initialize(cachedParams map[string]string) (*initCall, error) {
	l.mu.Lock()

	if l.state == StateInitialized {
		l.mu.Unlock()
		l.me.RecordAdapterInitialization(metrics.InitLabels{Adapter: l.network, Outcome: metrics.InitAlreadyInitialized})
		return nil, nil
	}

	if l.pending != nil {
		call := l.pending
		l.mu.Unlock()
		l.me.RecordAdapterInitialization(metrics.InitLabels{Adapter: l.network, Outcome: metrics.InitCoalesced})
		return call, nil
	}

	params := mergeParams(l.store.Load(l.network), cachedParams)
	if missing := l.sdk.MissingParameters(params); len(missing) > 0 {
		l.mu.Unlock()
		l.me.RecordAdapterInitialization(metrics.InitLabels{Adapter: l.network, Outcome: metrics.InitMissingConfig})
		return nil, &errortypes.MissingConfiguration{Network: l.network, Keys: missing}
	}

	call := &initCall{done: make(chan struct{})}
	l.pending = call
	l.state = StateInitializing
	l.mu.Unlock()

	glog.Infof("%s: starting network sdk", l.network)
	start := l.clock.Now()

	// The SDK may report back synchronously, so it is called without holding the lock.
	var once sync.Once
	l.sdk.Start(params, func(err error) {
		once.Do(func() {
			l.finish(call, params, start, err)
		})
	})

	return call, nil
}

func (l *Lifecycle) finish(call *initCall, params map[string]string, start time.Time, sdkErr error) {
	l.me.RecordAdapterInitTime(l.network, l.clock.Since(start))

	l.mu.Lock()
	if sdkErr != nil {
		l.state = StateFailedInit
		call.err = &errortypes.SDKInitialization{Network: l.network, Cause: sdkErr}
	} else {
		l.state = StateInitialized
		l.store.Store(l.network, params)
	}
	l.pending = nil
	l.mu.Unlock()

	if sdkErr != nil {
		glog.Warningf("%s: network sdk failed to start: %v", l.network, sdkErr)
		l.me.RecordAdapterInitialization(metrics.InitLabels{Adapter: l.network, Outcome: metrics.InitSDKError})
	} else {
		glog.Infof("%s: network sdk started", l.network)
		l.me.RecordAdapterInitialization(metrics.InitLabels{Adapter: l.network, Outcome: metrics.InitSuccess})
	}

	close(call.done)
}

// BiddingToken returns the last fetched token, or "" before the first successful fetch.
func (l *Lifecycle) BiddingToken() string {
	if t := l.token.Load(); t != nil {
		return t.value
	}
	return ""
}

// TokenFetchedAt returns when the current token was fetched, or the zero time.
func (l *Lifecycle) TokenFetchedAt() time.Time {
	if t := l.token.Load(); t != nil {
		return t.fetchedAt
	}
	return time.Time{}
}

// FetchBiddingToken refreshes the token. Before the SDK is initialized onComplete receives
// *errortypes.TokenUnavailable immediately. Refreshes requested while one is in flight share its result.
func (l *Lifecycle) FetchBiddingToken(onComplete func(token string, err error)) {
	if onComplete == nil {
		onComplete = func(string, error) {}
	}

	ch, err := l.fetchToken()
	if err != nil {
		onComplete("", err)
		return
	}

	go func() {
		res := <-ch
		token, _ := res.Val.(string)
		onComplete(token, res.Err)
	}()
}

// FetchBiddingTokenContext is the blocking form of FetchBiddingToken.
func (l *Lifecycle) FetchBiddingTokenContext(ctx context.Context) (string, error) {
	ch, err := l.fetchToken()
	if err != nil {
		return "", err
	}

	select {
	case res := <-ch:
		token, _ := res.Val.(string)
		return token, res.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (l *Lifecycle) fetchToken() (<-chan singleflight.Result, error) {
	if l.State() != StateInitialized {
		l.me.RecordBiddingTokenFetch(metrics.TokenLabels{Adapter: l.network, Outcome: metrics.TokenUnavailable})
		return nil, &errortypes.TokenUnavailable{Network: l.network}
	}

	return l.tokenGroup.DoChan(l.network, func() (interface{}, error) {
		results := make(chan tokenResult, 1)
		var once sync.Once
		l.sdk.FetchBiddingToken(func(token string, err error) {
			once.Do(func() {
				results <- tokenResult{token: token, err: err}
			})
		})

		res := <-results
		if res.err != nil {
			glog.Warningf("%s: bidding token fetch failed: %v", l.network, res.err)
			l.me.RecordBiddingTokenFetch(metrics.TokenLabels{Adapter: l.network, Outcome: metrics.TokenError})
			return "", &errortypes.TokenFetch{Network: l.network, Cause: res.err}
		}

		l.token.Store(&biddingToken{value: res.token, fetchedAt: l.clock.Now()})
		l.me.RecordBiddingTokenFetch(metrics.TokenLabels{Adapter: l.network, Outcome: metrics.TokenSuccess})
		return res.token, nil
	}), nil
}
