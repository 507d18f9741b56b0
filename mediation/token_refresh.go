package mediation

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"github.com/maio/mopub-adapter/adapters"
	"github.com/maio/mopub-adapter/config"
	"github.com/maio/mopub-adapter/errortypes"
	"github.com/maio/mopub-adapter/util/task"
)

// defaultTokenFetchTimeout bounds a refresh when the adapter config has no timeout.
const defaultTokenFetchTimeout = 10 * time.Second

// StartTokenRefreshers starts a periodic bidding token refresh for every registered adapter whose
// config sets token_refresh_seconds. The caller stops the returned tasks on shutdown.
func StartTokenRefreshers(registry *Registry, cfgs map[string]config.Adapter, clk clock.Clock) []*task.TickerTask {
	var tasks []*task.TickerTask
	for _, name := range registry.Names() {
		interval := cfgs[name].TokenRefreshInterval()
		if interval <= 0 {
			continue
		}

		adapter, _ := registry.Get(name)
		contextAdapter, ok := adapter.(adapters.ContextAdapterConfiguration)
		if !ok {
			glog.Warningf("%s: adapter does not support blocking token fetches, refresh disabled", name)
			continue
		}

		timeout := cfgs[name].Timeout()
		if timeout <= 0 {
			timeout = defaultTokenFetchTimeout
		}

		t := task.NewTickerTaskWithOptions(task.Options{
			Interval: interval,
			Runner:   &tokenRefresher{adapter: contextAdapter, timeout: timeout},
			Clock:    clk,
		})
		t.Start()
		glog.Infof("%s: refreshing bidding token every %v", name, interval)
		tasks = append(tasks, t)
	}
	return tasks
}

type tokenRefresher struct {
	adapter adapters.ContextAdapterConfiguration
	timeout time.Duration
}

func (r *tokenRefresher) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_, err := r.adapter.FetchBiddingTokenContext(ctx)
	if err != nil {
		var unavailable *errortypes.TokenUnavailable
		if errors.As(err, &unavailable) {
			glog.V(2).Infof("%v", err)
		} else {
			glog.Warningf("token refresh: %v", err)
		}
	}
	return err
}
