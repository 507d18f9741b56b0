package router

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/maio/mopub-adapter/adapters"
	"github.com/maio/mopub-adapter/adapters/maio"
	"github.com/maio/mopub-adapter/config"
	"github.com/maio/mopub-adapter/endpoints"
	"github.com/maio/mopub-adapter/endpoints/info"
	"github.com/maio/mopub-adapter/errortypes"
	"github.com/maio/mopub-adapter/mediation"
	metricsConf "github.com/maio/mopub-adapter/metrics/config"
	"github.com/maio/mopub-adapter/router/aspects"
	"github.com/maio/mopub-adapter/util/task"
	"github.com/rs/cors"
)

// initializationTimeout bounds the startup wait for network SDKs. Attempts still running after it
// keep going in the background.
const initializationTimeout = 30 * time.Second

// Router is the admin HTTP handler together with the adapter state it serves.
type Router struct {
	*httprouter.Router
	MetricsEngine   *metricsConf.DetailedMetricsEngine
	Registry        *mediation.Registry
	tokenRefreshers []*task.TickerTask
}

// New builds the metrics engine and every enabled adapter, initializes the networks, schedules token
// refreshes and registers the info endpoints. revision is reported by /version.
func New(cfg *config.Configuration, revision string) (r *Router, err error) {
	r = &Router{
		Router: httprouter.New(),
	}

	activeAdapters := mediation.GetActiveAdapters(cfg.Adapters)
	r.MetricsEngine = metricsConf.NewMetricsEngine(cfg, activeAdapters)

	p, _ := filepath.Abs(cfg.AdapterInfoDir)
	adapterInfos, err := config.LoadAdapterInfoFromDisk(p, cfg.Adapters, activeAdapters)
	if err != nil {
		return nil, fmt.Errorf("could not load adapter info: %v", err)
	}

	clk := clock.New()
	deps := adapters.Dependencies{
		ParamStore:    adapters.NewParamStore(),
		MetricsEngine: r.MetricsEngine,
		Clock:         clk,
	}

	registry, buildErrs := mediation.BuildAdapters(cfg, deps)
	if len(buildErrs) > 0 {
		return nil, errortypes.NewAggregateErrors("Failed to build adapters", buildErrs)
	}
	r.Registry = registry

	ctx, cancel := context.WithTimeout(context.Background(), initializationTimeout)
	defer cancel()
	if err := registry.InitializeAll(ctx); err != nil {
		// Failed networks are excluded until a later initialization succeeds.
		glog.Warningf("Some networks did not initialize: %v", err)
	}

	r.tokenRefreshers = mediation.StartTokenRefreshers(registry, cfg.Adapters, clk)

	r.GET("/info/adapters", info.NewAdaptersEndpoint(registry))
	r.GET("/info/adapters/:name", info.NewAdapterDetailsEndpoint(registry, adapterInfos))
	r.GET("/info/adapters/:name/token", aspects.RequestTimeout(info.NewAdapterTokenEndpoint(registry), cfg.RequestTimeout()))
	r.GET("/status", serveStatus)
	r.GET("/version", endpoints.NewVersionEndpoint(maio.AdapterVersion, revision))

	return r, nil
}

// Shutdown stops the token refreshers.
func (r *Router) Shutdown() {
	for _, refresher := range r.tokenRefreshers {
		refresher.Stop()
	}
}

func serveStatus(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusNoContent)
}

type NoCache struct {
	Handler http.Handler
}

func (m NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Add("Pragma", "no-cache")
	w.Header().Add("Expires", "0")
	m.Handler.ServeHTTP(w, r)
}

// SupportCORS lets browser based dashboards read the info endpoints. Nothing here is authenticated
// by cookie, so credentials are not allowed.
func SupportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowOriginFunc: func(string) bool {
			return true
		},
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"}})
	return c.Handler(handler)
}
