package mediation

import (
	"fmt"
	"sort"

	"github.com/golang/glog"
	"github.com/maio/mopub-adapter/adapters"
	"github.com/maio/mopub-adapter/config"
)

// BuildAdapters builds every enabled adapter in cfg and registers it. Parameters configured for an
// adapter seed its initialization-parameter cache.
func BuildAdapters(cfg *config.Configuration, deps adapters.Dependencies) (*Registry, []error) {
	return buildAdapters(cfg.Adapters, newAdapterBuilders(), deps)
}

func buildAdapters(cfgs map[string]config.Adapter, builders map[string]adapters.Builder, deps adapters.Dependencies) (*Registry, []error) {
	if deps.ParamStore == nil {
		deps.ParamStore = adapters.NewParamStore()
	}

	registry := NewRegistry()
	var errs []error

	for _, name := range sortedNames(cfgs) {
		adapterCfg := cfgs[name]
		if !adapterCfg.Enabled {
			glog.Infof("%s: adapter disabled by config", name)
			continue
		}

		builder, builderFound := builders[name]
		if !builderFound {
			errs = append(errs, fmt.Errorf("%v: builder not registered", name))
			continue
		}

		adapter, builderErr := builder(name, adapterCfg, deps)
		if builderErr != nil {
			errs = append(errs, fmt.Errorf("%v: %v", name, builderErr))
			continue
		}

		if len(adapterCfg.Parameters) > 0 {
			adapter.UpdateInitializationParameters(adapterCfg.Parameters)
		}

		if err := registry.Register(adapter); err != nil {
			errs = append(errs, err)
		}
	}
	return registry, errs
}

// GetActiveAdapters returns the names of all enabled adapters, sorted.
func GetActiveAdapters(cfgs map[string]config.Adapter) []string {
	active := make([]string, 0, len(cfgs))
	for _, name := range sortedNames(cfgs) {
		if cfgs[name].Enabled {
			active = append(active, name)
		}
	}
	return active
}

func sortedNames(cfgs map[string]config.Adapter) []string {
	names := make([]string, 0, len(cfgs))
	for name := range cfgs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
