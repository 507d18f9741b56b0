package mediation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/golang/glog"
	"github.com/maio/mopub-adapter/adapters"
	"github.com/maio/mopub-adapter/errortypes"
)

// Registry is the host-side directory of adapters, keyed by MoPubNetworkName.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]adapters.AdapterConfiguration
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]adapters.AdapterConfiguration)}
}

// Register adds adapter under its MoPubNetworkName. Empty and duplicate names are rejected.
func (r *Registry) Register(adapter adapters.AdapterConfiguration) error {
	name := adapter.MoPubNetworkName()
	if name == "" {
		return &errortypes.BadInput{Message: "adapter has an empty network name"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return &errortypes.BadInput{Message: fmt.Sprintf("%s: adapter already registered", name)}
	}
	r.adapters[name] = adapter
	return nil
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (adapters.AdapterConfiguration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[name]
	return adapter, ok
}

// Names returns the registered network names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InitializeAll initializes every registered adapter concurrently with its cached parameters and
// waits for all of them, or for ctx. The returned error aggregates every failed network.
func (r *Registry) InitializeAll(ctx context.Context) error {
	names := r.Names()
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		adapter, _ := r.Get(name)
		wg.Add(1)
		go func(i int, adapter adapters.AdapterConfiguration) {
			defer wg.Done()
			errs[i] = initialize(ctx, adapter)
		}(i, adapter)
	}
	wg.Wait()

	var failed []error
	for i, err := range errs {
		if err != nil {
			glog.Errorf("%s: initialization failed: %v", names[i], err)
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return errortypes.NewAggregateErrors("adapter initialization", failed)
	}
	return nil
}

func initialize(ctx context.Context, adapter adapters.AdapterConfiguration) error {
	if contextAdapter, ok := adapter.(adapters.ContextAdapterConfiguration); ok {
		return contextAdapter.InitializeNetworkContext(ctx, nil)
	}

	result := make(chan error, 1)
	adapter.InitializeNetwork(nil, func(err error) { result <- err })

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
