package adapters

import "sync"

// ParamStore caches initialization parameters per adapter type for the lifetime of the process.
// Hosts own a single store and hand it to every adapter they build, so a newly constructed
// adapter observes the parameters an earlier instance cached. There is no way to clear an entry.
type ParamStore interface {
	// Load returns a copy of the parameters cached for network, or nil if there are none.
	Load(network string) map[string]string
	// Store replaces the parameters cached for network.
	Store(network string, params map[string]string)
}

// NewParamStore returns an empty in-memory ParamStore.
func NewParamStore() ParamStore {
	return &memoryParamStore{
		params: make(map[string]map[string]string),
	}
}

type memoryParamStore struct {
	mu     sync.RWMutex
	params map[string]map[string]string
}

func (s *memoryParamStore) Load(network string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	params, ok := s.params[network]
	if !ok {
		return nil
	}
	return copyParams(params)
}

func (s *memoryParamStore) Store(network string, params map[string]string) {
	cp := copyParams(params)

	s.mu.Lock()
	s.params[network] = cp
	s.mu.Unlock()
}

func copyParams(params map[string]string) map[string]string {
	cp := make(map[string]string, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return cp
}

// mergeParams overlays override onto base without modifying either.
func mergeParams(base, override map[string]string) map[string]string {
	merged := copyParams(base)
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
