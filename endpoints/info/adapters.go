package info

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/maio/mopub-adapter/adapters"
	"github.com/maio/mopub-adapter/config"
	"github.com/maio/mopub-adapter/errortypes"
)

// AdapterDirectory is the read side of the host registry the endpoints serve.
type AdapterDirectory interface {
	Get(name string) (adapters.AdapterConfiguration, bool)
	Names() []string
}

// NewAdaptersEndpoint implements /info/adapters
func NewAdaptersEndpoint(directory AdapterDirectory) httprouter.Handle {
	adaptersJson, err := json.Marshal(directory.Names())
	if err != nil {
		glog.Fatalf("error creating /info/adapters endpoint response: %v", err)
	}

	return httprouter.Handle(func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(adaptersJson); err != nil {
			glog.Errorf("error writing response to /info/adapters: %v", err)
		}
	})
}

// NewAdapterDetailsEndpoint implements /info/adapters/:name
//
// Identity and metadata are fixed at startup, but the state and token fields are read on every
// request. Cached parameter values may hold credentials, so only their keys are exposed.
func NewAdapterDetailsEndpoint(directory AdapterDirectory, infos config.AdapterInfos) httprouter.Handle {
	return httprouter.Handle(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		forAdapter := ps.ByName("name")
		adapter, ok := directory.Get(forAdapter)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		response := adapterDetails{
			Name:              adapter.MoPubNetworkName(),
			AdapterVersion:    adapter.AdapterVersion(),
			NetworkSDKVersion: adapter.NetworkSDKVersion(),
			HasBiddingToken:   adapter.BiddingToken() != "",
		}
		if info, found := infos[forAdapter]; found {
			response.Maintainer = info.Maintainer
			response.Formats = info.Formats
			response.Parameters = info.Parameters
		}
		if reporter, ok := adapter.(adapters.StatusReporter); ok {
			response.State = reporter.State().String()
			response.CachedParameterKeys = sortedKeys(reporter.CachedInitializationParameters())
			if fetchedAt := reporter.TokenFetchedAt(); !fetchedAt.IsZero() {
				response.TokenFetchedAt = &fetchedAt
			}
		}

		writeJSON(w, http.StatusOK, response, "/info/adapters/"+forAdapter)
	})
}

// NewAdapterTokenEndpoint implements /info/adapters/:name/token
//
// Each request refreshes the bidding token, sharing any refresh already in flight, and waits for it
// while the client stays connected.
func NewAdapterTokenEndpoint(directory AdapterDirectory) httprouter.Handle {
	return httprouter.Handle(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		forAdapter := ps.ByName("name")
		path := "/info/adapters/" + forAdapter + "/token"

		adapter, ok := directory.Get(forAdapter)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		token, err := fetchToken(req, adapter)
		if err != nil {
			writeJSON(w, tokenErrorStatus(err), tokenResponse{Error: err.Error()}, path)
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{Token: token}, path)
	})
}

func fetchToken(req *http.Request, adapter adapters.AdapterConfiguration) (string, error) {
	if contextAdapter, ok := adapter.(adapters.ContextAdapterConfiguration); ok {
		return contextAdapter.FetchBiddingTokenContext(req.Context())
	}

	type result struct {
		token string
		err   error
	}
	results := make(chan result, 1)
	adapter.FetchBiddingToken(func(token string, err error) {
		results <- result{token, err}
	})

	select {
	case res := <-results:
		return res.token, res.err
	case <-req.Context().Done():
		return "", req.Context().Err()
	}
}

func tokenErrorStatus(err error) int {
	var unavailable *errortypes.TokenUnavailable
	if errors.As(err, &unavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, response interface{}, path string) {
	body, err := json.Marshal(response)
	if err != nil {
		glog.Errorf("error creating %s response: %v", path, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		glog.Errorf("error writing response to %s: %v", path, err)
	}
}

func sortedKeys(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type adapterDetails struct {
	Name                string                 `json:"name"`
	AdapterVersion      string                 `json:"adapterVersion"`
	NetworkSDKVersion   string                 `json:"networkSdkVersion"`
	State               string                 `json:"state,omitempty"`
	HasBiddingToken     bool                   `json:"hasBiddingToken"`
	TokenFetchedAt      *time.Time             `json:"tokenFetchedAt,omitempty"`
	CachedParameterKeys []string               `json:"cachedParameterKeys,omitempty"`
	Maintainer          *config.MaintainerInfo `json:"maintainer,omitempty"`
	Formats             []string               `json:"formats,omitempty"`
	Parameters          []config.ParameterInfo `json:"parameters,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}
