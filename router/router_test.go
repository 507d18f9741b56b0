package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/maio/mopub-adapter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAdapterInfo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	info := []byte("maintainer:\n  email: sdk@maio.example\nformats:\n  - interstitial\n  - rewarded\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "maio.yaml"), info, 0644))
	return dir
}

func TestNewRegistersInfoEndpoints(t *testing.T) {
	cfg := &config.Configuration{
		AdminPort:      6060,
		AdapterInfoDir: writeAdapterInfo(t),
		Adapters: map[string]config.Adapter{
			// Nothing is cached for maio, so startup initialization fails fast on the missing media ID.
			"maio": {Enabled: true, Endpoint: "http://127.0.0.1:1", TimeoutMS: 100},
		},
	}

	r, err := New(cfg, "abc123")
	require.NoError(t, err)
	defer r.Shutdown()

	assert.Equal(t, []string{"maio"}, r.Registry.Names())

	testCases := []struct {
		desc           string
		path           string
		expectedStatus int
	}{
		{desc: "list", path: "/info/adapters", expectedStatus: http.StatusOK},
		{desc: "details", path: "/info/adapters/maio", expectedStatus: http.StatusOK},
		{desc: "token before initialization", path: "/info/adapters/maio/token", expectedStatus: http.StatusServiceUnavailable},
		{desc: "unknown adapter", path: "/info/adapters/unknown", expectedStatus: http.StatusNotFound},
		{desc: "status", path: "/status", expectedStatus: http.StatusNoContent},
		{desc: "version", path: "/version", expectedStatus: http.StatusOK},
	}

	for _, test := range testCases {
		recorder := httptest.NewRecorder()
		r.ServeHTTP(recorder, httptest.NewRequest("GET", test.path, nil))
		assert.Equal(t, test.expectedStatus, recorder.Code, test.desc)
	}
}

func TestNewFailsWithoutAdapterInfo(t *testing.T) {
	cfg := &config.Configuration{
		AdminPort:      6060,
		AdapterInfoDir: t.TempDir(),
		Adapters:       map[string]config.Adapter{"maio": {Enabled: true, Endpoint: "http://127.0.0.1:1"}},
	}

	_, err := New(cfg, "abc123")
	assert.Error(t, err)
}

func TestNoCache(t *testing.T) {
	nc := NoCache{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	}
	recorder := httptest.NewRecorder()
	nc.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "no-cache, no-store, must-revalidate", recorder.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", recorder.Header().Get("Pragma"))
	assert.Equal(t, "0", recorder.Header().Get("Expires"))
}

func TestSupportCORS(t *testing.T) {
	handler := SupportCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/info/adapters", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "https://dashboard.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
}
