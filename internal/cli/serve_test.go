package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/config"
)

func newTestApp(t *testing.T, upstream http.Handler) *testServer {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	client := backend.NewClient(server.URL)
	cfg := &config.Config{
		Port:       "3000",
		BackendURL: server.URL,
		LoginURL:   "/login",
	}

	app, err := newServerApp(client, cfg, []byte("<html><title>{{.Title}}</title><body>{{.Version}}</body></html>"))
	require.NoError(t, err)
	return &testServer{t: t, app: app}
}

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func (s *testServer) get(path string) *http.Response {
	s.t.Helper()
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(s.t, err)
	return resp
}

func okUpstream() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"metadata": map[string]any{"total": 0}, "data": []any{}})
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestApp(t, okUpstream())

	resp := srv.get("/health")
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "webstatus-dashboard", payload["service"])
}

func TestUpEndpointReportsBackendHealth(t *testing.T) {
	srv := newTestApp(t, okUpstream())
	resp := srv.get("/up")
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpEndpointFailsWhenBackendDown(t *testing.T) {
	srv := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	resp := srv.get("/up")
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestVersionEndpointAndHeader(t *testing.T) {
	original := Version
	Version = "1.2.3"
	t.Cleanup(func() { Version = original })

	srv := newTestApp(t, okUpstream())
	resp := srv.get("/api/version")
	assert.Equal(t, "1.2.3", resp.Header.Get("X-Webstatus-Version"))

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	_ = resp.Body.Close()
	assert.Equal(t, "1.2.3", payload["version"])
}

func TestDashboardShellSubstitutesTemplateVars(t *testing.T) {
	original := Version
	Version = "9.9.9"
	t.Cleanup(func() { Version = original })

	srv := newTestApp(t, okUpstream())
	resp := srv.get("/")
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Webstatus Dashboard")
	assert.Contains(t, string(body), "9.9.9")
	assert.NotContains(t, string(body), "{{.")
}

func TestAPIRoutesAreMounted(t *testing.T) {
	srv := newTestApp(t, okUpstream())

	resp := srv.get("/api/features")
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
