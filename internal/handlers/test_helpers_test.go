package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/config"
)

// upstreamStub fakes the backend API: canned JSON responses keyed by exact
// request path, recording every request it serves.
type upstreamStub struct {
	mu        sync.Mutex
	responses map[string]stubResponse
	requests  []*http.Request
}

type stubResponse struct {
	status int
	body   any
}

func newUpstreamStub() *upstreamStub {
	return &upstreamStub{responses: make(map[string]stubResponse)}
}

func (s *upstreamStub) respond(path string, body any) {
	s.respondStatus(path, http.StatusOK, body)
}

func (s *upstreamStub) respondStatus(path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = stubResponse{status: status, body: body}
}

func (s *upstreamStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	recorded := r.Clone(r.Context())
	if r.Body != nil {
		payload, _ := io.ReadAll(r.Body)
		recorded.Body = io.NopCloser(bytes.NewReader(payload))
	}

	s.mu.Lock()
	s.requests = append(s.requests, recorded)
	resp, ok := s.responses[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "no stub for " + r.URL.Path})
		return
	}
	w.WriteHeader(resp.status)
	if resp.body != nil {
		_ = json.NewEncoder(w).Encode(resp.body)
	}
}

func (s *upstreamStub) served() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func setupAPITest(t *testing.T) (*fiber.App, *upstreamStub) {
	t.Helper()

	stub := newUpstreamStub()
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	layout, err := config.DefaultPanelLayout()
	require.NoError(t, err)

	api := NewAPI(backend.NewClient(server.URL), layout, nil, "/login")
	app := fiber.New()
	api.Register(app)
	return app, stub
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
