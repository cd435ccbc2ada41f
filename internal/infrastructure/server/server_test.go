package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/nextmac/internal/infrastructure/config"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.Storage.Backend = backend
	cfg.Storage.Path = t.TempDir()
	cfg.RateLimit.Enabled = false
	return cfg
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestServerRoutes(t *testing.T) {
	s, err := NewServer(testConfig(t, "memory"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	for _, path := range []string{"/", "/health", "/metrics", "/catalog", "/desktop/state"} {
		w := serve(s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := serve(s, http.MethodPost, "/auth/password", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(s, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestServerRestoresSession(t *testing.T) {
	cfg := testConfig(t, "file")

	first, err := NewServer(cfg)
	require.NoError(t, err)
	w := serve(first, http.MethodPost, "/desktop/actions", `{"type":"CREATE_FOLDER"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, first.Close())

	second, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	w = serve(second, http.MethodGet, "/desktop/state", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		State struct {
			DesktopFiles []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"desktopFiles"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.State.DesktopFiles, 1)
	assert.Equal(t, "folder", resp.State.DesktopFiles[0].Type)
	assert.Equal(t, 1, len(second.store.State().DesktopFiles))
}

func TestServerRejectsUnknownBackend(t *testing.T) {
	_, err := NewServer(testConfig(t, "tape"))
	assert.Error(t, err)
}

func TestServerGlobalRateLimit(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Global = true
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 1

	s, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	codes := make([]int, 0, 2)
	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
