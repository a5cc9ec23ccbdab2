package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	rec := do(s, http.MethodGet, "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Uptime)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			assert.Equal(t, http.StatusMethodNotAllowed, do(s, method, "/api/health").Code)
		})
	}
}

func TestServer_Routes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<canvas></canvas>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "heart.js"), []byte("draw()"), 0o644))

	tests := []struct {
		name     string
		config   Config
		path     string
		wantCode int
		wantBody string
	}{
		{name: "unknown api path", path: "/api/nonexistent", wantCode: http.StatusNotFound},
		{name: "no static dir", path: "/", wantCode: http.StatusNotFound},
		{name: "state without controller", path: "/api/state", wantCode: http.StatusNotFound},
		{name: "detections without store", path: "/api/detections", wantCode: http.StatusNotFound},
		{name: "events without hub", path: "/api/events", wantCode: http.StatusNotFound},
		{name: "index", config: Config{StaticDir: dir}, path: "/", wantCode: http.StatusOK, wantBody: "<canvas></canvas>"},
		{name: "static file", config: Config{StaticDir: dir}, path: "/heart.js", wantCode: http.StatusOK, wantBody: "draw()"},
		{name: "missing static file", config: Config{StaticDir: dir}, path: "/missing.js", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(New(tt.config), http.MethodGet, tt.path)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestServer_ShutdownWithoutListen(t *testing.T) {
	hub := NewEventHub(nil)
	s := New(Config{Events: hub})

	require.NoError(t, s.Shutdown(context.Background()))
	assert.Zero(t, hub.Clients())
}
