package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHandler_State(t *testing.T) {
	c := newFakeController()
	h := newRouter(c, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "manipulating", body["mode"])
	assert.Equal(t, 1.5, body["scale"])
	assert.Equal(t, -0.3, body["rotation_y"])
	assert.Equal(t, true, body["enabled"])
	assert.Contains(t, body, "trail_length")
	assert.Contains(t, body, "cooling_down")
}

func TestSessionHandler_Reset(t *testing.T) {
	c := newFakeController()
	h := newRouter(c, nil)

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/reset", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{ResetSourceHTTP}, c.resets)

	var body stateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "drawing", body.Mode.String())
	assert.Equal(t, 1.0, body.Scale)

	t.Run("GET not allowed", func(t *testing.T) {
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/reset", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestSessionHandler_Enabled(t *testing.T) {
	c := newFakeController()
	h := newRouter(c, nil)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantEnabled bool
	}{
		{name: "disable", body: `{"enabled": false}`, wantStatus: http.StatusOK, wantEnabled: false},
		{name: "enable", body: `{"enabled": true}`, wantStatus: http.StatusOK, wantEnabled: true},
		{name: "missing field", body: `{}`, wantStatus: http.StatusBadRequest, wantEnabled: true},
		{name: "invalid json", body: `{enabled`, wantStatus: http.StatusBadRequest, wantEnabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/enabled", strings.NewReader(tt.body))
			rec := serve(h, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantEnabled, c.Enabled())
		})
	}

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/enabled", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body enabledResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Enabled)
}
