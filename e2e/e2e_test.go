package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/heartsketch/internal/app"
	"github.com/ayusman/heartsketch/internal/capture"
	"github.com/ayusman/heartsketch/internal/detector"
	"github.com/ayusman/heartsketch/internal/gesture"
	"github.com/ayusman/heartsketch/internal/interaction"
	"github.com/ayusman/heartsketch/internal/server"
	"github.com/ayusman/heartsketch/internal/store"
)

type wireEvent struct {
	Type string           `json:"type"`
	From interaction.Mode `json:"from"`
	To   interaction.Mode `json:"to"`
}

func TestE2E_DrawHeartThenReset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer s.Close()

	heart := gesture.HeartCurve(60, gesture.Point2D{X: 0.5, Y: 0.5}, 0.3)
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.PointingLandmarks(heart[0])})
	for _, p := range heart {
		det.Queue([]detector.HandLandmarks{detector.PointingLandmarks(p)})
	}

	hub := server.NewEventHub(nil)
	a, err := app.New(app.Config{
		Interaction: interaction.DefaultConfig(),
		Camera:      capture.NewMockCamera(nil, false),
		Detector:    det,
		FPS:         60,
		Store:       s,
		Listeners:   []interaction.Listener{hub},
	})
	require.NoError(t, err)

	srv := server.New(server.Config{Store: s, Controller: a, Events: hub})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/events", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, a.Start())
	defer a.Stop()

	t.Run("EventsStream", func(t *testing.T) {
		var types []string
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
		for {
			var ev wireEvent
			require.NoError(t, conn.ReadJSON(&ev))
			types = append(types, ev.Type)
			if ev.Type == server.EventMode && ev.To == interaction.ModeManipulating {
				break
			}
		}
		assert.Equal(t, []string{server.EventMode, server.EventHeart, server.EventMode}, types)
	})

	t.Run("State", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/state")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var state struct {
			Mode    interaction.Mode `json:"mode"`
			Scale   float64          `json:"scale"`
			Enabled bool             `json:"enabled"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
		assert.Equal(t, interaction.ModeManipulating, state.Mode)
		assert.Equal(t, 1.0, state.Scale)
		assert.True(t, state.Enabled)
	})

	t.Run("Journal", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/detections?limit=10")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list struct {
			Total int `json:"total"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		assert.Equal(t, 1, list.Total)
	})

	t.Run("Pause", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/enabled", strings.NewReader(`{"enabled":false}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.False(t, a.Enabled())
		assert.False(t, s.Settings().Bool(store.SettingEnabled, true))
	})

	t.Run("Reset", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/reset", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, interaction.ModeDrawing, a.State().Mode)
	})
}
