package interaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenerFuncs_NilFieldsSkipped(t *testing.T) {
	var l Listener = ListenerFuncs{}

	assert.NotPanics(t, func() {
		l.OnScaleChange(2)
		l.OnRotationChange(0.1, 0.2)
		l.OnHeartDetected(Detection{})
		l.OnModeChange(ModeDrawing, ModeDetected)
		l.OnTrailReset(TrailResetHandLost)
	})
}

func TestBroadcaster(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	bc := NewBroadcaster(a.listener(), nil)
	bc.Add(b.listener())
	bc.Add(nil)

	bc.OnModeChange(ModeDrawing, ModeDetected)
	bc.OnHeartDetected(Detection{ID: "d1"})
	bc.OnScaleChange(1.5)
	bc.OnRotationChange(0.1, -0.2)

	want := []string{"mode:drawing>detected", "heart", "scale", "rotation"}
	assert.Equal(t, want, a.snapshot())
	assert.Equal(t, want, b.snapshot())
	assert.Equal(t, "d1", b.detections[0].ID)
	assert.Equal(t, []float64{1.5}, a.scales)

	var reasons []TrailResetReason
	bc.Add(ListenerFuncs{TrailReset: func(r TrailResetReason) { reasons = append(reasons, r) }})
	bc.OnTrailReset(TrailResetIdle)
	assert.Equal(t, []TrailResetReason{TrailResetIdle}, reasons)
}

func TestMode_Text(t *testing.T) {
	tests := []struct {
		mode Mode
		name string
	}{
		{ModeDrawing, "drawing"},
		{ModeDetected, "detected"},
		{ModeManipulating, "manipulating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.mode.String())

			data, err := json.Marshal(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, `"`+tt.name+`"`, string(data))

			var got Mode
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.mode, got)
		})
	}

	assert.Equal(t, "mode(7)", Mode(7).String())

	var m Mode
	assert.Error(t, m.UnmarshalText([]byte("spinning")))
}
