package detector

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/heartsketch/internal/gesture"
)

const epsilon = 1e-9

func TestHandLandmarks_Landmark(t *testing.T) {
	hand := PointingLandmarks(gesture.Point2D{X: 0.4, Y: 0.3})

	t.Run("present landmark", func(t *testing.T) {
		p, ok := hand.Landmark(IndexTip)
		require.True(t, ok)
		if math.Abs(p.X-0.4) > epsilon || math.Abs(p.Y-0.3) > epsilon {
			t.Errorf("expected index tip at (0.4, 0.3), got (%f, %f)", p.X, p.Y)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		_, ok := hand.Landmark(NumLandmarks)
		assert.False(t, ok)
		_, ok = hand.Landmark(-1)
		assert.False(t, ok)
	})

	t.Run("nil hand", func(t *testing.T) {
		var h *HandLandmarks
		_, ok := h.Landmark(IndexTip)
		assert.False(t, ok)
	})

	t.Run("partial hand", func(t *testing.T) {
		partial := HandLandmarks{Points: hand.Points[:ThumbTip+1]}
		_, ok := partial.Tip(ThumbTip)
		assert.True(t, ok)
		_, ok = partial.Tip(IndexTip)
		assert.False(t, ok)
		_, _, ok = partial.PinchTips()
		assert.False(t, ok)
	})

	t.Run("non-finite coordinates", func(t *testing.T) {
		broken := PointingLandmarks(gesture.Point2D{X: 0.5, Y: 0.5})
		broken.Points[IndexTip].Y = math.NaN()
		_, ok := broken.Tip(IndexTip)
		assert.False(t, ok)
	})
}

func TestPinchLandmarks(t *testing.T) {
	thumb := gesture.Point2D{X: 0.45, Y: 0.5}
	index := gesture.Point2D{X: 0.55, Y: 0.48}

	hand := PinchLandmarks(thumb, index)

	gotThumb, gotIndex, ok := hand.PinchTips()
	require.True(t, ok)
	assert.InDelta(t, thumb.X, gotThumb.X, epsilon)
	assert.InDelta(t, thumb.Y, gotThumb.Y, epsilon)
	assert.InDelta(t, index.X, gotIndex.X, epsilon)
	assert.InDelta(t, index.Y, gotIndex.Y, epsilon)
	assert.Len(t, hand.Points, NumLandmarks)
}

func TestMockDetector(t *testing.T) {
	m := NewMockDetector()
	pointing := PointingLandmarks(gesture.Point2D{X: 0.5, Y: 0.5})

	t.Run("empty by default", func(t *testing.T) {
		hands, err := m.Detect(nil)
		require.NoError(t, err)
		assert.Empty(t, hands)
	})

	t.Run("queue before steady hands", func(t *testing.T) {
		m.SetHands([]HandLandmarks{pointing})
		m.Queue(nil, []HandLandmarks{pointing, pointing})
		assert.Equal(t, 2, m.Pending())

		first, _ := m.Detect(nil)
		second, _ := m.Detect(nil)
		third, _ := m.Detect(nil)

		assert.Empty(t, first)
		assert.Len(t, second, 2)
		assert.Len(t, third, 1)
		assert.Zero(t, m.Pending())
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		m.SetError(boom)
		_, err := m.Detect(nil)
		assert.ErrorIs(t, err, boom)
		m.SetError(nil)
	})

	t.Run("closed", func(t *testing.T) {
		require.NoError(t, m.Close())
		_, err := m.Detect(nil)
		assert.ErrorIs(t, err, ErrDetectorClosed)
	})

	assert.Equal(t, 5, m.Calls())
}

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantHands int
		wantErr   bool
	}{
		{name: "no hands", line: `{"hands":[]}` + "\n", wantHands: 0},
		{name: "one hand", line: `{"hands":[{"points":[{"x":0.1,"y":0.2,"z":0}],"handedness":"Left","score":0.9}]}`, wantHands: 1},
		{name: "bridge error", line: `{"error":"decode failed"}`, wantErr: true},
		{name: "garbage", line: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := decodeResponse([]byte(tt.line))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, hands, tt.wantHands)
		})
	}
}

func TestNewMediaPipeDetector(t *testing.T) {
	t.Run("missing script", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Script = filepath.Join(t.TempDir(), "missing.py")

		_, err := NewMediaPipeDetector(cfg, nil)

		assert.Error(t, err)
	})

	t.Run("explicit script and interpreter", func(t *testing.T) {
		script := filepath.Join(t.TempDir(), bridgeScript)
		require.NoError(t, os.WriteFile(script, []byte("print()\n"), 0o644))

		cfg := DefaultConfig()
		cfg.Script = script
		cfg.Python = "/usr/bin/python3"

		d, err := NewMediaPipeDetector(cfg, nil)
		require.NoError(t, err)

		args := d.args()
		assert.Equal(t, script, args[0])
		assert.Contains(t, args, "--min-detection-confidence")
		assert.Contains(t, args, "0.3")
		assert.NoError(t, d.Close())
	})
}
