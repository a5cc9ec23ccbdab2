package gesture

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMASmoother_FirstCallReturnsInput(t *testing.T) {
	inputs := []Point2D{
		{X: 0, Y: 0},
		{X: 0.25, Y: 0.75},
		{X: 1, Y: 1},
		{X: 0.123456, Y: 0.987654},
	}

	for _, in := range inputs {
		s, err := NewEMASmoother(DefaultEMAAlpha)
		require.NoError(t, err)

		assert.Equal(t, in, s.Smooth(in))
	}
}

func TestEMASmoother_ConvergesMonotonically(t *testing.T) {
	s, err := NewEMASmoother(DefaultEMAAlpha)
	require.NoError(t, err)

	s.Smooth(Point2D{X: 0, Y: 1})
	target := Point2D{X: 1, Y: 0}

	prev := math.Inf(1)
	for i := 0; i < 40; i++ {
		d := s.Smooth(target).DistanceTo(target)
		assert.Less(t, d, prev, "step %d did not move closer", i)
		prev = d
	}
	assert.Less(t, prev, 1e-5)
}

func TestEMASmoother_Blend(t *testing.T) {
	s, err := NewEMASmoother(0.3)
	require.NoError(t, err)

	s.Smooth(Point2D{X: 0, Y: 0})
	got := s.Smooth(Point2D{X: 1, Y: 0.5})

	assert.InDelta(t, 0.3, got.X, 1e-12)
	assert.InDelta(t, 0.15, got.Y, 1e-12)
}

func TestEMASmoother_Reset(t *testing.T) {
	s, err := NewEMASmoother(0.3)
	require.NoError(t, err)

	s.Smooth(Point2D{X: 0, Y: 0})
	s.Reset()

	p := Point2D{X: 0.9, Y: 0.1}
	assert.Equal(t, p, s.Smooth(p))
}

func TestNewEMASmoother_InvalidAlpha(t *testing.T) {
	for _, alpha := range []float64{0, -0.1, 1.5} {
		_, err := NewEMASmoother(alpha)
		assert.True(t, errors.Is(err, ErrInvalidConfig), "alpha %v", alpha)
	}

	_, err := NewEMASmoother(1)
	assert.NoError(t, err)
}

func TestKalmanSmoother(t *testing.T) {
	s, err := NewKalmanSmoother(DefaultKalmanConfig())
	require.NoError(t, err)

	start := Point2D{X: 0.2, Y: 0.2}
	assert.Equal(t, start, s.Smooth(start))

	target := Point2D{X: 0.6, Y: 0.4}
	var last Point2D
	for i := 0; i < 200; i++ {
		last = s.Smooth(target)
	}
	assert.Less(t, last.DistanceTo(target), start.DistanceTo(target))
	assert.True(t, last.IsFinite())

	s.Reset()
	assert.Equal(t, start, s.Smooth(start))
}

func TestNewSmoother(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		wantErr bool
	}{
		{name: "default", method: "", wantErr: false},
		{name: "ema", method: SmoothingEMA, wantErr: false},
		{name: "kalman", method: SmoothingKalman, wantErr: false},
		{name: "unknown", method: "median", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSmootherConfig()
			cfg.Method = tt.method

			s, err := NewSmoother(cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestSmoothTrail(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-9)

	t.Run("constant trail is unchanged", func(t *testing.T) {
		trail := []Point2D{{X: 0.4, Y: 0.6}, {X: 0.4, Y: 0.6}, {X: 0.4, Y: 0.6}, {X: 0.4, Y: 0.6}, {X: 0.4, Y: 0.6}, {X: 0.4, Y: 0.6}}

		got := SmoothTrail(trail, DefaultTrailWindow)

		if diff := cmp.Diff(trail, got, approx); diff != "" {
			t.Errorf("SmoothTrail mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("boundary weights renormalized", func(t *testing.T) {
		trail := []Point2D{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}, {X: 5}}

		got := SmoothTrail(trail, DefaultTrailWindow)

		// First point sees weights .4,.2,.1 over x=0,1,2
		want0 := (0*0.4 + 1*0.2 + 2*0.1) / 0.7
		// Third point sees the full kernel over x=0..4
		want2 := 0*0.1 + 1*0.2 + 2*0.4 + 3*0.2 + 4*0.1
		// Last point sees .1,.2,.4 over x=3,4,5
		want5 := (3*0.1 + 4*0.2 + 5*0.4) / 0.7

		require.Len(t, got, len(trail))
		assert.InDelta(t, want0, got[0].X, 1e-9)
		assert.InDelta(t, want2, got[2].X, 1e-9)
		assert.InDelta(t, want5, got[5].X, 1e-9)
	})

	t.Run("short trails keep their length", func(t *testing.T) {
		trail := []Point2D{{X: 0.1, Y: 0.1}, {X: 0.3, Y: 0.1}}

		got := SmoothTrail(trail, DefaultTrailWindow)

		want := []Point2D{
			{X: (0.1*0.4 + 0.3*0.2) / 0.6, Y: 0.1},
			{X: (0.1*0.2 + 0.3*0.4) / 0.6, Y: 0.1},
		}
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("SmoothTrail mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty window copies", func(t *testing.T) {
		trail := []Point2D{{X: 0.1, Y: 0.2}}
		got := SmoothTrail(trail, nil)
		assert.Equal(t, trail, got)
		got[0].X = 9
		assert.Equal(t, 0.1, trail[0].X)
	})
}

func TestValidateWindow(t *testing.T) {
	assert.NoError(t, ValidateWindow(nil))
	assert.NoError(t, ValidateWindow(DefaultTrailWindow))
	assert.ErrorIs(t, ValidateWindow([]float64{0.5, 0.5}), ErrInvalidConfig)
	assert.ErrorIs(t, ValidateWindow([]float64{0.5, -1, 0.5}), ErrInvalidConfig)
	assert.ErrorIs(t, ValidateWindow([]float64{0, 0, 0}), ErrInvalidConfig)
}
