package gesture

import (
	kalman_filter "github.com/LdDl/kalman-filter"
)

// KalmanConfig parameterizes the constant-velocity fingertip filter.
type KalmanConfig struct {
	DT             float64 `yaml:"dt"`              // seconds between frames
	AccelStd       float64 `yaml:"accel_std"`       // process noise (acceleration std dev)
	MeasurementStd float64 `yaml:"measurement_std"` // landmark noise std dev, normalized units
}

// DefaultKalmanConfig returns filter settings tuned for a 30 FPS camera.
func DefaultKalmanConfig() KalmanConfig {
	return KalmanConfig{
		DT:             1.0 / 30.0,
		AccelStd:       2.0,
		MeasurementStd: 0.02,
	}
}

// Validate checks that every parameter is positive.
func (c KalmanConfig) Validate() error {
	if c.DT <= 0 {
		return invalidf("kalman dt %v must be positive", c.DT)
	}
	if c.AccelStd <= 0 || c.MeasurementStd <= 0 {
		return invalidf("kalman noise parameters must be positive")
	}
	return nil
}

// KalmanSmoother smooths the fingertip with a 2D Kalman filter. It reacts to
// fast strokes with less lag than the EMA at the cost of some overshoot.
type KalmanSmoother struct {
	cfg KalmanConfig
	kf  *kalman_filter.Kalman2D
}

// NewKalmanSmoother creates a Kalman smoother.
func NewKalmanSmoother(cfg KalmanConfig) (*KalmanSmoother, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &KalmanSmoother{cfg: cfg}, nil
}

// Smooth runs one predict/update step. The first sample seeds the filter state
// and is returned as-is.
func (s *KalmanSmoother) Smooth(raw Point2D) Point2D {
	if s.kf == nil {
		// No control input: the fingertip has no known acceleration.
		s.kf = kalman_filter.NewKalman2D(
			s.cfg.DT, 0, 0,
			s.cfg.AccelStd, s.cfg.MeasurementStd, s.cfg.MeasurementStd,
			kalman_filter.WithState2D(raw.X, raw.Y),
		)
		return raw
	}

	s.kf.Predict()
	if err := s.kf.Update(raw.X, raw.Y); err != nil {
		// Singular innovation; restart from the measurement.
		s.kf = nil
		return s.Smooth(raw)
	}

	x, y := s.kf.GetState()
	return Point2D{X: x, Y: y}
}

// Reset drops the filter so the next sample re-seeds it.
func (s *KalmanSmoother) Reset() {
	s.kf = nil
}

// SmootherConfig selects and parameterizes the fingertip smoother.
type SmootherConfig struct {
	Method string       `yaml:"method"` // "ema" or "kalman"
	Alpha  float64      `yaml:"alpha"`
	Window []float64    `yaml:"window"`
	Kalman KalmanConfig `yaml:"kalman"`
}

// Smoother method names.
const (
	SmoothingEMA    = "ema"
	SmoothingKalman = "kalman"
)

// DefaultSmootherConfig returns the EMA smoother with the 5-point trail window.
func DefaultSmootherConfig() SmootherConfig {
	window := make([]float64, len(DefaultTrailWindow))
	copy(window, DefaultTrailWindow)
	return SmootherConfig{
		Method: SmoothingEMA,
		Alpha:  DefaultEMAAlpha,
		Window: window,
		Kalman: DefaultKalmanConfig(),
	}
}

// Validate checks the selected method and its parameters.
func (c SmootherConfig) Validate() error {
	if err := ValidateWindow(c.Window); err != nil {
		return err
	}
	_, err := NewSmoother(c)
	return err
}

// NewSmoother builds the smoother named by cfg.Method.
func NewSmoother(cfg SmootherConfig) (Smoother, error) {
	switch cfg.Method {
	case SmoothingEMA, "":
		return NewEMASmoother(cfg.Alpha)
	case SmoothingKalman:
		return NewKalmanSmoother(cfg.Kalman)
	default:
		return nil, invalidf("unknown smoothing method %q", cfg.Method)
	}
}
