package detector

import (
	"errors"
	"time"

	"gocv.io/x/gocv"
)

// ErrDetectorClosed is returned by Detect after Close.
var ErrDetectorClosed = errors.New("detector closed")

// Detector defines the interface for hand landmark sources.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// Kind selects the implementation: "mediapipe" or "mock".
	Kind string `yaml:"kind"`

	// Script is the path to the landmark bridge script. Searched for when empty.
	Script string `yaml:"script"`

	// Python is the interpreter used to run Script. A project venv or python3 when empty.
	Python string `yaml:"python"`

	// MaxHands is the maximum number of hands to detect. Only the first is used.
	MaxHands int `yaml:"max_hands"`

	// ModelComplexity selects the MediaPipe model (0 = lite, 1 = full).
	ModelComplexity int `yaml:"model_complexity"`

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64 `yaml:"min_confidence"`

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`

	// IdleTimeout stops the bridge process after this long without frames.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Detector kinds.
const (
	KindMediaPipe = "mediapipe"
	KindMock      = "mock"
)

// DefaultConfig returns a single-hand configuration with low confidence
// thresholds, which keeps fast drawing strokes tracked.
func DefaultConfig() Config {
	return Config{
		Kind:            KindMediaPipe,
		MaxHands:        1,
		ModelComplexity: 1,
		MinConfidence:   0.3,
		MinTrackingConf: 0.3,
		IdleTimeout:     30 * time.Second,
	}
}
