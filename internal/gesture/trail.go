package gesture

import (
	"time"

	"github.com/ayusman/heartsketch/internal/timeutil"
)

// TrailConfig controls how fingertip samples are accumulated.
type TrailConfig struct {
	MinMovement   float64       `yaml:"min_movement"`    // reject samples closer than this to the last point
	IdleTimeout   time.Duration `yaml:"idle_timeout"`    // clear a stalled trail after this long
	IdleMinPoints int           `yaml:"idle_min_points"` // idle clear only applies above this length
	MaxPoints     int           `yaml:"max_points"`      // FIFO capacity
}

// DefaultTrailConfig returns the trail settings used for heart drawing.
func DefaultTrailConfig() TrailConfig {
	return TrailConfig{
		MinMovement:   0.005,
		IdleTimeout:   600 * time.Millisecond,
		IdleMinPoints: 7,
		MaxPoints:     200,
	}
}

// Validate checks the trail settings.
func (c TrailConfig) Validate() error {
	if c.MinMovement < 0 {
		return invalidf("trail min movement %v is negative", c.MinMovement)
	}
	if c.IdleTimeout <= 0 {
		return invalidf("trail idle timeout %v must be positive", c.IdleTimeout)
	}
	if c.MaxPoints <= 0 {
		return invalidf("trail capacity %d must be positive", c.MaxPoints)
	}
	return checkRange("trail idle points", c.IdleMinPoints, c.MaxPoints)
}

// PushResult reports what TrailBuffer.Push did with a sample.
type PushResult int

const (
	// PushAccepted means the sample was appended.
	PushAccepted PushResult = iota
	// PushRejected means the sample was too close to the last point.
	PushRejected
	// PushIdleReset means the trail had stalled and was cleared; the sample
	// was dropped and the caller should also reset its smoother.
	PushIdleReset
)

// String returns a readable name for the result.
func (r PushResult) String() string {
	switch r {
	case PushAccepted:
		return "accepted"
	case PushRejected:
		return "rejected"
	case PushIdleReset:
		return "idle_reset"
	default:
		return "unknown"
	}
}

// TrailBuffer is a bounded FIFO of smoothed fingertip positions.
// It is not safe for concurrent use; the owner serializes access.
type TrailBuffer struct {
	cfg      TrailConfig
	clock    timeutil.Clock
	points   []Point2D
	lastMove time.Time
}

// NewTrailBuffer creates an empty trail.
func NewTrailBuffer(cfg TrailConfig, clock timeutil.Clock) (*TrailBuffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &TrailBuffer{
		cfg:    cfg,
		clock:  clock,
		points: make([]Point2D, 0, cfg.MaxPoints),
	}, nil
}

// Push offers a smoothed sample to the trail.
//
// Order of checks:
//  1. An empty trail always accepts.
//  2. A trail longer than IdleMinPoints that has not accepted a point within
//     IdleTimeout is cleared and the sample is dropped.
//  3. A sample within MinMovement of the last point is rejected.
//  4. Otherwise the sample is appended, evicting the oldest point at capacity.
func (b *TrailBuffer) Push(p Point2D) PushResult {
	now := b.clock.Now()

	if len(b.points) == 0 {
		b.points = append(b.points, p)
		b.lastMove = now
		return PushAccepted
	}

	if now.Sub(b.lastMove) > b.cfg.IdleTimeout && len(b.points) > b.cfg.IdleMinPoints {
		b.Clear()
		return PushIdleReset
	}

	if p.DistanceTo(b.points[len(b.points)-1]) <= b.cfg.MinMovement {
		return PushRejected
	}

	if len(b.points) >= b.cfg.MaxPoints {
		// Shift left by one, dropping the oldest point
		copy(b.points, b.points[1:])
		b.points = b.points[:len(b.points)-1]
	}
	b.points = append(b.points, p)
	b.lastMove = now
	return PushAccepted
}

// Clear empties the trail.
func (b *TrailBuffer) Clear() {
	b.points = b.points[:0]
	b.lastMove = time.Time{}
}

// Len returns the number of stored points.
func (b *TrailBuffer) Len() int {
	return len(b.points)
}

// Points returns a copy of the stored points, oldest first.
func (b *TrailBuffer) Points() []Point2D {
	out := make([]Point2D, len(b.points))
	copy(out, b.points)
	return out
}
