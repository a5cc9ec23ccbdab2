package gesture

import (
	"sync"
	"time"

	"github.com/ayusman/heartsketch/internal/timeutil"
)

// HeartConfig holds the thresholds of the heart-shape heuristic.
type HeartConfig struct {
	MinPoints int `yaml:"min_points"`
	MaxPoints int `yaml:"max_points"`

	MinWidth  float64 `yaml:"min_width"`
	MaxWidth  float64 `yaml:"max_width"`
	MinHeight float64 `yaml:"min_height"`
	MaxHeight float64 `yaml:"max_height"`

	// Aspect is height divided by width.
	MinAspect float64 `yaml:"min_aspect"`
	MaxAspect float64 `yaml:"max_aspect"`

	// BandFraction of the height separates the upper and lower regions from the centre line.
	BandFraction float64 `yaml:"band_fraction"`
	// MinLobePoints is required in each upper half.
	MinLobePoints int `yaml:"min_lobe_points"`
	// MinBottomPoints is required in the lower region.
	MinBottomPoints int `yaml:"min_bottom_points"`
	// MaxBottomWidthRatio caps the lower region's span relative to the overall width.
	MaxBottomWidthRatio float64 `yaml:"max_bottom_width_ratio"`
	// MaxClosureRatio caps the first-to-last distance relative to the width.
	MaxClosureRatio float64 `yaml:"max_closure_ratio"`

	Cooldown time.Duration `yaml:"cooldown"`
}

// DefaultHeartConfig returns the tuned heart thresholds.
func DefaultHeartConfig() HeartConfig {
	return HeartConfig{
		MinPoints:           12,
		MaxPoints:           400,
		MinWidth:            0.06,
		MaxWidth:            0.9,
		MinHeight:           0.08,
		MaxHeight:           0.95,
		MinAspect:           0.8,
		MaxAspect:           3.0,
		BandFraction:        0.1,
		MinLobePoints:       3,
		MinBottomPoints:     3,
		MaxBottomWidthRatio: 0.9,
		MaxClosureRatio:     0.5,
		Cooldown:            1500 * time.Millisecond,
	}
}

// Validate rejects inverted or negative bounds.
func (c HeartConfig) Validate() error {
	if err := checkRange("heart points", c.MinPoints, c.MaxPoints); err != nil {
		return err
	}
	if err := checkRange("heart width", c.MinWidth, c.MaxWidth); err != nil {
		return err
	}
	if err := checkRange("heart height", c.MinHeight, c.MaxHeight); err != nil {
		return err
	}
	if err := checkRange("heart aspect", c.MinAspect, c.MaxAspect); err != nil {
		return err
	}
	if c.BandFraction < 0 || c.BandFraction >= 0.5 {
		return invalidf("heart band fraction %v outside [0,0.5)", c.BandFraction)
	}
	if c.MinLobePoints < 0 || c.MinBottomPoints < 0 {
		return invalidf("heart region counts must not be negative")
	}
	if c.MaxBottomWidthRatio <= 0 || c.MaxClosureRatio <= 0 {
		return invalidf("heart ratios must be positive")
	}
	if c.Cooldown < 0 {
		return invalidf("heart cooldown %v is negative", c.Cooldown)
	}
	return nil
}

// RejectReason names the first heuristic a trail failed.
type RejectReason string

// Reject reasons in evaluation order. An accepted trail has ReasonNone.
const (
	ReasonNone          RejectReason = ""
	ReasonTooFewPoints  RejectReason = "too_few_points"
	ReasonTooManyPoints RejectReason = "too_many_points"
	ReasonCooldown      RejectReason = "cooldown"
	ReasonTooSmall      RejectReason = "too_small"
	ReasonTooLarge      RejectReason = "too_large"
	ReasonAspect        RejectReason = "aspect"
	ReasonLobes         RejectReason = "lobes"
	ReasonBottomPoints  RejectReason = "bottom_points"
	ReasonNoTaper       RejectReason = "no_taper"
	ReasonNotClosed     RejectReason = "not_closed"
)

// Analysis is the measured feature set of a trail.
type Analysis struct {
	Points      int          `json:"points"`
	Bounds      Rect         `json:"bounds"`
	Aspect      float64      `json:"aspect"`
	UpperLeft   int          `json:"upper_left"`
	UpperRight  int          `json:"upper_right"`
	Bottom      int          `json:"bottom"`
	BottomWidth float64      `json:"bottom_width"`
	Closure     float64      `json:"closure"`
	Reason      RejectReason `json:"reason,omitempty"`
}

// Accepted reports whether every check passed.
func (a Analysis) Accepted() bool {
	return a.Reason == ReasonNone
}

// HeartClassifier tests trails against a fixed heart heuristic and suppresses
// repeat detections for a cooldown period.
type HeartClassifier struct {
	cfg   HeartConfig
	clock timeutil.Clock

	mu            sync.Mutex
	coolingDown   bool
	cooldownUntil time.Time
}

// NewHeartClassifier creates a classifier. A nil clock uses the wall clock.
func NewHeartClassifier(cfg HeartConfig, clock timeutil.Clock) (*HeartClassifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &HeartClassifier{cfg: cfg, clock: clock}, nil
}

// Config returns the classifier thresholds.
func (c *HeartClassifier) Config() HeartConfig {
	return c.cfg
}

// Test reports whether trail is a heart. A positive result starts the cooldown,
// during which Test returns false for any trail.
func (c *HeartClassifier) Test(trail []Point2D) bool {
	_, ok := c.Evaluate(trail)
	return ok
}

// Evaluate is Test that also returns the analysis behind the decision.
func (c *HeartClassifier) Evaluate(trail []Point2D) (Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a := Analysis{Points: len(trail)}
	if reason := c.checkLength(len(trail)); reason != ReasonNone {
		a.Reason = reason
		return a, false
	}

	if c.inCooldown() {
		a.Reason = ReasonCooldown
		return a, false
	}

	a = c.Analyze(trail)
	if !a.Accepted() {
		return a, false
	}

	c.coolingDown = true
	c.cooldownUntil = c.clock.Now().Add(c.cfg.Cooldown)
	return a, true
}

// Analyze runs the geometric checks without consulting or starting the
// cooldown. It stops measuring at the first failed check.
func (c *HeartClassifier) Analyze(trail []Point2D) Analysis {
	cfg := c.cfg
	a := Analysis{Points: len(trail)}

	if reason := c.checkLength(len(trail)); reason != ReasonNone {
		a.Reason = reason
		return a
	}

	a.Bounds = Bounds(trail)
	width, height := a.Bounds.Width(), a.Bounds.Height()
	center := a.Bounds.Center()

	if width < cfg.MinWidth || height < cfg.MinHeight {
		a.Reason = ReasonTooSmall
		return a
	}
	if width > cfg.MaxWidth || height > cfg.MaxHeight {
		a.Reason = ReasonTooLarge
		return a
	}

	a.Aspect = height / width
	if a.Aspect < cfg.MinAspect || a.Aspect > cfg.MaxAspect {
		a.Reason = ReasonAspect
		return a
	}

	// Two top lobes: both halves of the upper band need points
	upperLimit := center.Y - height*cfg.BandFraction
	for _, p := range trail {
		if p.Y >= upperLimit {
			continue
		}
		if p.X < center.X {
			a.UpperLeft++
		} else {
			a.UpperRight++
		}
	}
	if a.UpperLeft < cfg.MinLobePoints || a.UpperRight < cfg.MinLobePoints {
		a.Reason = ReasonLobes
		return a
	}

	// Tapered bottom: the lower band must be narrower than the whole shape
	lowerLimit := center.Y + height*cfg.BandFraction
	var bottom []Point2D
	for _, p := range trail {
		if p.Y > lowerLimit {
			bottom = append(bottom, p)
		}
	}
	a.Bottom = len(bottom)
	if a.Bottom < cfg.MinBottomPoints || a.Bottom == 0 {
		a.Reason = ReasonBottomPoints
		return a
	}
	a.BottomWidth = Bounds(bottom).Width()
	if a.BottomWidth > width*cfg.MaxBottomWidthRatio {
		a.Reason = ReasonNoTaper
		return a
	}

	a.Closure = trail[0].DistanceTo(trail[len(trail)-1])
	if a.Closure > width*cfg.MaxClosureRatio {
		a.Reason = ReasonNotClosed
		return a
	}

	return a
}

// Reset clears the cooldown immediately.
func (c *HeartClassifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coolingDown = false
	c.cooldownUntil = time.Time{}
}

// CoolingDown reports whether detections are currently suppressed.
func (c *HeartClassifier) CoolingDown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inCooldown()
}

// inCooldown expires the cooldown lazily. Callers hold c.mu.
func (c *HeartClassifier) inCooldown() bool {
	if !c.coolingDown {
		return false
	}
	if !c.clock.Now().Before(c.cooldownUntil) {
		c.coolingDown = false
		return false
	}
	return true
}

func (c *HeartClassifier) checkLength(n int) RejectReason {
	switch {
	case n < c.cfg.MinPoints:
		return ReasonTooFewPoints
	case n > c.cfg.MaxPoints:
		return ReasonTooManyPoints
	default:
		return ReasonNone
	}
}
