package gesture

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/heartsketch/internal/timeutil"
)

// PinchConfig controls how thumb-index distance maps to scale.
type PinchConfig struct {
	MinScale       float64       `yaml:"min_scale"`
	MaxScale       float64       `yaml:"max_scale"`
	NoiseThreshold float64       `yaml:"noise_threshold"` // distance change treated as tremor
	Debounce       time.Duration `yaml:"debounce"`        // minimum time between processed frames

	// Acceleration enables the ease-out speed curve for held pinches.
	Acceleration bool          `yaml:"acceleration"`
	BaseSpeed    float64       `yaml:"base_speed"`
	MaxSpeed     float64       `yaml:"max_speed"`
	AccelTime    time.Duration `yaml:"accel_time"`
	AccelGain    float64       `yaml:"accel_gain"`

	// AnchorWeight is the share of the new distance in the re-anchored base distance.
	AnchorWeight float64 `yaml:"anchor_weight"`
}

// DefaultPinchConfig returns the tuned pinch settings.
func DefaultPinchConfig() PinchConfig {
	return PinchConfig{
		MinScale:       0.25,
		MaxScale:       4.0,
		NoiseThreshold: 0.005,
		Debounce:       50 * time.Millisecond,
		Acceleration:   true,
		BaseSpeed:      0.5,
		MaxSpeed:       3.0,
		AccelTime:      800 * time.Millisecond,
		AccelGain:      0.3,
		AnchorWeight:   0.7,
	}
}

// Validate rejects inverted bounds and non-positive curve constants.
func (c PinchConfig) Validate() error {
	if c.MinScale <= 0 {
		return invalidf("pinch min scale %v must be positive", c.MinScale)
	}
	if err := checkRange("pinch scale", c.MinScale, c.MaxScale); err != nil {
		return err
	}
	if c.NoiseThreshold < 0 || c.Debounce < 0 {
		return invalidf("pinch noise threshold and debounce must not be negative")
	}
	if c.Acceleration {
		if err := checkRange("pinch speed", c.BaseSpeed, c.MaxSpeed); err != nil {
			return err
		}
		if c.AccelTime <= 0 {
			return invalidf("pinch acceleration time %v must be positive", c.AccelTime)
		}
		if c.AccelGain < 0 {
			return invalidf("pinch acceleration gain %v is negative", c.AccelGain)
		}
	}
	if c.AnchorWeight <= 0 || c.AnchorWeight > 1 {
		return invalidf("pinch anchor weight %v outside (0,1]", c.AnchorWeight)
	}
	return nil
}

// minPinchDistance guards the scale ratio against coincident fingertips.
const minPinchDistance = 1e-6

// PinchController turns thumb-index distance over a pinch episode into a
// clamped scale factor.
type PinchController struct {
	cfg      PinchConfig
	clock    timeutil.Clock
	onChange func(scale float64)

	pinching     bool
	baseDistance float64
	lastDistance float64
	episodeStart time.Time
	lastUpdate   time.Time
	scale        float64
}

// NewPinchController creates a controller at scale 1.0. onChange may be nil.
func NewPinchController(cfg PinchConfig, clock timeutil.Clock, onChange func(scale float64)) (*PinchController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	c := &PinchController{
		cfg:      cfg,
		clock:    clock,
		onChange: onChange,
	}
	c.scale = c.clamp(1.0)
	return c, nil
}

// OnPinchFrame consumes one frame of thumb and index tips. It reports whether
// the scale changed.
func (c *PinchController) OnPinchFrame(thumb, index Point2D) bool {
	if !thumb.IsFinite() || !index.IsFinite() {
		return false
	}
	now := c.clock.Now()
	distance := thumb.DistanceTo(index)
	if distance < minPinchDistance {
		return false
	}

	// First frame of an episode sets the reference
	if !c.pinching {
		c.pinching = true
		c.baseDistance = distance
		c.lastDistance = distance
		c.episodeStart = now
		c.lastUpdate = now
		return false
	}

	if now.Sub(c.lastUpdate) < c.cfg.Debounce {
		return false
	}
	c.lastUpdate = now

	delta := distance - c.lastDistance
	c.lastDistance = distance
	if math.Abs(delta) < c.cfg.NoiseThreshold {
		return false
	}

	ratio := distance / c.baseDistance
	if c.cfg.Acceleration {
		ratio = c.accelerate(ratio, now.Sub(c.episodeStart))
	}

	c.scale = c.clamp(c.scale * ratio)
	c.baseDistance = c.cfg.AnchorWeight*distance + (1-c.cfg.AnchorWeight)*c.baseDistance

	if c.onChange != nil {
		c.onChange(c.scale)
	}
	return true
}

// accelerate amplifies the deviation of ratio from 1 the longer the pinch has
// been held, following an ease-out curve from BaseSpeed to MaxSpeed.
func (c *PinchController) accelerate(ratio float64, held time.Duration) float64 {
	progress := 1 - math.Exp(-float64(held)/float64(c.cfg.AccelTime))
	speed := c.cfg.BaseSpeed + (c.cfg.MaxSpeed-c.cfg.BaseSpeed)*progress
	return 1 + (ratio-1)*(1+(speed-c.cfg.BaseSpeed)*c.cfg.AccelGain)
}

// Reset ends the current episode. The scale is kept.
func (c *PinchController) Reset() {
	c.pinching = false
	c.baseDistance = 0
	c.lastDistance = 0
	c.episodeStart = time.Time{}
	c.lastUpdate = time.Time{}
}

// Pinching reports whether an episode is in progress.
func (c *PinchController) Pinching() bool {
	return c.pinching
}

// CurrentScale returns the current scale.
func (c *PinchController) CurrentScale() float64 {
	return c.scale
}

// SetCurrentScale forces the scale, clamped to the configured bounds.
func (c *PinchController) SetCurrentScale(v float64) {
	c.scale = c.clamp(v)
}

func (c *PinchController) clamp(v float64) float64 {
	return mgl64.Clamp(v, c.cfg.MinScale, c.cfg.MaxScale)
}
