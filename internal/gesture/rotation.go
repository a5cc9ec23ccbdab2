package gesture

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RotationConfig controls how fingertip midpoint motion maps to rotation.
type RotationConfig struct {
	DeadZone    float64 `yaml:"dead_zone"`   // per-axis displacement ignored as tremor
	Sensitivity float64 `yaml:"sensitivity"` // radians per normalized unit of motion
	MaxPitch    float64 `yaml:"max_pitch"`   // |rotX| bound in radians
	// ExclusiveZoom re-bases the reference instead of rotating on frames that changed the scale.
	ExclusiveZoom bool `yaml:"exclusive_zoom"`
}

// DefaultRotationConfig returns the tuned rotation settings.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		DeadZone:      0.005,
		Sensitivity:   3,
		MaxPitch:      math.Pi / 2,
		ExclusiveZoom: true,
	}
}

// Validate checks the rotation settings.
func (c RotationConfig) Validate() error {
	if c.DeadZone < 0 {
		return invalidf("rotation dead zone %v is negative", c.DeadZone)
	}
	if c.Sensitivity <= 0 {
		return invalidf("rotation sensitivity %v must be positive", c.Sensitivity)
	}
	if c.MaxPitch <= 0 || c.MaxPitch > math.Pi/2 {
		return invalidf("rotation max pitch %v outside (0,pi/2]", c.MaxPitch)
	}
	return nil
}

// RotationController integrates midpoint displacement of the thumb and index
// tips into pitch (rotX) and yaw (rotY).
type RotationController struct {
	cfg      RotationConfig
	onChange func(rotX, rotY float64)

	tracking bool
	ref      mgl64.Vec2
	rotX     float64
	rotY     float64
}

// NewRotationController creates a controller at zero rotation. onChange may be nil.
func NewRotationController(cfg RotationConfig, onChange func(rotX, rotY float64)) (*RotationController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RotationController{cfg: cfg, onChange: onChange}, nil
}

// OnMoveFrame consumes one frame of thumb and index tips. It reports whether
// the rotation changed.
func (c *RotationController) OnMoveFrame(thumb, index Point2D) bool {
	center := thumb.Midpoint(index).Vec()

	if !c.tracking {
		c.tracking = true
		c.ref = center
		return false
	}

	delta := center.Sub(c.ref)
	if math.Abs(delta.X()) < c.cfg.DeadZone && math.Abs(delta.Y()) < c.cfg.DeadZone {
		return false
	}

	// Mirrored view: moving right turns the model left
	c.rotY -= delta.X() * c.cfg.Sensitivity
	c.rotX = mgl64.Clamp(c.rotX+delta.Y()*c.cfg.Sensitivity, -c.cfg.MaxPitch, c.cfg.MaxPitch)
	c.ref = center

	if c.onChange != nil {
		c.onChange(c.rotX, c.rotY)
	}
	return true
}

// Rebase moves the reference centre to the current midpoint without rotating.
func (c *RotationController) Rebase(thumb, index Point2D) {
	c.tracking = true
	c.ref = thumb.Midpoint(index).Vec()
}

// Reset forgets the reference centre. The rotation is kept.
func (c *RotationController) Reset() {
	c.tracking = false
	c.ref = mgl64.Vec2{}
}

// Rotation returns the current pitch and yaw in radians.
func (c *RotationController) Rotation() (rotX, rotY float64) {
	return c.rotX, c.rotY
}

// SetRotation forces the rotation; pitch is clamped.
func (c *RotationController) SetRotation(rotX, rotY float64) {
	c.rotX = mgl64.Clamp(rotX, -c.cfg.MaxPitch, c.cfg.MaxPitch)
	c.rotY = rotY
}
