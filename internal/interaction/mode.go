// Package interaction routes hand frames between heart drawing and model
// manipulation and reports the resulting events to listeners.
package interaction

import (
	"fmt"
)

// Mode is the interaction state. Exactly one is active at a time.
type Mode int

const (
	// ModeDrawing tracks the index fingertip into the trail.
	ModeDrawing Mode = iota
	// ModeDetected is the momentary state between acceptance and manipulation.
	ModeDetected
	// ModeManipulating feeds thumb and index tips to the pinch and rotation controllers.
	ModeManipulating
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDrawing:
		return "drawing"
	case ModeDetected:
		return "detected"
	case ModeManipulating:
		return "manipulating"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText encodes the mode as its name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "drawing":
		*m = ModeDrawing
	case "detected":
		*m = ModeDetected
	case "manipulating":
		*m = ModeManipulating
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}
