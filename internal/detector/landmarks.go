// Package detector provides hand landmark sources for the gesture pipeline.
package detector

import (
	"math"

	"github.com/ayusman/heartsketch/internal/gesture"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a landmark in normalized image coordinates with relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one tracked hand. Points is indexed by the landmark
// constants and may be shorter than NumLandmarks when tracking is partial.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness,omitempty"` // "Left" or "Right"
	Score      float64   `json:"score,omitempty"`
}

// Landmark returns the point at index i. It reports false when the hand is
// nil, the index is missing or the coordinates are not finite.
func (h *HandLandmarks) Landmark(i int) (Point3D, bool) {
	if h == nil || i < 0 || i >= len(h.Points) {
		return Point3D{}, false
	}
	p := h.Points[i]
	if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
		return Point3D{}, false
	}
	return p, true
}

// Tip returns landmark i projected onto the image plane.
func (h *HandLandmarks) Tip(i int) (gesture.Point2D, bool) {
	p, ok := h.Landmark(i)
	if !ok {
		return gesture.Point2D{}, false
	}
	return gesture.Point2D{X: p.X, Y: p.Y}, true
}

// PinchTips returns the thumb and index tips when both are usable.
func (h *HandLandmarks) PinchTips() (thumb, index gesture.Point2D, ok bool) {
	thumb, ok = h.Tip(ThumbTip)
	if !ok {
		return gesture.Point2D{}, gesture.Point2D{}, false
	}
	index, ok = h.Tip(IndexTip)
	if !ok {
		return gesture.Point2D{}, gesture.Point2D{}, false
	}
	return thumb, index, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
