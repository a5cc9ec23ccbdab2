package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/heartsketch/internal/gesture"
)

// MockDetector is a scripted implementation of the Detector interface.
// Queued results are returned first, one per Detect call; after the queue
// drains, the hands set with SetHands are returned.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	queue  [][]HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned once the queue is empty.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Queue appends per-call results. A nil entry means no hand in that frame.
func (m *MockDetector) Queue(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// Pending returns the number of queued results not yet returned.
func (m *MockDetector) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect was called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next scripted result or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrDetectorClosed
	}
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// palmOffsets is an open right hand relative to its index fingertip.
var palmOffsets = [NumLandmarks]Point3D{
	Wrist:     {X: -0.08, Y: 0.45, Z: 0.0},
	ThumbCMC:  {X: -0.03, Y: 0.40, Z: 0.02},
	ThumbMCP:  {X: 0.04, Y: 0.35, Z: 0.03},
	ThumbIP:   {X: 0.10, Y: 0.30, Z: 0.03},
	ThumbTip:  {X: 0.15, Y: 0.25, Z: 0.03},
	IndexMCP:  {X: -0.03, Y: 0.33, Z: 0.0},
	IndexPIP:  {X: -0.01, Y: 0.20, Z: 0.0},
	IndexDIP:  {X: 0.0, Y: 0.10, Z: 0.0},
	IndexTip:  {X: 0.0, Y: 0.0, Z: 0.0},
	MiddleMCP: {X: -0.08, Y: 0.31, Z: 0.0},
	MiddlePIP: {X: -0.08, Y: 0.29, Z: -0.05},
	MiddleDIP: {X: -0.11, Y: 0.31, Z: -0.04},
	MiddleTip: {X: -0.13, Y: 0.33, Z: -0.02},
	RingMCP:   {X: -0.13, Y: 0.33, Z: -0.02},
	RingPIP:   {X: -0.13, Y: 0.31, Z: -0.05},
	RingDIP:   {X: -0.16, Y: 0.33, Z: -0.04},
	RingTip:   {X: -0.18, Y: 0.35, Z: -0.02},
	PinkyMCP:  {X: -0.18, Y: 0.35, Z: -0.02},
	PinkyPIP:  {X: -0.18, Y: 0.33, Z: -0.05},
	PinkyDIP:  {X: -0.21, Y: 0.35, Z: -0.04},
	PinkyTip:  {X: -0.23, Y: 0.37, Z: -0.02},
}

// PointingLandmarks returns a hand pointing with the index finger at tip.
// The other fingers are curled and the thumb rests away from the index.
func PointingLandmarks(tip gesture.Point2D) HandLandmarks {
	hand := HandLandmarks{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: "Right",
		Score:      0.95,
	}
	for i, off := range palmOffsets {
		hand.Points[i] = Point3D{X: tip.X + off.X, Y: tip.Y + off.Y, Z: off.Z}
	}
	return hand
}

// PinchLandmarks returns a pointing hand with the thumb and index tips moved
// to the given positions.
func PinchLandmarks(thumb, index gesture.Point2D) HandLandmarks {
	hand := PointingLandmarks(index)
	hand.Points[ThumbTip] = Point3D{X: thumb.X, Y: thumb.Y, Z: palmOffsets[ThumbTip].Z}
	hand.Points[ThumbIP] = Point3D{
		X: (thumb.X + hand.Points[ThumbMCP].X) / 2,
		Y: (thumb.Y + hand.Points[ThumbMCP].Y) / 2,
		Z: palmOffsets[ThumbIP].Z,
	}
	return hand
}
