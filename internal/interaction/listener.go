package interaction

import (
	"sync"
	"time"

	"github.com/ayusman/heartsketch/internal/gesture"
)

// Detection describes an accepted heart.
type Detection struct {
	ID         string            `json:"id"`
	At         time.Time         `json:"at"`
	Trail      []gesture.Point2D `json:"trail"`   // raw smoothed fingertip samples
	Outline    []gesture.Point2D `json:"outline"` // window-smoothed copy for drawing
	Analysis   gesture.Analysis  `json:"analysis"`
	Similarity float64           `json:"similarity"`
}

// TrailResetReason says why an unfinished drawing was dropped.
type TrailResetReason string

// Trail reset reasons.
const (
	TrailResetIdle     TrailResetReason = "idle"      // the fingertip stopped moving
	TrailResetHandLost TrailResetReason = "hand_lost" // no hand in the frame
	TrailResetManual   TrailResetReason = "reset"     // Reset was called while drawing
)

// Listener receives interaction events. Calls are made outside the machine
// lock, in event order, from whichever goroutine produced them. A listener
// must not call back into the machine synchronously.
type Listener interface {
	OnScaleChange(scale float64)
	OnRotationChange(rotX, rotY float64)
	OnHeartDetected(d Detection)
	OnModeChange(from, to Mode)
	// OnTrailReset reports that a non-empty trail was abandoned without a
	// detection. Renderers clear their stroke.
	OnTrailReset(reason TrailResetReason)
}

// ListenerFuncs adapts optional functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Scale      func(scale float64)
	Rotation   func(rotX, rotY float64)
	Heart      func(d Detection)
	Mode       func(from, to Mode)
	TrailReset func(reason TrailResetReason)
}

// OnScaleChange calls Scale if set.
func (f ListenerFuncs) OnScaleChange(scale float64) {
	if f.Scale != nil {
		f.Scale(scale)
	}
}

// OnRotationChange calls Rotation if set.
func (f ListenerFuncs) OnRotationChange(rotX, rotY float64) {
	if f.Rotation != nil {
		f.Rotation(rotX, rotY)
	}
}

// OnHeartDetected calls Heart if set.
func (f ListenerFuncs) OnHeartDetected(d Detection) {
	if f.Heart != nil {
		f.Heart(d)
	}
}

// OnModeChange calls Mode if set.
func (f ListenerFuncs) OnModeChange(from, to Mode) {
	if f.Mode != nil {
		f.Mode(from, to)
	}
}

// OnTrailReset calls TrailReset if set.
func (f ListenerFuncs) OnTrailReset(reason TrailResetReason) {
	if f.TrailReset != nil {
		f.TrailReset(reason)
	}
}

// Broadcaster fans events out to a dynamic set of listeners.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewBroadcaster creates a broadcaster with initial listeners.
func NewBroadcaster(listeners ...Listener) *Broadcaster {
	b := &Broadcaster{}
	for _, l := range listeners {
		b.Add(l)
	}
	return b
}

// Add registers a listener. Nil is ignored.
func (b *Broadcaster) Add(l Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

func (b *Broadcaster) each(fn func(Listener)) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		fn(l)
	}
}

// OnScaleChange forwards to every listener.
func (b *Broadcaster) OnScaleChange(scale float64) {
	b.each(func(l Listener) { l.OnScaleChange(scale) })
}

// OnRotationChange forwards to every listener.
func (b *Broadcaster) OnRotationChange(rotX, rotY float64) {
	b.each(func(l Listener) { l.OnRotationChange(rotX, rotY) })
}

// OnHeartDetected forwards to every listener.
func (b *Broadcaster) OnHeartDetected(d Detection) {
	b.each(func(l Listener) { l.OnHeartDetected(d) })
}

// OnModeChange forwards to every listener.
func (b *Broadcaster) OnModeChange(from, to Mode) {
	b.each(func(l Listener) { l.OnModeChange(from, to) })
}

// OnTrailReset forwards to every listener.
func (b *Broadcaster) OnTrailReset(reason TrailResetReason) {
	b.each(func(l Listener) { l.OnTrailReset(reason) })
}
