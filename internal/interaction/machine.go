package interaction

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/heartsketch/internal/detector"
	"github.com/ayusman/heartsketch/internal/gesture"
	"github.com/ayusman/heartsketch/internal/timeutil"
)

// State is a point-in-time view of the machine.
type State struct {
	Mode          Mode              `json:"mode"`
	Scale         float64           `json:"scale"`
	RotationX     float64           `json:"rotation_x"`
	RotationY     float64           `json:"rotation_y"`
	TrailLength   int               `json:"trail_length"`
	Trail         []gesture.Point2D `json:"trail"`
	CoolingDown   bool              `json:"cooling_down"`
	Pinching      bool              `json:"pinching"`
	LastDetection *Detection        `json:"last_detection,omitempty"`
}

// Machine owns the trail, classifier and controllers and routes each hand
// frame to exactly one of them depending on the mode.
//
// HandleFrame and CheckHeart may be called from different goroutines. The
// heart check classifies a snapshot of the trail without holding the lock,
// so frames keep flowing while it runs.
type Machine struct {
	cfg    Config
	clock  timeutil.Clock
	logger *zap.Logger

	// Events are moved from pending to outbox under mu and drained under
	// emitMu, so delivery follows the order in which state changed.
	emitMu   sync.Mutex
	outMu    sync.Mutex
	outbox   []func(Listener)
	listener Listener

	mu       sync.Mutex
	mode     Mode
	epoch    uint64 // bumped whenever the trail is discarded
	smoother gesture.Smoother
	trail    *gesture.TrailBuffer
	heart    *gesture.HeartClassifier
	pinch    *gesture.PinchController
	rotation *gesture.RotationController
	last     *Detection
	pending  []func(Listener)
}

// New validates cfg and builds a machine in drawing mode. A nil clock uses the
// wall clock, a nil logger discards logs and a nil listener drops events.
func New(cfg Config, clock timeutil.Clock, logger *zap.Logger, listener Listener) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if listener == nil {
		listener = ListenerFuncs{}
	}

	m := &Machine{
		cfg:      cfg,
		clock:    clock,
		logger:   logger.Named("interaction"),
		listener: listener,
		mode:     ModeDrawing,
	}

	var err error
	if m.smoother, err = gesture.NewSmoother(cfg.Smoothing); err != nil {
		return nil, err
	}
	if m.trail, err = gesture.NewTrailBuffer(cfg.Trail, clock); err != nil {
		return nil, err
	}
	if m.heart, err = gesture.NewHeartClassifier(cfg.Heart, clock); err != nil {
		return nil, err
	}

	// Controller callbacks run under mu; they only queue events.
	m.pinch, err = gesture.NewPinchController(cfg.Pinch, clock, func(scale float64) {
		m.queue(func(l Listener) { l.OnScaleChange(scale) })
	})
	if err != nil {
		return nil, err
	}
	m.rotation, err = gesture.NewRotationController(cfg.Rotation, func(rotX, rotY float64) {
		m.queue(func(l Listener) { l.OnRotationChange(rotX, rotY) })
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Config returns the machine configuration.
func (m *Machine) Config() Config {
	return m.cfg
}

// HandleFrame consumes one tracked hand. A nil hand means the hand was lost.
// A hand missing the landmarks the current mode needs is ignored.
func (m *Machine) HandleFrame(hand *detector.HandLandmarks) {
	m.mu.Lock()
	switch m.mode {
	case ModeDrawing:
		m.draw(hand)
	case ModeManipulating:
		m.manipulate(hand)
	}
	m.unlockAndEmit()
}

// draw feeds the smoothed index fingertip into the trail. Callers hold mu.
func (m *Machine) draw(hand *detector.HandLandmarks) {
	if hand == nil {
		if m.trail.Len() > 0 {
			m.logger.Debug("hand lost, trail discarded", zap.Int("points", m.trail.Len()))
			m.queueTrailReset(TrailResetHandLost)
		}
		m.discardTrail()
		return
	}

	tip, ok := hand.Tip(detector.IndexTip)
	if !ok {
		return
	}

	switch m.trail.Push(m.smoother.Smooth(tip)) {
	case gesture.PushIdleReset:
		m.logger.Debug("trail idle, discarded")
		m.smoother.Reset()
		m.epoch++
		m.queueTrailReset(TrailResetIdle)
	case gesture.PushAccepted:
		if m.cfg.Detection.Interval == 0 {
			m.checkLocked()
		}
	}
}

// manipulate feeds thumb and index tips to the controllers. Callers hold mu.
func (m *Machine) manipulate(hand *detector.HandLandmarks) {
	if hand == nil {
		m.pinch.Reset()
		m.rotation.Reset()
		return
	}

	thumb, index, ok := hand.PinchTips()
	if !ok {
		return
	}

	scaled := m.pinch.OnPinchFrame(thumb, index)
	if scaled && m.cfg.Rotation.ExclusiveZoom {
		m.rotation.Rebase(thumb, index)
		return
	}
	m.rotation.OnMoveFrame(thumb, index)
}

// CheckHeart classifies the current trail and switches to manipulation on a
// match. It reports whether a heart was detected.
func (m *Machine) CheckHeart() bool {
	m.mu.Lock()
	if m.mode != ModeDrawing || m.trail.Len() < m.cfg.Detection.MinTrailPoints {
		m.mu.Unlock()
		return false
	}
	snapshot := m.trail.Points()
	epoch := m.epoch
	m.mu.Unlock()

	analysis, ok := m.heart.Evaluate(snapshot)

	m.mu.Lock()
	if !ok {
		m.logRejection(analysis)
		m.mu.Unlock()
		return false
	}
	if m.mode != ModeDrawing || m.epoch != epoch {
		// Reset or hand loss won the race; the snapshot is stale.
		m.heart.Reset()
		m.mu.Unlock()
		return false
	}
	m.accept(snapshot, analysis)
	m.unlockAndEmit()
	return true
}

// checkLocked is CheckHeart for the event-driven path. Callers hold mu.
func (m *Machine) checkLocked() {
	if m.trail.Len() < m.cfg.Detection.MinTrailPoints {
		return
	}
	snapshot := m.trail.Points()
	analysis, ok := m.heart.Evaluate(snapshot)
	if !ok {
		m.logRejection(analysis)
		return
	}
	m.accept(snapshot, analysis)
}

// accept records a detection and moves through Detected into Manipulating.
// Callers hold mu.
func (m *Machine) accept(trail []gesture.Point2D, analysis gesture.Analysis) {
	d := Detection{
		ID:         uuid.New().String(),
		At:         m.clock.Now(),
		Trail:      trail,
		Outline:    gesture.SmoothTrail(trail, m.cfg.Smoothing.Window),
		Analysis:   analysis,
		Similarity: gesture.HeartSimilarity(trail),
	}
	m.last = &d

	m.logger.Info("heart detected",
		zap.String("id", d.ID),
		zap.Int("points", len(trail)),
		zap.Float64("width", analysis.Bounds.Width()),
		zap.Float64("height", analysis.Bounds.Height()),
		zap.Float64("similarity", d.Similarity))

	m.discardTrail()
	m.setMode(ModeDetected)
	m.queue(func(l Listener) { l.OnHeartDetected(d) })

	// Fresh gesture episode; scale and rotation start from their current values.
	m.pinch.Reset()
	m.rotation.Reset()
	m.setMode(ModeManipulating)
}

// Reset returns to drawing mode with default scale and rotation and re-arms
// detection. It is idempotent.
func (m *Machine) Reset() {
	m.mu.Lock()

	if m.mode == ModeDrawing && m.trail.Len() > 0 {
		m.queueTrailReset(TrailResetManual)
	}
	m.discardTrail()
	m.heart.Reset()

	if m.pinch.CurrentScale() != 1 {
		m.pinch.SetCurrentScale(1)
		m.queue(func(l Listener) { l.OnScaleChange(1) })
	}
	m.pinch.Reset()

	if x, y := m.rotation.Rotation(); x != 0 || y != 0 {
		m.rotation.SetRotation(0, 0)
		m.queue(func(l Listener) { l.OnRotationChange(0, 0) })
	}
	m.rotation.Reset()

	if m.mode != ModeDrawing {
		m.logger.Info("reset to drawing", zap.Stringer("from", m.mode))
		m.setMode(ModeDrawing)
	}

	m.unlockAndEmit()
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// State returns a snapshot of the machine.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	rotX, rotY := m.rotation.Rotation()
	s := State{
		Mode:        m.mode,
		Scale:       m.pinch.CurrentScale(),
		RotationX:   rotX,
		RotationY:   rotY,
		TrailLength: m.trail.Len(),
		Trail:       gesture.SmoothTrail(m.trail.Points(), m.cfg.Smoothing.Window),
		CoolingDown: m.heart.CoolingDown(),
		Pinching:    m.pinch.Pinching(),
	}
	if m.last != nil {
		d := *m.last
		s.LastDetection = &d
	}
	return s
}

// discardTrail empties the trail and smoother. Callers hold mu.
func (m *Machine) discardTrail() {
	m.trail.Clear()
	m.smoother.Reset()
	m.epoch++
}

// setMode switches mode and queues the change event. Callers hold mu.
func (m *Machine) setMode(to Mode) {
	from := m.mode
	if from == to {
		return
	}
	m.mode = to
	m.queue(func(l Listener) { l.OnModeChange(from, to) })
}

func (m *Machine) logRejection(a gesture.Analysis) {
	if a.Reason == gesture.ReasonTooFewPoints || a.Reason == gesture.ReasonCooldown {
		return
	}
	m.logger.Debug("heart rejected",
		zap.String("reason", string(a.Reason)),
		zap.Int("points", a.Points),
		zap.Float64("aspect", a.Aspect))
}

func (m *Machine) queueTrailReset(reason TrailResetReason) {
	m.queue(func(l Listener) { l.OnTrailReset(reason) })
}

// queue records an event for delivery after the lock is released. Callers hold mu.
func (m *Machine) queue(ev func(Listener)) {
	m.pending = append(m.pending, ev)
}

// unlockAndEmit releases mu and delivers queued events in order.
func (m *Machine) unlockAndEmit() {
	if len(m.pending) > 0 {
		m.outMu.Lock()
		m.outbox = append(m.outbox, m.pending...)
		m.outMu.Unlock()
		m.pending = nil
	}
	m.mu.Unlock()

	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.outMu.Lock()
	events := m.outbox
	m.outbox = nil
	m.outMu.Unlock()

	for _, ev := range events {
		ev(m.listener)
	}
}
