// Package app wires the camera, the landmark detector and the interaction
// machine into the running heartsketch session.
package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ayusman/heartsketch/internal/capture"
	"github.com/ayusman/heartsketch/internal/detector"
	"github.com/ayusman/heartsketch/internal/interaction"
	"github.com/ayusman/heartsketch/internal/store"
	"github.com/ayusman/heartsketch/internal/timeutil"
)

// Reset sources, used in logs.
const (
	ResetSourceCLI  = "cli"
	ResetSourceTray = "tray"
)

// FrameRecorder receives every hand frame the pipeline feeds to the machine.
type FrameRecorder interface {
	Record(hand *detector.HandLandmarks) error
}

// Config holds configuration options for the application.
type Config struct {
	Interaction interaction.Config
	Camera      capture.Camera
	Detector    detector.Detector
	FPS         int                    // camera frame rate; capture.DefaultFPS when zero
	Store       *store.Store           // optional detection journal and settings
	Recorder    FrameRecorder          // optional
	Listeners   []interaction.Listener // notified of every interaction event
	Clock       timeutil.Clock
	Logger      *zap.Logger
}

// App runs the capture pipeline and owns the interaction machine.
type App struct {
	config      Config
	camera      capture.Camera
	detector    detector.Detector
	machine     *interaction.Machine
	broadcaster *interaction.Broadcaster
	clock       timeutil.Clock
	logger      *zap.Logger
	enabled     atomic.Bool
	frames      atomic.Int64

	mu     sync.Mutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates an App. The enabled state is restored from the store when one
// is configured and defaults to true otherwise.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if config.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if config.Clock == nil {
		config.Clock = timeutil.RealClock{}
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.FPS <= 0 {
		config.FPS = capture.DefaultFPS
	}

	a := &App{
		config:      config,
		camera:      config.Camera,
		detector:    config.Detector,
		broadcaster: interaction.NewBroadcaster(config.Listeners...),
		clock:       config.Clock,
		logger:      config.Logger.Named("app"),
	}

	enabled := true
	if config.Store != nil {
		a.broadcaster.Add(newJournal(config.Store, a.logger))
		enabled = config.Store.Settings().Bool(store.SettingEnabled, true)
	}
	a.enabled.Store(enabled)

	machine, err := interaction.New(config.Interaction, config.Clock, config.Logger, a.broadcaster)
	if err != nil {
		return nil, fmt.Errorf("interaction: %w", err)
	}
	a.machine = machine

	return a, nil
}

// AddListener registers another event listener.
func (a *App) AddListener(l interaction.Listener) {
	a.broadcaster.Add(l)
}

// Machine returns the interaction machine.
func (a *App) Machine() *interaction.Machine {
	return a.machine
}

// State returns the machine state.
func (a *App) State() interaction.State {
	return a.machine.State()
}

// Reset returns the machine to drawing mode. source names the requester.
func (a *App) Reset(source string) {
	a.logger.Info("reset requested", zap.String("source", source))
	a.machine.Reset()
}

// Enabled reports whether frames are being processed.
func (a *App) Enabled() bool {
	return a.enabled.Load()
}

// SetEnabled pauses or resumes frame processing. The machine keeps its state
// while paused. The choice is persisted when a store is configured.
func (a *App) SetEnabled(enabled bool) {
	if a.enabled.Swap(enabled) == enabled {
		return
	}
	a.logger.Info("tracking toggled", zap.Bool("enabled", enabled))

	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetBool(store.SettingEnabled, enabled); err != nil {
			a.logger.Warn("failed to persist enabled state", zap.Error(err))
		}
	}
}

// Frames returns the number of frames handed to the machine.
func (a *App) Frames() int64 {
	return a.frames.Load()
}

// Start opens the camera and begins the pipeline and heart-check loops.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.camera.SetFPS(a.config.FPS)

	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go a.runPipeline(a.stopCh)

	if interval := a.config.Interaction.Detection.Interval; interval > 0 {
		a.wg.Add(1)
		go a.runHeartChecks(a.stopCh, interval)
	}

	a.logger.Info("pipeline started", zap.Int("fps", a.config.FPS))
	return nil
}

// Stop halts the loops and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh == nil {
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	a.wg.Wait()

	if err := a.camera.Close(); err != nil {
		a.logger.Warn("error closing camera", zap.Error(err))
	}
	if err := a.detector.Close(); err != nil {
		a.logger.Warn("error closing detector", zap.Error(err))
	}

	a.logger.Info("pipeline stopped", zap.Int64("frames", a.frames.Load()))
}
