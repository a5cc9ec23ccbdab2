package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/heartsketch/internal/detector"
)

// runPipeline reads frames at the camera rate and feeds the first detected
// hand to the machine. A frame with no hand tells the machine the hand was lost.
func (a *App) runPipeline(stop <-chan struct{}) {
	defer a.wg.Done()

	ticker := a.clock.NewTicker(time.Second / time.Duration(a.config.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			a.step()
		}
	}
}

// runHeartChecks classifies the trail at a fixed interval, independently of
// the frame rate.
func (a *App) runHeartChecks(stop <-chan struct{}, interval time.Duration) {
	defer a.wg.Done()

	ticker := a.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if a.Enabled() {
				a.machine.CheckHeart()
			}
		}
	}
}

// step processes one camera frame. It reports whether a frame reached the machine.
func (a *App) step() bool {
	// Skip processing if tracking is paused
	if !a.Enabled() {
		return false
	}

	frame, err := a.camera.ReadFrame()
	if err != nil {
		a.logger.Warn("error reading frame", zap.Error(err))
		return false
	}
	hands, err := a.detector.Detect(frame)
	frame.Close() // Done with the frame
	if err != nil {
		a.logger.Warn("error detecting hands", zap.Error(err))
		return false
	}

	a.handle(hands)
	return true
}

// handle forwards the first hand, or nil when none was detected.
func (a *App) handle(hands []detector.HandLandmarks) {
	var hand *detector.HandLandmarks
	if len(hands) > 0 {
		hand = &hands[0]
	}

	if a.config.Recorder != nil {
		if err := a.config.Recorder.Record(hand); err != nil {
			a.logger.Warn("error recording frame", zap.Error(err))
		}
	}

	a.machine.HandleFrame(hand)
	a.frames.Add(1)
}
