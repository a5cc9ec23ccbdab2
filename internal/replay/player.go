package replay

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/heartsketch/internal/interaction"
	"github.com/ayusman/heartsketch/internal/timeutil"
)

// Epoch is the mock clock origin for playback.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Options configures Play.
type Options struct {
	Logger   *zap.Logger
	Listener interaction.Listener // receives every event in addition to the result
	Progress func(done, total int)
}

// Result summarises a playback run.
type Result struct {
	Frames     int
	Duration   time.Duration
	Detections []interaction.Detection
	Modes      []interaction.Mode // every mode entered, in order
	Final      interaction.State
}

// Play drives a fresh machine through frames on a mock clock. The heart check
// runs at cfg.Detection.Interval on the recorded timeline, so the outcome is
// the same on every run. In a gap between frames only the first and the last
// tick run, which keeps long pauses in a recording cheap.
func Play(ctx context.Context, cfg interaction.Config, frames []Frame, opts Options) (Result, error) {
	var res Result
	record := interaction.ListenerFuncs{
		Heart: func(d interaction.Detection) { res.Detections = append(res.Detections, d) },
		Mode:  func(_, to interaction.Mode) { res.Modes = append(res.Modes, to) },
	}

	listener := interaction.NewBroadcaster(record, opts.Listener)
	clock := timeutil.NewMockClock(Epoch)
	machine, err := interaction.New(cfg, clock, opts.Logger, listener)
	if err != nil {
		return Result{}, err
	}

	interval := cfg.Detection.Interval
	nextCheck := Epoch.Add(interval)

	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		at := f.At(Epoch)
		if interval > 0 && !nextCheck.After(at) {
			check := func() {
				clock.Advance(nextCheck.Sub(clock.Now()))
				machine.CheckHeart()
				nextCheck = nextCheck.Add(interval)
			}
			check()

			// The trail only changes on frames, so the ticks between the first
			// and the last one before this frame would see the same trail.
			if !nextCheck.After(at) {
				if err := ctx.Err(); err != nil {
					return Result{}, err
				}
				nextCheck = nextCheck.Add(at.Sub(nextCheck) / interval * interval)
				check()
			}
		}
		if d := at.Sub(clock.Now()); d > 0 {
			clock.Advance(d)
		}

		machine.HandleFrame(f.Hand)
		res.Frames++

		if opts.Progress != nil {
			opts.Progress(i+1, len(frames))
		}
	}

	// One last check so a heart closed on the final frame is not lost.
	if interval > 0 && len(frames) > 0 {
		clock.Advance(interval)
		machine.CheckHeart()
	}

	res.Duration = clock.Since(Epoch)
	res.Final = machine.State()
	return res, nil
}
