package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/heartsketch/internal/detector"
	"github.com/ayusman/heartsketch/internal/gesture"
	"github.com/ayusman/heartsketch/internal/interaction"
	"github.com/ayusman/heartsketch/internal/replay"
)

const demoFrameStep = 33 * time.Millisecond

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a synthetic heart, pinch and drag session without a camera",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printer := interaction.ListenerFuncs{
		Scale:    func(scale float64) { fmt.Printf("  scale     %.3f\n", scale) },
		Rotation: func(x, y float64) { fmt.Printf("  rotation  (%.3f, %.3f)\n", x, y) },
		Heart: func(d interaction.Detection) {
			fmt.Printf("  heart     %d points, similarity %.3f\n", len(d.Trail), d.Similarity)
		},
		Mode: func(from, to interaction.Mode) { fmt.Printf("  mode      %s -> %s\n", from, to) },
		TrailReset: func(reason interaction.TrailResetReason) {
			fmt.Printf("  trail     reset (%s)\n", reason)
		},
	}

	res, err := replay.Play(cmd.Context(), cfg.Interaction, demoFrames(), replay.Options{Listener: printer})
	if err != nil {
		return err
	}

	fmt.Printf("\n%d frames, %d heart(s), final scale %.3f\n", res.Frames, len(res.Detections), res.Final.Scale)
	return nil
}

// demoFrames traces a heart, pauses, spreads a pinch and then drags the
// pinched hand to the right.
func demoFrames() []replay.Frame {
	var frames []replay.Frame
	var t time.Duration
	add := func(hand *detector.HandLandmarks, step time.Duration) {
		frames = append(frames, replay.Frame{TMs: t.Milliseconds(), Hand: hand})
		t += step
	}

	for _, p := range gesture.HeartCurve(90, gesture.Point2D{X: 0.5, Y: 0.5}, 0.35) {
		hand := detector.PointingLandmarks(p)
		add(&hand, demoFrameStep)
	}
	t += 300 * time.Millisecond

	center := gesture.Point2D{X: 0.5, Y: 0.5}
	for i := range 12 {
		half := 0.03 + 0.01*float64(i)
		hand := detector.PinchLandmarks(
			gesture.Point2D{X: center.X - half, Y: center.Y},
			gesture.Point2D{X: center.X + half, Y: center.Y},
		)
		add(&hand, 60*time.Millisecond)
	}

	for i := range 15 {
		x := center.X + 0.01*float64(i)
		hand := detector.PinchLandmarks(
			gesture.Point2D{X: x - 0.14, Y: center.Y},
			gesture.Point2D{X: x + 0.14, Y: center.Y},
		)
		add(&hand, demoFrameStep)
	}

	add(nil, demoFrameStep)
	return frames
}
