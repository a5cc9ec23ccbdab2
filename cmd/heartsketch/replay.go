package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/heartsketch/internal/logging"
	"github.com/ayusman/heartsketch/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <recording.jsonl>",
	Short: "Run a recorded hand session through the interaction machine",
	Long: `Replay feeds a recording made with "serve --record" through a fresh
interaction machine on a simulated clock and reports every heart detection
and the final state. The outcome does not depend on machine speed.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().Bool("json", false, "Output the result as JSON")
}

func runReplay(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	frames, err := replay.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read recording: %w", err)
	}

	logger := zap.NewNop()
	if !jsonOutput {
		if logger, err = logging.New(cfg.Log); err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
	}

	opts := replay.Options{Logger: logger}
	var bar *progressbar.ProgressBar
	if !jsonOutput {
		bar = progressbar.NewOptions(len(frames),
			progressbar.OptionSetDescription("Replaying"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("frames"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
		opts.Progress = func(done, _ int) { _ = bar.Set(done) }
	}

	res, err := replay.Play(cmd.Context(), cfg.Interaction, frames, opts)
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Printf("\n\nFrames:     %d over %s\n", res.Frames, res.Duration)
	fmt.Printf("Detections: %d\n", len(res.Detections))
	for i, d := range res.Detections {
		fmt.Printf("  %d. %s at +%s  %d points  aspect %.2f  similarity %.3f\n",
			i+1, d.ID, d.At.Sub(replay.Epoch), len(d.Trail), d.Analysis.Aspect, d.Similarity)
	}
	fmt.Printf("Final mode: %s  scale %.3f  rotation (%.3f, %.3f)\n",
		res.Final.Mode, res.Final.Scale, res.Final.RotationX, res.Final.RotationY)
	return nil
}
