package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/heartsketch/internal/app"
	"github.com/ayusman/heartsketch/internal/capture"
	"github.com/ayusman/heartsketch/internal/config"
	"github.com/ayusman/heartsketch/internal/detector"
	"github.com/ayusman/heartsketch/internal/gesture"
	"github.com/ayusman/heartsketch/internal/interaction"
	"github.com/ayusman/heartsketch/internal/logging"
	"github.com/ayusman/heartsketch/internal/replay"
	"github.com/ayusman/heartsketch/internal/server"
	"github.com/ayusman/heartsketch/internal/store"
	"github.com/ayusman/heartsketch/internal/timeutil"
	"github.com/ayusman/heartsketch/internal/tray"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the camera pipeline and the HTTP API",
	Long: `Start hand tracking on the configured camera and serve the session API,
the detection journal and the live event stream.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Address to listen on (overrides config)")
	serveCmd.Flags().Int("camera", -1, "Camera device index (overrides config)")
	serveCmd.Flags().Bool("tray", false, "Show a system tray menu")
	serveCmd.Flags().String("record", "", "Record hand frames to a JSONL file for replay")
	serveCmd.Flags().Bool("mock", false, "Use a scripted detector instead of MediaPipe")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if device, _ := cmd.Flags().GetInt("camera"); device >= 0 {
		cfg.Camera.Device = device
	}
	if mock, _ := cmd.Flags().GetBool("mock"); mock {
		cfg.Detector.Kind = detector.KindMock
	}
	withTray, _ := cmd.Flags().GetBool("tray")
	recordPath, _ := cmd.Flags().GetString("record")

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var st *store.Store
	if cfg.Store.Path != "" {
		st, err = store.New(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		logger.Info("journal opened", zap.String("path", st.Path()))
	}

	camera, det, err := newSource(cfg, logger)
	if err != nil {
		return err
	}

	var recorder *replay.Writer
	if recordPath != "" {
		f, err := os.Create(recordPath)
		if err != nil {
			return fmt.Errorf("create recording: %w", err)
		}
		defer f.Close()
		recorder = replay.NewWriter(f, timeutil.RealClock{})
		defer func() {
			if err := recorder.Flush(); err != nil {
				logger.Warn("failed to flush recording", zap.Error(err))
			}
			logger.Info("recording saved", zap.String("path", recordPath), zap.Int("frames", recorder.Count()))
		}()
	}

	events := server.NewEventHub(logger)

	appCfg := app.Config{
		Interaction: cfg.Interaction,
		Camera:      camera,
		Detector:    det,
		FPS:         cfg.Camera.FPS,
		Store:       st,
		Listeners:   []interaction.Listener{events},
		Logger:      logger,
	}
	if recorder != nil {
		appCfg.Recorder = recorder
	}
	application, err := app.New(appCfg)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		StaticDir:  staticDir(cfg.Server.StaticDir),
		Store:      st,
		Controller: application,
		Events:     events,
		Logger:     logger,
	})

	if err := application.Start(); err != nil {
		return err
	}
	defer application.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(cfg.Server.Addr)
	}()

	if withTray {
		t := tray.New(application.Enabled())
		application.AddListener(t.Listener())
		t.OnToggle(application.SetEnabled)
		t.OnReset(func() { application.Reset(app.ResetSourceTray) })
		t.OnQuit(cancel)
		go func() {
			<-ctx.Done()
			tray.Quit()
		}()
		// The tray owns the main thread until it quits.
		t.Run()
		cancel()
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error during shutdown", zap.Error(err))
	}
	return nil
}

// newSource builds the camera and detector for cfg. The mock detector draws a
// scripted heart over blank frames.
func newSource(cfg config.Config, logger *zap.Logger) (capture.Camera, detector.Detector, error) {
	if cfg.Detector.Kind == detector.KindMock {
		det := detector.NewMockDetector()
		heart := gesture.HeartCurve(90, gesture.Point2D{X: 0.5, Y: 0.5}, 0.35)
		det.SetHands([]detector.HandLandmarks{detector.PointingLandmarks(heart[0])})
		for _, p := range heart {
			det.Queue([]detector.HandLandmarks{detector.PointingLandmarks(p)})
		}
		logger.Info("using mock detector")
		return capture.NewMockCamera(nil, false), det, nil
	}

	det, err := detector.NewMediaPipeDetector(cfg.Detector, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("detector: %w", err)
	}
	return capture.NewCamera(cfg.Camera), det, nil
}

// staticDir returns dir when set, otherwise the first web directory found
// next to the working directory or in the data directory.
func staticDir(dir string) string {
	if dir != "" {
		return dir
	}

	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	web := filepath.Join(home, config.DataDirName, "web")
	if info, err := os.Stat(web); err == nil && info.IsDir() {
		return web
	}
	return ""
}
