package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// bridgeScript is the file name of the Python landmark bridge.
const bridgeScript = "hand_landmarks.py"

// MediaPipeDetector implements Detector with a Python MediaPipe subprocess.
//
// Protocol: each frame is written to the process stdin as a 4-byte big-endian
// length followed by a JPEG image; the process answers with one JSON line
// {"hands":[{"points":[{"x":..,"y":..,"z":..}, ...],"handedness":..,"score":..}]}.
type MediaPipeDetector struct {
	config Config
	script string
	python string
	logger *zap.Logger

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	started   bool
	closed    bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a MediaPipe detector. The Python process is
// started lazily on the first Detect and stopped after IdleTimeout without frames.
func NewMediaPipeDetector(config Config, logger *zap.Logger) (*MediaPipeDetector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	script := config.Script
	if script == "" {
		script = findBridgeScript()
	}
	if script == "" {
		return nil, fmt.Errorf("%s not found", bridgeScript)
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("bridge script: %w", err)
	}

	python := config.Python
	if python == "" {
		python = findVenvPython()
	}
	if python == "" {
		python = "python3"
	}

	return &MediaPipeDetector{
		config: config,
		script: script,
		python: python,
		logger: logger.Named("mediapipe"),
	}, nil
}

// Detect analyzes a frame and returns detected hand landmarks.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDetectorClosed
	}
	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	hands, err := d.roundTrip(buf.GetBytes())
	if err != nil {
		// The process is in an unknown state; restart it on the next frame.
		d.logger.Warn("bridge round trip failed, restarting", zap.Error(err))
		_ = d.shutdown()
		return nil, err
	}

	d.resetIdleTimer()
	return hands, nil
}

// roundTrip sends one encoded frame and decodes the reply.
func (d *MediaPipeDetector) roundTrip(data []byte) ([]HandLandmarks, error) {
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	if _, err := d.stdin.Write(header); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return decodeResponse(line)
}

// decodeResponse parses one JSON reply line from the bridge.
func decodeResponse(line []byte) ([]HandLandmarks, error) {
	var response struct {
		Hands []HandLandmarks `json:"hands"`
		Error string          `json:"error"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("bridge: %s", response.Error)
	}

	// Drop partial landmark sets beyond the standard skeleton
	for i := range response.Hands {
		if len(response.Hands[i].Points) > NumLandmarks {
			response.Hands[i].Points = response.Hands[i].Points[:NumLandmarks]
		}
	}
	return response.Hands, nil
}

// Close shuts down the Python process. Detect fails afterwards.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return d.shutdown()
}

// args builds the bridge command line from the detector configuration.
func (d *MediaPipeDetector) args() []string {
	return []string{
		d.script,
		"--max-hands", strconv.Itoa(max(d.config.MaxHands, 1)),
		"--model-complexity", strconv.Itoa(d.config.ModelComplexity),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	}
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	cmd := exec.Command(d.python, d.args()...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Bridge diagnostics go straight to our stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start landmark bridge: %w", err)
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	d.logger.Info("landmark bridge started",
		zap.String("python", d.python),
		zap.String("script", d.script),
		zap.Int("pid", cmd.Process.Pid))
	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	d.logger.Info("landmark bridge stopped")
	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.config.IdleTimeout <= 0 {
		return
	}
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(d.config.IdleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		_ = d.shutdown()
	})
}

// findBridgeScript looks for the bridge next to the working directory, the
// executable and the user's data directory.
func findBridgeScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("scripts", bridgeScript),
		filepath.Join("..", "scripts", bridgeScript),
		filepath.Join(execDir, "scripts", bridgeScript),
		filepath.Join(os.Getenv("HOME"), ".heartsketch", "scripts", bridgeScript),
	}
	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".heartsketch/venv/bin/python"),
	}
	return firstExisting(candidates)
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}
