// Package replay records hand frames as JSON lines and plays them back
// deterministically against an interaction machine.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ayusman/heartsketch/internal/detector"
	"github.com/ayusman/heartsketch/internal/timeutil"
)

// maxLine bounds a single recorded frame.
const maxLine = 1 << 20

// Frame is one recorded detector result. A nil Hand means no hand was seen.
type Frame struct {
	TMs  int64                   `json:"t_ms"`
	Hand *detector.HandLandmarks `json:"hand"`
}

// At returns the frame time relative to start.
func (f Frame) At(start time.Time) time.Time {
	return start.Add(time.Duration(f.TMs) * time.Millisecond)
}

// Writer appends frames to a JSON lines stream. Timestamps are milliseconds
// since the first recorded frame.
type Writer struct {
	mu    sync.Mutex
	w     *bufio.Writer
	enc   *json.Encoder
	clock timeutil.Clock
	start time.Time
	count int
}

// NewWriter creates a Writer. A nil clock uses the wall clock.
func NewWriter(w io.Writer, clock timeutil.Clock) *Writer {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	bw := bufio.NewWriter(w)
	return &Writer{w: bw, enc: json.NewEncoder(bw), clock: clock}
}

// Record writes one frame stamped with the current time.
func (w *Writer) Record(hand *detector.HandLandmarks) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	if w.count == 0 {
		w.start = now
	}
	frame := Frame{TMs: now.Sub(w.start).Milliseconds(), Hand: hand}
	if err := w.enc.Encode(frame); err != nil {
		return fmt.Errorf("record frame %d: %w", w.count, err)
	}
	w.count++
	return nil
}

// Count returns the number of frames written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Flush writes buffered frames to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Flush()
}

// Reader decodes frames from a JSON lines stream.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	lastTMs int64
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{scanner: s}
}

// Next returns the next frame, or io.EOF at the end of the stream. Blank
// lines are skipped and timestamps must not go backwards.
func (r *Reader) Next() (Frame, error) {
	for r.scanner.Scan() {
		r.line++
		data := r.scanner.Bytes()
		if len(data) == 0 {
			continue
		}

		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		if f.TMs < r.lastTMs {
			return Frame{}, fmt.Errorf("line %d: timestamp %d before %d", r.line, f.TMs, r.lastTMs)
		}
		r.lastTMs = f.TMs
		return f, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Frame{}, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return Frame{}, io.EOF
}

// ReadAll decodes every frame in r.
func ReadAll(r io.Reader) ([]Frame, error) {
	reader := NewReader(r)
	var frames []Frame
	for {
		f, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
}
