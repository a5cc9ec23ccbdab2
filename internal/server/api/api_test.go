package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/heartsketch/internal/interaction"
	"github.com/ayusman/heartsketch/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// fakeController records calls and serves a fixed state.
type fakeController struct {
	mu      sync.Mutex
	state   interaction.State
	enabled bool
	resets  []string
}

func newFakeController() *fakeController {
	return &fakeController{
		state:   interaction.State{Mode: interaction.ModeManipulating, Scale: 1.5, RotationY: -0.3},
		enabled: true,
	}
}

func (f *fakeController) State() interaction.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeController) Reset(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, source)
	f.state = interaction.State{Mode: interaction.ModeDrawing, Scale: 1}
}

func (f *fakeController) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func (f *fakeController) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
}

// newRouter mounts handlers the way the server does.
func newRouter(c Controller, s *store.Store) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		if c != nil {
			NewSessionHandler(c).Routes(r)
		}
		if s != nil {
			r.Route("/detections", NewDetectionHandler(s).Routes)
		}
	})
	return r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
