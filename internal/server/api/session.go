package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/heartsketch/internal/interaction"
)

// ResetSourceHTTP identifies resets requested over the API.
const ResetSourceHTTP = "http"

// SessionHandler exposes the live interaction state.
type SessionHandler struct {
	controller Controller
}

// NewSessionHandler creates a SessionHandler for the given controller.
func NewSessionHandler(c Controller) *SessionHandler {
	return &SessionHandler{controller: c}
}

// Routes mounts the session endpoints.
func (h *SessionHandler) Routes(r chi.Router) {
	r.Get("/state", h.state)
	r.Post("/reset", h.reset)
	r.Get("/enabled", h.enabled)
	r.Put("/enabled", h.setEnabled)
}

type stateResponse struct {
	interaction.State
	Enabled bool `json:"enabled"`
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

type enabledResponse struct {
	Enabled bool `json:"enabled"`
}

func (h *SessionHandler) snapshot() stateResponse {
	return stateResponse{
		State:   h.controller.State(),
		Enabled: h.controller.Enabled(),
	}
}

// state handles GET /api/state.
func (h *SessionHandler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot())
}

// reset handles POST /api/reset and returns the state afterwards.
func (h *SessionHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.controller.Reset(ResetSourceHTTP)
	writeJSON(w, http.StatusOK, h.snapshot())
}

// enabled handles GET /api/enabled.
func (h *SessionHandler) enabled(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, enabledResponse{Enabled: h.controller.Enabled()})
}

// setEnabled handles PUT /api/enabled.
func (h *SessionHandler) setEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	h.controller.SetEnabled(*req.Enabled)
	writeJSON(w, http.StatusOK, enabledResponse{Enabled: h.controller.Enabled()})
}
