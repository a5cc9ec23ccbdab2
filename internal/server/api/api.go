// Package api provides the heartsketch HTTP API handlers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/heartsketch/internal/interaction"
)

// Controller is the running session the API inspects and drives.
type Controller interface {
	State() interaction.State
	// Reset returns to drawing mode; source names the caller for logs.
	Reset(source string)
	Enabled() bool
	SetEnabled(enabled bool)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
