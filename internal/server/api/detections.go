package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/heartsketch/internal/gesture"
	"github.com/ayusman/heartsketch/internal/store"
)

// MaxListLimit caps the limit query parameter.
const MaxListLimit = 500

// DetectionHandler serves the detection journal.
type DetectionHandler struct {
	store *store.Store
}

// NewDetectionHandler creates a new DetectionHandler with the given store.
func NewDetectionHandler(s *store.Store) *DetectionHandler {
	return &DetectionHandler{store: s}
}

// Routes mounts the detection endpoints.
func (h *DetectionHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type detectionResponse struct {
	ID         string            `json:"id"`
	CreatedAt  string            `json:"created_at"`
	PointCount int               `json:"point_count"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Aspect     float64           `json:"aspect"`
	Similarity float64           `json:"similarity"`
	Trail      []gesture.Point2D `json:"trail,omitempty"`
	Outline    []gesture.Point2D `json:"outline,omitempty"`
}

type listDetectionsResponse struct {
	Detections []detectionResponse `json:"detections"`
	Total      int                 `json:"total"`
}

// toResponse converts a store.Detection to a detectionResponse.
func toResponse(d *store.Detection) detectionResponse {
	return detectionResponse{
		ID:         d.ID,
		CreatedAt:  d.CreatedAt.UTC().Format(time.RFC3339Nano),
		PointCount: d.PointCount,
		Width:      d.Width,
		Height:     d.Height,
		Aspect:     d.Aspect,
		Similarity: d.Similarity,
		Trail:      d.Trail,
		Outline:    d.Outline,
	}
}

// list handles GET /api/detections?limit=N, newest first. Entries carry no
// trail or outline: DetectionRepository.List does not select those columns.
func (h *DetectionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxListLimit)
	}

	detections, err := h.store.Detections().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list detections")
		return
	}
	total, err := h.store.Detections().Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count detections")
		return
	}

	response := listDetectionsResponse{
		Detections: make([]detectionResponse, 0, len(detections)),
		Total:      total,
	}
	for _, d := range detections {
		response.Detections = append(response.Detections, toResponse(d))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/detections/{id}.
func (h *DetectionHandler) get(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.Detections().GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Detection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get detection")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(d))
}

// delete handles DELETE /api/detections/{id}.
func (h *DetectionHandler) delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.Detections().Delete(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Detection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete detection")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
