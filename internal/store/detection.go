package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/heartsketch/internal/gesture"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Detection is a journaled heart.
type Detection struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	PointCount int               `json:"point_count"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Aspect     float64           `json:"aspect"`
	Similarity float64           `json:"similarity"`
	Trail      []gesture.Point2D `json:"trail,omitempty"`
	Outline    []gesture.Point2D `json:"outline,omitempty"`
}

// DetectionRepository provides journal operations for detections.
type DetectionRepository struct {
	db *sql.DB
}

// Detections returns the detection repository for this store.
func (s *Store) Detections() *DetectionRepository {
	return &DetectionRepository{db: s.db}
}

// Create inserts a detection. A zero CreatedAt is set to now.
func (r *DetectionRepository) Create(d *Detection) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	trail, err := encodePoints(d.Trail)
	if err != nil {
		return err
	}
	outline, err := encodePoints(d.Outline)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO detections (id, created_at, point_count, width, height, aspect, similarity, trail, outline)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CreatedAt.UTC(), d.PointCount, d.Width, d.Height, d.Aspect, d.Similarity, trail, outline,
	)
	return err
}

// GetByID retrieves a detection including its trail and outline.
func (r *DetectionRepository) GetByID(id string) (*Detection, error) {
	d := &Detection{}
	var trail, outline string

	err := r.db.QueryRow(
		`SELECT id, created_at, point_count, width, height, aspect, similarity, trail, outline
		 FROM detections WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.CreatedAt, &d.PointCount, &d.Width, &d.Height, &d.Aspect, &d.Similarity, &trail, &outline)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if d.Trail, err = decodePoints(trail); err != nil {
		return nil, err
	}
	if d.Outline, err = decodePoints(outline); err != nil {
		return nil, err
	}
	return d, nil
}

// List returns the newest detections first, without point data.
func (r *DetectionRepository) List(limit int) ([]*Detection, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(
		`SELECT id, created_at, point_count, width, height, aspect, similarity
		 FROM detections ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detections []*Detection
	for rows.Next() {
		d := &Detection{}
		if err := rows.Scan(&d.ID, &d.CreatedAt, &d.PointCount, &d.Width, &d.Height, &d.Aspect, &d.Similarity); err != nil {
			return nil, err
		}
		detections = append(detections, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return detections, nil
}

// Count returns the number of journaled detections.
func (r *DetectionRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM detections`).Scan(&n)
	return n, err
}

// Delete removes a detection by its ID.
func (r *DetectionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM detections WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func encodePoints(points []gesture.Point2D) (string, error) {
	if points == nil {
		return "[]", nil
	}
	data, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("encode points: %w", err)
	}
	return string(data), nil
}

func decodePoints(data string) ([]gesture.Point2D, error) {
	var points []gesture.Point2D
	if err := json.Unmarshal([]byte(data), &points); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}
	return points, nil
}
