// Package gesture implements the fingertip trail, heart classification and the
// pinch/rotation controllers that turn hand landmarks into view transforms.
//
// All coordinates are normalized image coordinates: x and y in [0,1] with the
// origin at the top-left and y growing downward.
package gesture

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

// Point2D is a position in normalized image coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec returns the point as an mgl64 vector.
func (p Point2D) Vec() mgl64.Vec2 {
	return mgl64.Vec2{p.X, p.Y}
}

// PointFromVec converts an mgl64 vector back to a Point2D.
func PointFromVec(v mgl64.Vec2) Point2D {
	return Point2D{X: v[0], Y: v[1]}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point2D) DistanceTo(q Point2D) float64 {
	return q.Vec().Sub(p.Vec()).Len()
}

// Midpoint returns the point halfway between p and q.
func (p Point2D) Midpoint(q Point2D) Point2D {
	return PointFromVec(p.Vec().Add(q.Vec()).Mul(0.5))
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point2D) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the centre of the box.
func (r Rect) Center() Point2D {
	return Point2D{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Bounds returns the bounding box of points. An empty slice yields a zero Rect.
func Bounds(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}

	xs, ys := splitXY(points)
	return Rect{
		MinX: floats.Min(xs),
		MinY: floats.Min(ys),
		MaxX: floats.Max(xs),
		MaxY: floats.Max(ys),
	}
}

// splitXY separates the coordinates of points into two slices.
func splitXY(points []Point2D) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}
