package gesture

import (
	"math"
)

// HeartCurve returns n points evenly spaced in t along the classic parametric
// heart x=16sin^3(t), y=-(13cos t - 5cos 2t - 2cos 3t - cos 4t), scaled
// uniformly to the given width and centred on center. The stroke starts at the
// notch between the lobes and runs clockwise in screen coordinates.
func HeartCurve(n int, center Point2D, width float64) []Point2D {
	if n <= 0 {
		return nil
	}

	raw := make([]Point2D, n)
	for i := range raw {
		t := 2 * math.Pi * float64(i) / float64(n)
		s := math.Sin(t)
		raw[i] = Point2D{
			X: 16 * s * s * s,
			Y: -(13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)),
		}
	}

	return fitTo(raw, center, width)
}

// CircleTrail returns n points on a circle of radius r around center.
func CircleTrail(n int, center Point2D, r float64) []Point2D {
	points := make([]Point2D, 0, max(n, 0))
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		points = append(points, Point2D{
			X: center.X + r*math.Cos(t),
			Y: center.Y + r*math.Sin(t),
		})
	}
	return points
}

// fitTo scales points uniformly so their bounding box has the given width and
// moves the box centre to center.
func fitTo(points []Point2D, center Point2D, width float64) []Point2D {
	b := Bounds(points)
	scale := 1.0
	if b.Width() > 0 {
		scale = width / b.Width()
	}
	c := b.Center()

	out := make([]Point2D, len(points))
	for i, p := range points {
		out[i] = Point2D{
			X: center.X + (p.X-c.X)*scale,
			Y: center.Y + (p.Y-c.Y)*scale,
		}
	}
	return out
}
