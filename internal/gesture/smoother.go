package gesture

import (
	"gonum.org/v1/gonum/floats"
)

// Smoother filters the raw fingertip stream before it reaches the trail.
type Smoother interface {
	// Smooth returns the filtered position for raw. The first call after
	// construction or Reset returns raw unchanged.
	Smooth(raw Point2D) Point2D

	// Reset forgets the filter state.
	Reset()
}

// DefaultEMAAlpha is the weight given to the newest sample.
const DefaultEMAAlpha = 0.3

// EMASmoother is an exponential moving average over fingertip positions.
type EMASmoother struct {
	alpha  float64
	last   Point2D
	primed bool
}

// NewEMASmoother creates an EMA smoother. alpha must be in (0,1].
func NewEMASmoother(alpha float64) (*EMASmoother, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, invalidf("ema alpha %v outside (0,1]", alpha)
	}
	return &EMASmoother{alpha: alpha}, nil
}

// Smooth blends raw into the running average: s = a*raw + (1-a)*s.
func (s *EMASmoother) Smooth(raw Point2D) Point2D {
	if !s.primed {
		s.last = raw
		s.primed = true
		return raw
	}

	s.last = Point2D{
		X: s.alpha*raw.X + (1-s.alpha)*s.last.X,
		Y: s.alpha*raw.Y + (1-s.alpha)*s.last.Y,
	}
	return s.last
}

// Reset clears the running average.
func (s *EMASmoother) Reset() {
	s.primed = false
	s.last = Point2D{}
}

// DefaultTrailWindow is the symmetric kernel applied by SmoothTrail.
var DefaultTrailWindow = []float64{0.1, 0.2, 0.4, 0.2, 0.1}

// ValidateWindow checks that weights form an odd-length kernel with positive sum.
func ValidateWindow(weights []float64) error {
	if len(weights) == 0 {
		return nil
	}
	if len(weights)%2 == 0 {
		return invalidf("trail window has even length %d", len(weights))
	}
	for _, w := range weights {
		if w < 0 {
			return invalidf("trail window has negative weight %v", w)
		}
	}
	if floats.Sum(weights) <= 0 {
		return invalidf("trail window weights sum to zero")
	}
	return nil
}

// SmoothTrail applies a centred weighted window over the whole trail. Near the
// ends the window is truncated and the remaining weights are renormalized, so
// the output has the same length as the input. An empty window returns a copy.
func SmoothTrail(points []Point2D, weights []float64) []Point2D {
	out := make([]Point2D, len(points))
	if len(weights) == 0 {
		copy(out, points)
		return out
	}

	xs, ys := splitXY(points)
	half := len(weights) / 2

	for i := range points {
		lo := max(i-half, 0)
		hi := min(i+half+1, len(points))

		// Kernel slice aligned with points[lo:hi]
		w := weights[lo-(i-half) : len(weights)-((i+half+1)-hi)]
		sum := floats.Sum(w)

		out[i] = Point2D{
			X: floats.Dot(w, xs[lo:hi]) / sum,
			Y: floats.Dot(w, ys[lo:hi]) / sum,
		}
	}
	return out
}
