package gesture

import (
	"math"
	"slices"
)

// SimilaritySamples is the number of points both paths are resampled to before
// DTW comparison.
const SimilaritySamples = 32

// DTWDistance calculates the Dynamic Time Warping distance between two paths.
// Returns infinity if either path is empty.
// The distance is normalized by the longer path length.
func DTWDistance(path1, path2 []Point2D) float64 {
	n := len(path1)
	m := len(path2)

	// Handle empty paths
	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	// Two rolling rows of the (n+1) x (m+1) cost matrix
	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := range prev {
		prev[j] = math.Inf(1)
	}
	prev[0] = 0

	for i := 1; i <= n; i++ {
		curr[0] = math.Inf(1)
		for j := 1; j <= m; j++ {
			cost := path1[i-1].DistanceTo(path2[j-1])
			curr[j] = cost + min(prev[j], curr[j-1], prev[j-1])
		}
		prev, curr = curr, prev
	}

	return prev[m] / float64(max(n, m))
}

// HeartSimilarity scores how closely trail follows the reference heart curve,
// in (0,1] with 1 meaning identical after normalization. The trail may start
// anywhere along the outline and run in either direction; the best alignment
// is used. Empty or single-point trails score 0.
func HeartSimilarity(trail []Point2D) float64 {
	if len(trail) < 2 {
		return 0
	}

	input := normalizePath(Resample(trail, SimilaritySamples))
	reference := normalizePath(HeartCurve(SimilaritySamples, Point2D{X: 0.5, Y: 0.5}, 1))

	best := math.Inf(1)
	reversed := slices.Clone(reference)
	slices.Reverse(reversed)

	for _, ref := range [][]Point2D{reference, reversed} {
		for shift := 0; shift < len(ref); shift++ {
			rotated := append(slices.Clone(ref[shift:]), ref[:shift]...)
			if d := DTWDistance(input, rotated); d < best {
				best = d
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0
	}
	return 1.0 / (1.0 + best)
}

// Resample returns n points spaced evenly by arc length along path.
func Resample(path []Point2D, n int) []Point2D {
	if len(path) == 0 || n <= 0 {
		return nil
	}
	if len(path) == 1 || n == 1 {
		out := make([]Point2D, n)
		for i := range out {
			out[i] = path[0]
		}
		return out
	}

	// Cumulative arc length at each vertex
	cum := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		cum[i] = cum[i-1] + path[i-1].DistanceTo(path[i])
	}
	total := cum[len(cum)-1]
	if total == 0 {
		return Resample(path[:1], n)
	}

	out := make([]Point2D, n)
	seg := 1
	for i := range out {
		target := total * float64(i) / float64(n-1)
		for seg < len(path)-1 && cum[seg] < target {
			seg++
		}
		span := cum[seg] - cum[seg-1]
		t := 0.0
		if span > 0 {
			t = (target - cum[seg-1]) / span
		}
		a, b := path[seg-1], path[seg]
		out[i] = Point2D{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
	}
	return out
}

// normalizePath scales the path coordinates to the 0-1 range per axis.
func normalizePath(path []Point2D) []Point2D {
	if path == nil {
		return nil
	}

	n := len(path)
	if n == 0 {
		return []Point2D{}
	}

	// Handle single point case
	if n == 1 {
		return []Point2D{{X: 0, Y: 0}}
	}

	b := Bounds(path)
	rangeX := b.Width()
	rangeY := b.Height()

	// Normalize to 0-1 range
	normalized := make([]Point2D, n)
	for i, p := range path {
		var normX, normY float64

		if rangeX > 0 {
			normX = (p.X - b.MinX) / rangeX
		}
		if rangeY > 0 {
			normY = (p.Y - b.MinY) / rangeY
		}

		normalized[i] = Point2D{X: normX, Y: normY}
	}

	return normalized
}
