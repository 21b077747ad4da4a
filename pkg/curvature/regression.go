package curvature

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Segment is an ordinary least-squares line fitted over a contiguous range
// of curve samples.
type Segment struct {
	Slope     float64
	Intercept float64
	R2        float64
	Start     int
	Length    int
}

// FitSegment fits y = Intercept + Slope*x over samples [start, start+length).
// The caller guarantees length >= 2 and that the range is inside the slices.
func FitSegment(x, y []float64, start, length int) Segment {
	xs := x[start : start+length]
	ys := y[start : start+length]

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Segment{
		Slope:     beta,
		Intercept: alpha,
		R2:        stat.RSquared(xs, ys, nil, alpha, beta),
		Start:     start,
		Length:    length,
	}
}

// Solve evaluates the fitted line at x.
func (s Segment) Solve(x float64) float64 {
	return s.Intercept + s.Slope*x
}

// Angle returns the acute angle, in degrees, between s and o.
// Perpendicular lines give 90, parallel lines 0.
func (s Segment) Angle(o Segment) float64 {
	den := 1 + s.Slope*o.Slope
	if den == 0 {
		return 90
	}
	return math.Atan(math.Abs((o.Slope-s.Slope)/den)) * 180 / math.Pi
}

// RMSE is the root of the summed squared residuals of s over samples
// [start, end).
func (s Segment) RMSE(x, y []float64, start, end int) float64 {
	var sum float64
	for i := start; i < end; i++ {
		r := y[i] - s.Solve(x[i])
		sum += r * r
	}
	return math.Sqrt(sum)
}
