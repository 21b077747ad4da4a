package curvature

import "fmt"

// MinCutoff is the smallest refinement window. Below it the two regressions
// have too few samples to say anything about the bend.
const MinCutoff = 20

// minBendAngle is the angle, in degrees, under which the best split is
// considered a straight line rather than a bend.
const minBendAngle = 1e-6

// Amethod is the angle based detector. For every candidate split it fits a
// line on each side and picks the split whose lines meet closest to 90 degrees.
// The search is repeated on a window shrunk to twice the last candidate, as
// long as the candidate keeps moving left and the window stays above MinCutoff.
//
// Knee and elbow are the same bend under this method.
type Amethod struct {
	minCutoff int
}

// NewAmethod returns an Amethod detector with the default MinCutoff.
func NewAmethod() *Amethod {
	return &Amethod{minCutoff: MinCutoff}
}

func (a *Amethod) FindKnee(x, y []float64) (int, error) {
	return a.refine(x, y)
}

func (a *Amethod) FindElbow(x, y []float64) (int, error) {
	return a.refine(x, y)
}

func (a *Amethod) refine(x, y []float64) (int, error) {
	if err := validate(x, y); err != nil {
		return NotFound, err
	}

	n := len(x)
	cutoff, point := n, n
	for {
		last := point
		p, err := bendIndex(x, y, cutoff)
		if err != nil {
			return NotFound, err
		}
		if p == NotFound {
			if last == n {
				return NotFound, nil
			}
			// The narrowed window is straight; keep the previous candidate.
			return last, nil
		}
		point = p
		cutoff = min(point*2, n)
		if point >= last || cutoff < a.minCutoff {
			return point, nil
		}
	}
}

// bendIndex scans the splits [1, length-2] of the first length samples and
// returns the first one minimizing (90 - angle)^2.
func bendIndex(x, y []float64, length int) (int, error) {
	if length < 3 {
		return NotFound, fmt.Errorf("%w: window of %d", ErrInsufficientData, length)
	}

	idx := NotFound
	best, bestAngle := 0.0, 0.0
	for i := 1; i < length-1; i++ {
		left := FitSegment(x, y, 0, i+1)
		right := FitSegment(x, y, i, length-i)

		angle := left.Angle(right)
		d := 90.0 - angle
		metric := d * d
		if idx == NotFound || metric < best {
			idx, best, bestAngle = i, metric, angle
		}
	}

	if bestAngle < minBendAngle {
		return NotFound, nil
	}
	return idx, nil
}
