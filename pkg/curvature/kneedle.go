package curvature

// Kneedle normalizes the curve to the unit square and measures each sample's
// vertical distance from the diagonal joining the first and last samples.
// The knee of a concave curve is the sample furthest above the diagonal, the
// elbow of a convex curve the one furthest below it.
type Kneedle struct{}

func NewKneedle() *Kneedle { return &Kneedle{} }

func (k *Kneedle) FindKnee(x, y []float64) (int, error) {
	return k.find(x, y, 1)
}

func (k *Kneedle) FindElbow(x, y []float64) (int, error) {
	return k.find(x, y, -1)
}

// find returns the argmax of sign*(yn - xn), or NotFound when the curve never
// leaves the diagonal on that side.
func (k *Kneedle) find(x, y []float64, sign float64) (int, error) {
	if err := validate(x, y); err != nil {
		return NotFound, err
	}

	n := len(x)
	minX, maxX := x[0], x[n-1]
	minY, maxY := y[0], y[0]
	for _, v := range y {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	if maxX == minX || maxY == minY {
		return NotFound, nil
	}

	idx, best := NotFound, 0.0
	for i := range x {
		xn := (x[i] - minX) / (maxX - minX)
		yn := (y[i] - minY) / (maxY - minY)
		if d := sign * (yn - xn); d > best {
			idx, best = i, d
		}
	}
	return idx, nil
}
