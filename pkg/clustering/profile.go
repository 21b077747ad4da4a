package clustering

import (
	"fmt"
	"sort"

	"github.com/sanonone/kneescan/pkg/core/types"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// KNearestDistances returns the k smallest distances from points[idx] to the
// other points, in no particular order. The caller guarantees 1 <= k < len(points).
//
// A working array is seeded with the first k non-self distances; every later
// distance smaller than the current maximum replaces it. O(n*k), no sorting.
func KNearestDistances[P types.Point[P]](points []P, idx, k int) []float64 {
	rv := make([]float64, k)
	p := points[idx]

	i, filled := 0, 0
	for filled < k {
		if i != idx {
			rv[filled] = p.DistanceTo(points[i])
			filled++
		}
		i++
	}

	maxIdx := argMax(rv)
	for ; i < len(points); i++ {
		if i == idx {
			continue
		}
		if d := p.DistanceTo(points[i]); d < rv[maxIdx] {
			rv[maxIdx] = d
			maxIdx = argMax(rv)
		}
	}
	return rv
}

func argMax(v []float64) int {
	m := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[m] {
			m = i
		}
	}
	return m
}

// NeighborProfile returns, for every point, the mean distance to its k nearest
// neighbors. With workers > 1 the points are split in chunks profiled in
// parallel; the result is the same as the sequential one.
func NeighborProfile[P types.Point[P]](points []P, k, workers int) ([]float64, error) {
	n := len(points)
	if k < 1 || k >= n {
		return nil, fmt.Errorf("%w: k must be in [1, %d), got %d", ErrInvalidParameter, n, k)
	}

	profile := make([]float64, n)
	profileRange := func(from, to int) {
		for i := from; i < to; i++ {
			profile[i] = stat.Mean(KNearestDistances(points, i, k), nil)
		}
	}

	if workers <= 1 {
		profileRange(0, n)
		return profile, nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (n + workers - 1) / workers
	for from := 0; from < n; from += chunk {
		from, to := from, min(from+chunk, n)
		g.Go(func() error {
			profileRange(from, to)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profile, nil
}

// KDistanceCurve sorts a copy of the profile ascending (y) and pairs it with
// its ranks (x).
func KDistanceCurve(profile []float64) (x, y []float64) {
	y = make([]float64, len(profile))
	copy(y, profile)
	sort.Float64s(y)

	x = make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	return x, y
}

// Median returns the median of an ascending slice: the middle value, or the
// mean of the two middle values for even lengths. Median of nil is 0.
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
