package clustering

import (
	"github.com/sanonone/kneescan/pkg/core/types"
	"golang.org/x/sync/errgroup"
)

// RegionQuery returns the indices of every point other than points[idx]
// within eps of it (distance <= eps). Brute force, O(n).
func RegionQuery[P types.Point[P]](points []P, idx int, eps float64) []int {
	var rv []int
	p := points[idx]
	for i := range points {
		if i != idx && p.DistanceTo(points[i]) <= eps {
			rv = append(rv, i)
		}
	}
	return rv
}

// neighborIndex answers region queries for a fixed point set and radius.
// Implementations may return neighbors in any order.
type neighborIndex interface {
	neighbors(idx int) []int
}

type bruteForce[P types.Point[P]] struct {
	points []P
	eps    float64
}

func (b bruteForce[P]) neighbors(idx int) []int {
	return RegionQuery(b.points, idx, b.eps)
}

// precomputed holds every neighborhood, computed up front. It is read only
// once built.
type precomputed [][]int

func (p precomputed) neighbors(idx int) []int { return p[idx] }

// precompute runs all region queries of base on a bounded pool of workers.
// It returns only when every neighborhood is known, so the expansion that
// follows never races with it.
func precompute(base neighborIndex, n, workers int) (precomputed, error) {
	out := make(precomputed, n)

	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (n + workers - 1) / workers
	for from := 0; from < n; from += chunk {
		from, to := from, min(from+chunk, n)
		g.Go(func() error {
			for i := from; i < to; i++ {
				out[i] = base.neighbors(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
