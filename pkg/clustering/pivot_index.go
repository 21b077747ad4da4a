package clustering

import (
	"math"

	"github.com/sanonone/kneescan/pkg/core/types"
	"github.com/tidwall/btree"
)

// pivotIndex prunes region queries with the triangle inequality. Every point
// is keyed by its distance to a pivot; a point within eps of q must have a
// key in [key(q)-eps, key(q)+eps], so only that B-Tree range is verified.
//
// Only valid when DistanceTo is a true metric.
type pivotIndex[P types.Point[P]] struct {
	points []P
	eps    float64
	keys   []float64
	tree   *btree.BTreeG[types.Candidate]
}

// candidateLess sorts by key, using the point index as tie-breaker so equal
// keys stay distinct items.
func candidateLess(a, b types.Candidate) bool {
	if a.Distance < b.Distance {
		return true
	}
	if a.Distance > b.Distance {
		return false
	}
	return a.Id < b.Id
}

func newPivotIndex[P types.Point[P]](points []P, eps float64) *pivotIndex[P] {
	pi := &pivotIndex[P]{
		points: points,
		eps:    eps,
		keys:   make([]float64, len(points)),
		tree:   btree.NewBTreeG[types.Candidate](candidateLess),
	}
	if len(points) == 0 {
		return pi
	}

	pivot := points[0]
	for i, p := range points {
		d := pivot.DistanceTo(p)
		pi.keys[i] = d
		pi.tree.Set(types.Candidate{Id: i, Distance: d})
	}
	return pi
}

func (pi *pivotIndex[P]) neighbors(idx int) []int {
	key := pi.keys[idx]
	// Rounding in the keys must not drop a neighbor sitting exactly on eps.
	slack := 1e-9 * (1 + math.Abs(key) + pi.eps)
	lo, hi := key-pi.eps-slack, key+pi.eps+slack

	var rv []int
	p := pi.points[idx]
	pi.tree.Ascend(types.Candidate{Id: -1, Distance: lo}, func(c types.Candidate) bool {
		if c.Distance > hi {
			return false
		}
		if c.Id != idx && p.DistanceTo(pi.points[c.Id]) <= pi.eps {
			rv = append(rv, c.Id)
		}
		return true
	})
	return rv
}
