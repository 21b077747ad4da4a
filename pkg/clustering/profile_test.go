package clustering

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"testing"

	"github.com/sanonone/kneescan/pkg/core/vector"
)

func TestKNearestDistances(t *testing.T) {
	points := line(0, 1, 3, 6, 10)

	got := KNearestDistances(points, 2, 2)
	sort.Float64s(got)
	if !reflect.DeepEqual(got, []float64{2, 3}) {
		t.Errorf("idx 2: got %v, want [2 3]", got)
	}

	// The first candidates seen are the farthest ones.
	got = KNearestDistances(points, 4, 3)
	sort.Float64s(got)
	if !reflect.DeepEqual(got, []float64{4, 7, 9}) {
		t.Errorf("idx 4: got %v, want [4 7 9]", got)
	}

	got = KNearestDistances(points, 0, 4)
	sort.Float64s(got)
	if !reflect.DeepEqual(got, []float64{1, 3, 6, 10}) {
		t.Errorf("k = n-1: got %v", got)
	}
}

func TestNeighborProfile(t *testing.T) {
	points := line(0, 1, 3, 6, 10)

	profile, err := NeighborProfile(points, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{2, 1.5, 2.5, 3.5, 5.5}
	for i := range want {
		if math.Abs(profile[i]-want[i]) > 1e-12 {
			t.Errorf("profile[%d]: got %f, want %f", i, profile[i], want[i])
		}
	}

	t.Run("Parallel", func(t *testing.T) {
		many := randomPoints(21, 257)
		seq, _ := NeighborProfile(many, 4, 1)
		for _, w := range []int{2, 3, 8, 300} {
			par, err := NeighborProfile(many, 4, w)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(seq, par) {
				t.Errorf("workers=%d: parallel profile differs", w)
			}
		}
	})

	t.Run("InvalidK", func(t *testing.T) {
		for _, k := range []int{0, -1, 5, 6} {
			if _, err := NeighborProfile(points, k, 1); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("k=%d: expected ErrInvalidParameter, got %v", k, err)
			}
		}
	})
}

func TestKDistanceCurve(t *testing.T) {
	profile := []float64{3, 1, 2, 1}
	x, y := KDistanceCurve(profile)

	if !reflect.DeepEqual(y, []float64{1, 1, 2, 3}) {
		t.Errorf("y: got %v", y)
	}
	if !reflect.DeepEqual(x, []float64{0, 1, 2, 3}) {
		t.Errorf("x: got %v", x)
	}
	if !reflect.DeepEqual(profile, []float64{3, 1, 2, 1}) {
		t.Error("input profile was modified")
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{7}, 7},
		{[]float64{1, 2, 10}, 2},
		{[]float64{1, 2, 4, 10}, 3},
	}
	for _, c := range cases {
		if got := Median(c.in); got != c.want {
			t.Errorf("Median(%v): got %f, want %f", c.in, got, c.want)
		}
	}
}

func TestRegionQuery(t *testing.T) {
	points := line(0, 0.5, 1.0, 2.0, 2.9)
	if got := RegionQuery(points, 2, 1); !reflect.DeepEqual(got, []int{0, 1, 3}) {
		t.Errorf("got %v, want [0 1 3]", got)
	}
	if got := RegionQuery(points, 4, 0.5); len(got) != 0 {
		t.Errorf("isolated point: got %v", got)
	}
}

func TestPivotIndexMatchesBruteForce(t *testing.T) {
	points := randomPoints(17, 400)
	// A few exact duplicates and points sitting exactly on eps.
	points = append(points, points[0], points[1], vector.Point2D{X: points[2].X + 0.75, Y: points[2].Y})

	for _, eps := range []float64{0.25, 0.75, 2, 10} {
		idx := newPivotIndex(points, eps)
		for i := range points {
			want := RegionQuery(points, i, eps)
			got := idx.neighbors(i)
			sort.Ints(got)
			if len(want) == 0 && len(got) == 0 {
				continue
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("eps=%g point %d: pivot %v, brute force %v", eps, i, got, want)
			}
		}
	}
}

func TestLabel(t *testing.T) {
	var l Label
	if !l.IsUnvisited() || l.String() != "unvisited" {
		t.Errorf("zero label should be unvisited, got %s", l)
	}
	if id, ok := l.ClusterID(); ok || id != -1 {
		t.Errorf("unvisited ClusterID: got (%d, %v)", id, ok)
	}

	n := Noise()
	if !n.IsNoise() || n.IsUnvisited() || n.String() != "noise" {
		t.Errorf("noise label: %s", n)
	}

	m := Member(3)
	if id, ok := m.ClusterID(); !ok || id != 3 {
		t.Errorf("member ClusterID: got (%d, %v)", id, ok)
	}
	if m.IsNoise() || m.IsUnvisited() || m.String() != "cluster(3)" {
		t.Errorf("member label: %s", m)
	}
	if Member(0) == Unvisited() {
		t.Error("cluster 0 must not collide with unvisited")
	}
}
