package curvature

import (
	"errors"
	"math"
	"testing"
)

func ranks(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}

// hockeyStick is flat up to bend, then rises linearly with slope.
func hockeyStick(n, bend int, slope float64) []float64 {
	y := make([]float64, n)
	for i := bend + 1; i < n; i++ {
		y[i] = float64(i-bend) * slope
	}
	return y
}

func TestSegment(t *testing.T) {
	x := ranks(6)
	y := make([]float64, len(x))
	for i := range x {
		y[i] = 2*x[i] + 1
	}

	s := FitSegment(x, y, 0, len(x))
	if math.Abs(s.Slope-2) > 1e-9 || math.Abs(s.Intercept-1) > 1e-9 {
		t.Fatalf("got y = %f + %f x, want y = 1 + 2x", s.Intercept, s.Slope)
	}
	if math.Abs(s.R2-1) > 1e-9 {
		t.Errorf("R2: got %f, want 1", s.R2)
	}
	if r := s.RMSE(x, y, 0, len(x)); r > 1e-9 {
		t.Errorf("RMSE of exact fit: got %f", r)
	}
	if v := s.Solve(10); math.Abs(v-21) > 1e-9 {
		t.Errorf("Solve(10): got %f, want 21", v)
	}

	t.Run("Angles", func(t *testing.T) {
		flat := Segment{Slope: 0}
		diag := Segment{Slope: 1}
		anti := Segment{Slope: -1}
		if a := flat.Angle(diag); math.Abs(a-45) > 1e-9 {
			t.Errorf("flat vs diagonal: got %f, want 45", a)
		}
		if a := diag.Angle(anti); a != 90 {
			t.Errorf("perpendicular: got %f, want 90", a)
		}
		if a := diag.Angle(diag); a != 0 {
			t.Errorf("parallel: got %f, want 0", a)
		}
		if a, b := flat.Angle(diag), diag.Angle(flat); a != b {
			t.Errorf("angle is not symmetric: %f vs %f", a, b)
		}
	})
}

func TestAmethodHockeyStick(t *testing.T) {
	x := ranks(11)
	y := hockeyStick(11, 5, 10)

	a := NewAmethod()
	idx, err := a.FindElbow(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 5 {
		t.Errorf("elbow: got %d, want 5", idx)
	}

	knee, _ := a.FindKnee(x, y)
	if knee != idx {
		t.Errorf("knee and elbow should agree: %d vs %d", knee, idx)
	}
}

func TestAmethodRefinement(t *testing.T) {
	// Long enough to trigger at least one narrowed pass (2*bend >= MinCutoff).
	x := ranks(100)
	y := hockeyStick(100, 20, 5)

	idx, err := NewAmethod().FindElbow(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if idx < 19 || idx > 21 {
		t.Errorf("elbow: got %d, want 20±1", idx)
	}
}

func TestAmethodSharpBend(t *testing.T) {
	x := ranks(10)
	y := []float64{0, 1, 2, 3, 4, 20, 21, 22, 23, 24}

	idx, err := NewAmethod().FindElbow(x, y)
	if err != nil {
		t.Fatal(err)
	}
	// Splits 2 and 3 give identical right-hand slopes on this curve, so the
	// winner sits on the rising edge just before the jump.
	if idx < 2 || idx > 5 {
		t.Errorf("elbow: got %d, want an index on the bend", idx)
	}
}

func TestAmethodNoBend(t *testing.T) {
	a := NewAmethod()

	t.Run("Constant", func(t *testing.T) {
		y := make([]float64, 30)
		for i := range y {
			y[i] = 3.5
		}
		idx, err := a.FindElbow(ranks(30), y)
		if err != nil {
			t.Fatal(err)
		}
		if idx != NotFound {
			t.Errorf("constant curve: got %d, want NotFound", idx)
		}
	})

	t.Run("Linear", func(t *testing.T) {
		x := ranks(50)
		idx, err := a.FindElbow(x, x)
		if err != nil {
			t.Fatal(err)
		}
		if idx < NotFound || idx >= len(x) {
			t.Errorf("linear curve: index %d out of range", idx)
		}
	})
}

func TestInvalidInput(t *testing.T) {
	detectors := map[string]Detector{
		StrategyAmethod: NewAmethod(),
		StrategyKneedle: NewKneedle(),
	}
	for name, d := range detectors {
		t.Run(name, func(t *testing.T) {
			if _, err := d.FindElbow([]float64{0, 1}, []float64{0, 1}); !errors.Is(err, ErrInsufficientData) {
				t.Errorf("two points: expected ErrInsufficientData, got %v", err)
			}
			if _, err := d.FindKnee(nil, nil); !errors.Is(err, ErrInsufficientData) {
				t.Errorf("empty: expected ErrInsufficientData, got %v", err)
			}
			if _, err := d.FindElbow(ranks(5), ranks(4)); !errors.Is(err, ErrLengthMismatch) {
				t.Errorf("mismatch: expected ErrLengthMismatch, got %v", err)
			}
		})
	}
}

func TestKneedle(t *testing.T) {
	k := NewKneedle()

	t.Run("ConcaveKnee", func(t *testing.T) {
		y := []float64{0, 5, 8, 9, 9.5, 9.8, 10}
		idx, err := k.FindKnee(ranks(len(y)), y)
		if err != nil {
			t.Fatal(err)
		}
		if idx != 2 {
			t.Errorf("knee: got %d, want 2", idx)
		}
	})

	t.Run("ConvexElbow", func(t *testing.T) {
		idx, err := k.FindElbow(ranks(11), hockeyStick(11, 5, 10))
		if err != nil {
			t.Fatal(err)
		}
		if idx != 5 {
			t.Errorf("elbow: got %d, want 5", idx)
		}
	})

	t.Run("Constant", func(t *testing.T) {
		idx, err := k.FindElbow(ranks(4), []float64{1, 1, 1, 1})
		if err != nil || idx != NotFound {
			t.Errorf("got (%d, %v), want (NotFound, nil)", idx, err)
		}
	})
}

func TestByName(t *testing.T) {
	d, err := ByName(" AMethod ")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.(*Amethod); !ok {
		t.Errorf("got %T, want *Amethod", d)
	}
	if d, _ := ByName("kneedle"); d == nil {
		t.Error("kneedle strategy missing")
	}
	if _, err := ByName("menger"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
