// Package curvature detects the knee or elbow of a monotonic curve, the point
// where the curve bends the most. The clustering engine uses it to pick the
// neighborhood radius from a sorted k-distance profile.
//
// Two strategies are provided. Amethod fits two least-squares lines around
// every candidate split and keeps the split whose lines meet closest to a
// right angle, refining the search window towards the bend. Kneedle measures
// the distance of the normalized curve from its chord.
package curvature

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// NotFound is returned as index when a curve shows no bend.
// It is an expected outcome, not an error.
const NotFound = -1

var (
	// ErrInsufficientData is returned when a curve (or a refinement window)
	// has fewer than three samples.
	ErrInsufficientData = errors.New("curvature: at least 3 points are required")
	// ErrLengthMismatch is returned when x and y differ in length.
	ErrLengthMismatch = errors.New("curvature: x and y must have the same length")
)

// Detector finds the point of maximum curvature of a curve sampled at
// strictly increasing x. Both methods return an index in [0, len(x)) or NotFound.
type Detector interface {
	FindKnee(x, y []float64) (int, error)
	FindElbow(x, y []float64) (int, error)
}

func validate(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 3 {
		return fmt.Errorf("%w: got %d", ErrInsufficientData, len(x))
	}
	return nil
}

// --- Strategy catalog ---

const (
	StrategyAmethod = "amethod"
	StrategyKneedle = "kneedle"
)

var strategies = map[string]func() Detector{
	StrategyAmethod: func() Detector { return NewAmethod() },
	StrategyKneedle: func() Detector { return NewKneedle() },
}

// ByName returns a new detector for the named strategy (case insensitive).
func ByName(name string) (Detector, error) {
	ctor, ok := strategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("curvature strategy '%s' not supported", name)
	}
	return ctor(), nil
}

// --- Shared instance ---

// The shared Amethod is created on first Acquire and dropped when the last
// holder releases it. gen invalidates releases issued before a Shutdown.
var shared struct {
	mu      sync.Mutex
	inst    *Amethod
	refs    int
	gen     uint64
	created int
}

// Acquire returns the process-wide Amethod detector together with a release
// function. The instance is created lazily and is safe for concurrent use.
// Callers must call release exactly once when they are done; extra calls are
// ignored.
func Acquire() (Detector, func()) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.inst == nil {
		shared.inst = NewAmethod()
		shared.created++
	}
	shared.refs++
	gen := shared.gen
	inst := shared.inst

	var once sync.Once
	return inst, func() {
		once.Do(func() { releaseShared(gen) })
	}
}

func releaseShared(gen uint64) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if gen != shared.gen || shared.refs == 0 {
		return
	}
	shared.refs--
	if shared.refs == 0 {
		shared.inst = nil
	}
}

// Shutdown drops the shared detector regardless of outstanding holders.
// Holders keep a usable instance (detectors are stateless); their later
// releases become no-ops.
func Shutdown() {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	shared.inst = nil
	shared.refs = 0
	shared.gen++
}
