package clustering

import (
	"log/slog"

	"github.com/sanonone/kneescan/pkg/curvature"
)

type options struct {
	detector curvature.Detector
	logger   *slog.Logger
	workers  int
	pivot    bool
}

func defaultOptions() options {
	return options{
		logger:  slog.Default(),
		workers: 1,
	}
}

// Option configures a DBSCAN engine.
type Option func(*options)

// WithDetector sets the strategy used to find the elbow of the k-distance
// curve. By default the process-wide shared Amethod detector is used.
func WithDetector(d curvature.Detector) Option {
	return func(o *options) { o.detector = d }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers runs the neighbor profiling and region query phases on n
// goroutines. Expansion stays sequential. Values below 2 disable it.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithPivotIndex prunes region queries with a distance-to-pivot B-Tree.
// Only enable it when the point distance satisfies the triangle inequality
// (e.g. Euclidean, not cosine).
func WithPivotIndex() Option {
	return func(o *options) { o.pivot = true }
}
