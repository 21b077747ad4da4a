package clustering

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sanonone/kneescan/pkg/core/types"
	"github.com/sanonone/kneescan/pkg/curvature"
	"github.com/sanonone/kneescan/pkg/metrics"
)

const (
	modeAuto     = "auto"
	modeExplicit = "explicit"
)

// Result is the full outcome of a run. Clusters is what Cluster returns;
// Labels and Noise expose the per-point state for callers that need it.
type Result[P any] struct {
	RunID  string
	Eps    float64
	MinPts int
	// Knee is the index on the k-distance curve eps was read from.
	// It is curvature.NotFound for explicit runs and median fallbacks.
	Knee     int
	Labels   []Label
	Clusters []types.Cluster[P]
	Noise    []int
}

// DBSCAN groups density-connected points into clusters and leaves the rest
// as noise. An engine holds no state between runs and is safe for concurrent
// use.
type DBSCAN[P types.Point[P]] struct {
	opts options
}

// New returns a DBSCAN engine for point type P.
func New[P types.Point[P]](opts ...Option) *DBSCAN[P] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &DBSCAN[P]{opts: o}
}

// Cluster clusters points with the default options, picking eps automatically.
func Cluster[P types.Point[P]](points []P, minPts int) ([]types.Cluster[P], error) {
	return New[P]().Cluster(points, minPts)
}

// ClusterWithEps clusters points with the default options and an explicit eps.
func ClusterWithEps[P types.Point[P]](points []P, eps float64, minPts int) ([]types.Cluster[P], error) {
	return New[P]().ClusterWithEps(points, eps, minPts)
}

// Cluster picks eps from the elbow of the k-distance curve (k = minPts),
// falling back to the curve median when there is no elbow, and clusters.
func (d *DBSCAN[P]) Cluster(points []P, minPts int) ([]types.Cluster[P], error) {
	res, err := d.RunAuto(points, minPts)
	if err != nil {
		return nil, err
	}
	return res.Clusters, nil
}

// ClusterWithEps clusters with an explicit radius.
func (d *DBSCAN[P]) ClusterWithEps(points []P, eps float64, minPts int) ([]types.Cluster[P], error) {
	res, err := d.Run(points, eps, minPts)
	if err != nil {
		return nil, err
	}
	return res.Clusters, nil
}

// Run clusters with an explicit radius and returns the full result.
func (d *DBSCAN[P]) Run(points []P, eps float64, minPts int) (*Result[P], error) {
	start := time.Now()
	if minPts < 1 {
		return nil, d.fail(modeExplicit, fmt.Errorf("%w: minPts must be >= 1, got %d", ErrInvalidParameter, minPts))
	}
	if !(eps > 0) {
		return nil, d.fail(modeExplicit, fmt.Errorf("%w: eps must be > 0, got %g", ErrInvalidParameter, eps))
	}
	return d.run(points, eps, minPts, curvature.NotFound, modeExplicit, start)
}

// RunAuto is Cluster returning the full result.
func (d *DBSCAN[P]) RunAuto(points []P, minPts int) (*Result[P], error) {
	start := time.Now()
	if minPts < 1 {
		return nil, d.fail(modeAuto, fmt.Errorf("%w: minPts must be >= 1, got %d", ErrInvalidParameter, minPts))
	}
	if len(points) == 0 {
		return d.run(points, 0, minPts, curvature.NotFound, modeAuto, start)
	}

	eps, knee, err := d.EstimateEps(points, minPts)
	if err != nil {
		return nil, d.fail(modeAuto, err)
	}
	return d.run(points, eps, minPts, knee, modeAuto, start)
}

// EstimateEps builds the k-distance curve with k = minPts and returns the
// curve value at its elbow together with the elbow index. Without an elbow
// (or with too short a curve) it returns the curve median and NotFound.
func (d *DBSCAN[P]) EstimateEps(points []P, minPts int) (float64, int, error) {
	profile, err := NeighborProfile(points, minPts, d.opts.workers)
	if err != nil {
		return 0, curvature.NotFound, err
	}
	x, y := KDistanceCurve(profile)

	detector := d.opts.detector
	if detector == nil {
		shared, release := curvature.Acquire()
		defer release()
		detector = shared
	}

	knee, err := detector.FindElbow(x, y)
	if err != nil {
		if !errors.Is(err, curvature.ErrInsufficientData) {
			return 0, curvature.NotFound, fmt.Errorf("elbow detection: %w", err)
		}
		d.opts.logger.Debug("[DBSCAN] k-distance curve too short for elbow detection", "points", len(y))
		knee = curvature.NotFound
	}

	if knee == curvature.NotFound {
		metrics.KneeFallbacks.Inc()
		eps := Median(y)
		d.opts.logger.Debug("[DBSCAN] no elbow found, using curve median", "eps", eps)
		return eps, curvature.NotFound, nil
	}
	return y[knee], knee, nil
}

func (d *DBSCAN[P]) fail(mode string, err error) error {
	metrics.ClusteringRuns.WithLabelValues(mode, "error").Inc()
	return err
}

func (d *DBSCAN[P]) run(points []P, eps float64, minPts, knee int, mode string, start time.Time) (*Result[P], error) {
	res := &Result[P]{
		RunID:    uuid.New().String(),
		Eps:      eps,
		MinPts:   minPts,
		Knee:     knee,
		Clusters: []types.Cluster[P]{},
	}

	if len(points) > 0 {
		index, err := d.neighborIndex(points, eps)
		if err != nil {
			return nil, d.fail(mode, err)
		}
		labels, count := expand(len(points), minPts, index)
		res.Labels = labels
		res.Clusters, res.Noise = collect(points, labels, count)
	}

	metrics.ClusteringRuns.WithLabelValues(mode, "ok").Inc()
	metrics.ClusteringDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.ClustersFound.Observe(float64(len(res.Clusters)))
	metrics.NoisePoints.Add(float64(len(res.Noise)))
	metrics.SelectedEps.Set(eps)

	d.opts.logger.Info("[DBSCAN] run complete",
		"run_id", res.RunID,
		"mode", mode,
		"points", len(points),
		"eps", eps,
		"min_pts", minPts,
		"clusters", len(res.Clusters),
		"noise", len(res.Noise),
		"duration", time.Since(start),
	)
	return res, nil
}

func (d *DBSCAN[P]) neighborIndex(points []P, eps float64) (neighborIndex, error) {
	var base neighborIndex = bruteForce[P]{points: points, eps: eps}
	if d.opts.pivot {
		base = newPivotIndex(points, eps)
	}
	if d.opts.workers > 1 {
		return precompute(base, len(points), d.opts.workers)
	}
	return base, nil
}

// expand labels every point. labels is owned here for the whole run and is
// never shared. Returns the labels and the number of clusters created.
func expand(n, minPts int, index neighborIndex) ([]Label, int) {
	labels := make([]Label, n)
	count := 0

	for i := 0; i < n; i++ {
		if !labels[i].IsUnvisited() {
			continue
		}
		neighbors := index.neighbors(i)
		if len(neighbors) < minPts {
			// May still become a border point of a later cluster.
			labels[i] = Noise()
			continue
		}

		id := count
		count++
		labels[i] = Member(id)

		// FIFO seed queue; duplicates are no-ops once labeled.
		seeds := append(make([]int, 0, len(neighbors)), neighbors...)
		for head := 0; head < len(seeds); head++ {
			q := seeds[head]
			switch {
			case labels[q].IsNoise():
				// Border point: joins, does not expand.
				labels[q] = Member(id)
			case labels[q].IsUnvisited():
				labels[q] = Member(id)
				if nq := index.neighbors(q); len(nq) >= minPts {
					seeds = append(seeds, nq...)
				}
			}
		}
	}
	return labels, count
}

func collect[P any](points []P, labels []Label, count int) ([]types.Cluster[P], []int) {
	clusters := make([]types.Cluster[P], count)
	for i := range clusters {
		clusters[i].ID = i
	}

	var noise []int
	for i, l := range labels {
		if id, ok := l.ClusterID(); ok {
			clusters[id].Add(points[i])
			continue
		}
		noise = append(noise, i)
	}
	return clusters, noise
}

// Core reports whether points[idx] has at least minPts neighbors within eps.
func Core[P types.Point[P]](points []P, idx int, eps float64, minPts int) bool {
	return len(RegionQuery(points, idx, eps)) >= minPts
}

// LogValue lets a Result be logged as a compact group.
func (r *Result[P]) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", r.RunID),
		slog.Float64("eps", r.Eps),
		slog.Int("clusters", len(r.Clusters)),
		slog.Int("noise", len(r.Noise)),
	)
}
