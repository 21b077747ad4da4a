package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/kneescan/pkg/clustering"
	"github.com/sanonone/kneescan/pkg/config"
	"github.com/sanonone/kneescan/pkg/core/distance"
	"github.com/sanonone/kneescan/pkg/core/types"
	"github.com/sanonone/kneescan/pkg/core/vector"
	"github.com/sanonone/kneescan/pkg/curvature"
	"github.com/sanonone/kneescan/pkg/dataset"
)

var errTooManyPoints = errors.New("too many points")

type Service struct {
	cfg    config.Config
	logger *slog.Logger
}

func NewService(cfg config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, logger: logger}
}

// request is the part of a tool call that selects points and engine settings,
// with empty fields taken from the configuration.
type request struct {
	points    [][]float32
	minPts    int
	metric    distance.DistanceMetric
	precision distance.PrecisionType
}

// loadPoints returns the inline points, or the rows of the 2D file at path
// when none are given.
func loadPoints(points [][]float32, path string) ([][]float32, error) {
	if len(points) > 0 || path == "" {
		return points, nil
	}
	rows, err := dataset.LoadPoints2DFile(path)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, len(rows))
	for i, p := range rows {
		out[i] = []float32{float32(p.X), float32(p.Y)}
	}
	return out, nil
}

func (s *Service) resolve(points [][]float32, path string, minPts int, metric, precision string) (request, error) {
	cc := s.cfg.Clustering
	points, err := loadPoints(points, path)
	if err != nil {
		return request{}, err
	}
	r := request{
		points:    points,
		minPts:    minPts,
		metric:    distance.DistanceMetric(metric),
		precision: distance.PrecisionType(precision),
	}
	if r.minPts == 0 {
		r.minPts = cc.MinPts
	}
	if r.metric == "" {
		r.metric = distance.DistanceMetric(cc.Metric)
	}
	if r.precision == "" {
		r.precision = distance.PrecisionType(cc.Precision)
	}

	if limit := s.cfg.Server.MaxPoints; limit > 0 && len(points) > limit {
		return r, fmt.Errorf("%w: %d > %d", errTooManyPoints, len(points), limit)
	}
	if cc.PivotIndex && !distance.IsMetric(r.metric) {
		return r, fmt.Errorf("metric '%s' cannot be used with the pivot index", r.metric)
	}
	for i := 1; i < len(points); i++ {
		if len(points[i]) != len(points[0]) {
			return r, fmt.Errorf("point %d has dimension %d, expected %d", i, len(points[i]), len(points[0]))
		}
	}
	return r, nil
}

func (s *Service) engineOptions() ([]clustering.Option, error) {
	opts, err := s.cfg.Clustering.Options()
	if err != nil {
		return nil, err
	}
	return append(opts, clustering.WithLogger(s.logger)), nil
}

// withPoints builds the points for the requested precision and calls the
// matching function with an engine for that point type.
func withPoints[R any](r request, opts []clustering.Option,
	f32 func(*clustering.DBSCAN[*vector.Float32], []*vector.Float32) (R, error),
	f16 func(*clustering.DBSCAN[*vector.Float16], []*vector.Float16) (R, error),
) (R, error) {
	var zero R
	switch r.precision {
	case distance.Float32:
		points := make([]*vector.Float32, len(r.points))
		for i, data := range r.points {
			p, err := vector.NewFloat32(fmt.Sprintf("p%d", i), data, r.metric)
			if err != nil {
				return zero, err
			}
			points[i] = p
		}
		return f32(clustering.New[*vector.Float32](opts...), points)
	case distance.Float16:
		points := make([]*vector.Float16, len(r.points))
		for i, data := range r.points {
			p, err := vector.NewFloat16(fmt.Sprintf("p%d", i), data, r.metric)
			if err != nil {
				return zero, err
			}
			points[i] = p
		}
		return f16(clustering.New[*vector.Float16](opts...), points)
	default:
		return zero, fmt.Errorf("precision '%s' not supported", r.precision)
	}
}

func toClusterResult[P any](res *clustering.Result[P]) ClusterResult {
	out := ClusterResult{
		RunID:    res.RunID,
		Eps:      res.Eps,
		Knee:     res.Knee,
		Clusters: make([][]int, len(res.Clusters)),
		Noise:    []int{},
	}
	for i := range out.Clusters {
		out.Clusters[i] = []int{}
	}
	for i, l := range res.Labels {
		if id, ok := l.ClusterID(); ok {
			out.Clusters[id] = append(out.Clusters[id], i)
		}
	}
	out.Noise = append(out.Noise, res.Noise...)
	return out
}

func runCluster[P types.Point[P]](db *clustering.DBSCAN[P], points []P, eps float64, minPts int) (ClusterResult, error) {
	var (
		res *clustering.Result[P]
		err error
	)
	if eps > 0 {
		res, err = db.Run(points, eps, minPts)
	} else {
		res, err = db.RunAuto(points, minPts)
	}
	if err != nil {
		return ClusterResult{}, err
	}
	return toClusterResult(res), nil
}

func runEstimate[P types.Point[P]](db *clustering.DBSCAN[P], points []P, minPts int) (EstimateEpsResult, error) {
	eps, knee, err := db.EstimateEps(points, minPts)
	if err != nil {
		return EstimateEpsResult{}, err
	}
	return EstimateEpsResult{Eps: eps, Knee: knee, Fallback: knee == curvature.NotFound}, nil
}

// --- Tool Handlers ---

func (s *Service) Cluster(ctx context.Context, req *mcp.CallToolRequest, args ClusterArgs) (*mcp.CallToolResult, ClusterResult, error) {
	r, err := s.resolve(args.Points, args.Path, args.MinPts, args.Metric, args.Precision)
	if err != nil {
		return nil, ClusterResult{}, err
	}
	eps := args.Eps
	if eps == 0 {
		eps = s.cfg.Clustering.Eps
	}
	if eps < 0 {
		return nil, ClusterResult{}, fmt.Errorf("%w: eps must be > 0, got %g", clustering.ErrInvalidParameter, eps)
	}

	opts, err := s.engineOptions()
	if err != nil {
		return nil, ClusterResult{}, err
	}

	out, err := withPoints(r, opts,
		func(db *clustering.DBSCAN[*vector.Float32], p []*vector.Float32) (ClusterResult, error) {
			return runCluster(db, p, eps, r.minPts)
		},
		func(db *clustering.DBSCAN[*vector.Float16], p []*vector.Float16) (ClusterResult, error) {
			return runCluster(db, p, eps, r.minPts)
		},
	)
	if err != nil {
		s.logger.Warn("[MCP] cluster_points failed", "error", err)
		return nil, ClusterResult{}, err
	}
	return nil, out, nil
}

func (s *Service) EstimateEps(ctx context.Context, req *mcp.CallToolRequest, args EstimateEpsArgs) (*mcp.CallToolResult, EstimateEpsResult, error) {
	r, err := s.resolve(args.Points, args.Path, args.MinPts, args.Metric, args.Precision)
	if err != nil {
		return nil, EstimateEpsResult{}, err
	}
	opts, err := s.engineOptions()
	if err != nil {
		return nil, EstimateEpsResult{}, err
	}

	out, err := withPoints(r, opts,
		func(db *clustering.DBSCAN[*vector.Float32], p []*vector.Float32) (EstimateEpsResult, error) {
			return runEstimate(db, p, r.minPts)
		},
		func(db *clustering.DBSCAN[*vector.Float16], p []*vector.Float16) (EstimateEpsResult, error) {
			return runEstimate(db, p, r.minPts)
		},
	)
	if err != nil {
		return nil, EstimateEpsResult{}, err
	}
	return nil, out, nil
}

func (s *Service) FindKnee(ctx context.Context, req *mcp.CallToolRequest, args FindKneeArgs) (*mcp.CallToolResult, FindKneeResult, error) {
	strategy := args.Strategy
	if strategy == "" {
		strategy = s.cfg.Clustering.Curvature
	}
	det, err := curvature.ByName(strategy)
	if err != nil {
		return nil, FindKneeResult{}, err
	}

	var idx int
	if args.Elbow {
		idx, err = det.FindElbow(args.X, args.Y)
	} else {
		idx, err = det.FindKnee(args.X, args.Y)
	}
	if err != nil {
		return nil, FindKneeResult{}, err
	}
	return nil, FindKneeResult{Index: idx, Found: idx != curvature.NotFound}, nil
}
