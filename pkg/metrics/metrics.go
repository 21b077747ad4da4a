package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global clustering metrics, registered on the default registry by promauto.

var (
	// ClusteringRuns counts runs by eps mode ("auto", "explicit") and outcome ("ok", "error").
	ClusteringRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kneescan_clustering_runs_total",
			Help: "Total number of DBSCAN runs",
		},
		[]string{"mode", "outcome"},
	)

	// ClusteringDuration measures a whole run, eps selection included.
	ClusteringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "kneescan_clustering_duration_seconds",
			Help: "Duration of DBSCAN runs in seconds",
			// From a handful of points up to the quadratic tail of large inputs.
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"mode"},
	)

	// ClustersFound tracks how many clusters a run produces.
	ClustersFound = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kneescan_clusters_found",
			Help:    "Number of clusters produced by a run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// NoisePoints counts points left out of every cluster.
	NoisePoints = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kneescan_noise_points_total",
			Help: "Total number of points labeled as noise",
		},
	)

	// SelectedEps is the radius used by the last run.
	SelectedEps = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kneescan_selected_eps",
			Help: "Neighborhood radius used by the most recent run",
		},
	)

	// KneeFallbacks counts automatic runs where no knee was found and the
	// median of the k-distance curve was used instead.
	KneeFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kneescan_knee_fallbacks_total",
			Help: "Automatic eps selections that fell back to the curve median",
		},
	)
)
