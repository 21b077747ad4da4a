// Package types holds the small set of types shared by the clustering engine,
// the point implementations and the tool server.
package types

// Point is the only capability the clustering engine requires from a data point.
// DistanceTo must be symmetric, non-negative and return 0 for the point itself.
type Point[P any] interface {
	DistanceTo(other P) float64
}

// Cluster is an unordered group of points that share the same cluster id.
// Clusters produced by one run are pairwise disjoint.
type Cluster[P any] struct {
	ID     int
	Points []P
}

// Len returns the number of points in the cluster.
func (c Cluster[P]) Len() int { return len(c.Points) }

// Add appends a point to the cluster.
func (c *Cluster[P]) Add(p P) { c.Points = append(c.Points, p) }

// Candidate pairs a point index with a distance. Used by the neighbor
// profiling and region query phases.
type Candidate struct {
	Id       int
	Distance float64
}
