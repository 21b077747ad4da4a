// Package clustering implements DBSCAN, density based clustering with noise,
// with an automatic choice of the neighborhood radius (eps) taken from the
// elbow of the sorted k-distance curve.
//
// Basic usage:
//
//	clusters, err := clustering.Cluster(points, 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
package clustering

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned for out of range minPts, eps or k.
var ErrInvalidParameter = errors.New("invalid parameter")

type labelKind uint8

const (
	kindUnvisited labelKind = iota
	kindNoise
	kindMember
)

// Label is the clustering state of a single point: Unvisited, Noise or
// member of cluster n (n >= 0). The zero value is Unvisited.
//
// A point only moves forward: Unvisited -> Noise | Member, and
// Noise -> Member when a core point later reaches it.
type Label struct {
	kind labelKind
	id   int
}

// Unvisited returns the initial label.
func Unvisited() Label { return Label{} }

// Noise returns the label of a point outside every cluster.
func Noise() Label { return Label{kind: kindNoise} }

// Member returns the label of a point in cluster id.
func Member(id int) Label { return Label{kind: kindMember, id: id} }

func (l Label) IsUnvisited() bool { return l.kind == kindUnvisited }
func (l Label) IsNoise() bool     { return l.kind == kindNoise }

// ClusterID returns the cluster id and true for members, -1 and false otherwise.
func (l Label) ClusterID() (int, bool) {
	if l.kind != kindMember {
		return -1, false
	}
	return l.id, true
}

func (l Label) String() string {
	switch l.kind {
	case kindNoise:
		return "noise"
	case kindMember:
		return fmt.Sprintf("cluster(%d)", l.id)
	default:
		return "unvisited"
	}
}
