// Package vector provides ready-made point types for the clustering engine:
// plain 2D points and float32/float16 embedding vectors backed by the
// distance package kernels.
package vector

import (
	"fmt"

	"github.com/sanonone/kneescan/pkg/core/distance"
	"github.com/sanonone/kneescan/pkg/core/types"
	"github.com/x448/float16"
	"gonum.org/v1/gonum/floats"
)

// Point2D is a point in the plane with Euclidean distance.
type Point2D struct {
	X, Y float64
}

// DistanceTo returns the Euclidean distance between p and o.
func (p Point2D) DistanceTo(o Point2D) float64 {
	return floats.Distance([]float64{p.X, p.Y}, []float64{o.X, o.Y}, 2)
}

func (p Point2D) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Float32 is an embedding vector compared with a fixed distance kernel.
// Vectors that are clustered together must share the same dimension and metric.
type Float32 struct {
	ID     string
	Data   []float32
	distFn distance.DistanceFuncF32
}

// NewFloat32 binds data to the kernel for metric.
func NewFloat32(id string, data []float32, metric distance.DistanceMetric) (*Float32, error) {
	fn, err := distance.GetFloat32Func(metric)
	if err != nil {
		return nil, err
	}
	return &Float32{ID: id, Data: data, distFn: fn}, nil
}

// DistanceTo returns the configured distance between v and o. A dimension
// mismatch is a programming error at this level and panics.
func (v *Float32) DistanceTo(o *Float32) float64 {
	d, err := v.distFn(v.Data, o.Data)
	if err != nil {
		panic(fmt.Sprintf("vector %s vs %s: %v", v.ID, o.ID, err))
	}
	return d
}

// Float16 stores a vector as half-precision bits, halving memory at the cost
// of precision.
type Float16 struct {
	ID     string
	Data   []uint16
	distFn distance.DistanceFuncF16
}

// NewFloat16 quantizes data to float16 and binds it to the kernel for metric.
func NewFloat16(id string, data []float32, metric distance.DistanceMetric) (*Float16, error) {
	fn, err := distance.GetFloat16Func(metric)
	if err != nil {
		return nil, err
	}
	bits := make([]uint16, len(data))
	for i, f := range data {
		bits[i] = float16.Fromfloat32(f).Bits()
	}
	return &Float16{ID: id, Data: bits, distFn: fn}, nil
}

// Float32s decodes the stored bits back to float32.
func (v *Float16) Float32s() []float32 {
	out := make([]float32, len(v.Data))
	for i, b := range v.Data {
		out[i] = float16.Frombits(b).Float32()
	}
	return out
}

// DistanceTo returns the configured distance between v and o.
func (v *Float16) DistanceTo(o *Float16) float64 {
	d, err := v.distFn(v.Data, o.Data)
	if err != nil {
		panic(fmt.Sprintf("vector %s vs %s: %v", v.ID, o.ID, err))
	}
	return d
}

var (
	_ types.Point[Point2D]  = Point2D{}
	_ types.Point[*Float32] = (*Float32)(nil)
	_ types.Point[*Float16] = (*Float16)(nil)
)
