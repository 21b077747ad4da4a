// Package distance provides the distance kernels used by the vector point types.
// It supports the Euclidean and Cosine metrics on float32 and float16 vectors.
//
// The float32 kernels come in two flavours, a pure Go reference and a Gonum
// (BLAS/SIMD) version. The fastest one available on the running CPU is picked
// at init time through runtime CPU detection.
package distance

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/klauspost/cpuid/v2"
	"github.com/x448/float16"
	"gonum.org/v1/gonum/blas/gonum"
)

func init() {
	// Gonum handles SIMD dispatch internally; only worth it when the CPU
	// has wide vector units.
	if cpuid.CPU.Has(cpuid.AVX2) {
		float32Funcs[Euclidean] = euclideanGonum
		float32Funcs[Cosine] = cosineGonum
		log.Println("kneescan distance engine: using GONUM implementation for float32.")
		return
	}
	log.Println("kneescan distance engine: using PURE GO implementation for float32.")
}

// --- Public Types ---

// DistanceMetric defines the type of distance calculation to perform.
type DistanceMetric string

// PrecisionType defines the data type used for vector storage and calculations.
type PrecisionType string

const (
	// Euclidean is the L2 distance. It satisfies the triangle inequality.
	Euclidean DistanceMetric = "euclidean"
	// Cosine is the cosine distance (1 - cosine similarity).
	Cosine DistanceMetric = "cosine"

	// Float32 represents single-precision floating-point numbers.
	Float32 PrecisionType = "float32"
	// Float16 represents half-precision floating-point numbers stored as raw bits.
	Float16 PrecisionType = "float16"
)

// ErrLengthMismatch is returned when two vectors have different dimensions.
var ErrLengthMismatch = errors.New("vectors must have the same length")

type DistanceFuncF32 func(v1, v2 []float32) (float64, error)
type DistanceFuncF16 func(v1, v2 []uint16) (float64, error)

// --- WORKSPACE POOL ---

// diffWorkspace is a pool of float32 slices borrowed by the Gonum Euclidean
// kernel for the intermediate difference vector.
var diffWorkspace = sync.Pool{
	New: func() interface{} {
		s := make([]float32, 256)
		return &s
	},
}

// --- REFERENCE IMPLEMENTATIONS (PURE GO) ---

func euclideanGo(v1, v2 []float32) (float64, error) {
	if len(v1) != len(v2) {
		return 0, ErrLengthMismatch
	}
	var sum float64
	for i := range v1 {
		diff := float64(v1[i] - v2[i])
		sum += diff * diff
	}
	return math.Sqrt(sum), nil
}

func cosineGo(v1, v2 []float32) (float64, error) {
	if len(v1) != len(v2) {
		return 0, ErrLengthMismatch
	}
	var dot, n1, n2 float64
	for i := range v1 {
		a, b := float64(v1[i]), float64(v2[i])
		dot += a * b
		n1 += a * a
		n2 += b * b
	}
	return cosineFromParts(dot, n1, n2), nil
}

func euclideanGoFloat16(v1, v2 []uint16) (float64, error) {
	if len(v1) != len(v2) {
		return 0, ErrLengthMismatch
	}
	var sum float64
	for i := range v1 {
		f1 := float16.Frombits(v1[i]).Float32()
		f2 := float16.Frombits(v2[i]).Float32()
		diff := float64(f1 - f2)
		sum += diff * diff
	}
	return math.Sqrt(sum), nil
}

func cosineGoFloat16(v1, v2 []uint16) (float64, error) {
	if len(v1) != len(v2) {
		return 0, ErrLengthMismatch
	}
	var dot, n1, n2 float64
	for i := range v1 {
		a := float64(float16.Frombits(v1[i]).Float32())
		b := float64(float16.Frombits(v2[i]).Float32())
		dot += a * b
		n1 += a * a
		n2 += b * b
	}
	return cosineFromParts(dot, n1, n2), nil
}

// cosineFromParts turns a dot product and two squared norms into a distance.
// Two zero vectors are identical (0); a zero and a non-zero vector are
// maximally dissimilar for a non-negative distance (1).
func cosineFromParts(dot, n1, n2 float64) float64 {
	if n1 == 0 && n2 == 0 {
		return 0
	}
	if n1 == 0 || n2 == 0 {
		return 1
	}
	d := 1.0 - dot/(math.Sqrt(n1)*math.Sqrt(n2))
	// Rounding can push identical vectors slightly below zero.
	if d < 0 {
		return 0
	}
	return d
}

// --- Gonum-based Implementations (for float32) ---
var gonumEngine = gonum.Implementation{}

func euclideanGonum(v1, v2 []float32) (float64, error) {
	n := len(v1)
	if n != len(v2) {
		return 0, ErrLengthMismatch
	}

	diffPtr := diffWorkspace.Get().(*[]float32)
	defer diffWorkspace.Put(diffPtr)

	if cap(*diffPtr) < n {
		*diffPtr = make([]float32, n)
	}
	diff := (*diffPtr)[:n]

	copy(diff, v1)
	gonumEngine.Saxpy(n, -1, v2, 1, diff, 1)
	return float64(gonumEngine.Snrm2(n, diff, 1)), nil
}

func cosineGonum(v1, v2 []float32) (float64, error) {
	n := len(v1)
	if n != len(v2) {
		return 0, ErrLengthMismatch
	}
	dot := float64(gonumEngine.Sdot(n, v1, 1, v2, 1))
	n1 := float64(gonumEngine.Sdot(n, v1, 1, v1, 1))
	n2 := float64(gonumEngine.Sdot(n, v2, 1, v2, 1))
	return cosineFromParts(dot, n1, n2), nil
}

// --- Function Catalogs and Dispatchers ---

var float32Funcs = map[DistanceMetric]DistanceFuncF32{
	Euclidean: euclideanGo,
	Cosine:    cosineGo,
}

var float16Funcs = map[DistanceMetric]DistanceFuncF16{
	Euclidean: euclideanGoFloat16,
	Cosine:    cosineGoFloat16,
}

// GetFloat32Func returns the distance function for a metric at float32 precision.
func GetFloat32Func(metric DistanceMetric) (DistanceFuncF32, error) {
	fn, ok := float32Funcs[metric]
	if !ok {
		return nil, fmt.Errorf("metric '%s' not supported for float32 precision", metric)
	}
	return fn, nil
}

// GetFloat16Func returns the distance function for a metric at float16 precision.
func GetFloat16Func(metric DistanceMetric) (DistanceFuncF16, error) {
	fn, ok := float16Funcs[metric]
	if !ok {
		return nil, fmt.Errorf("metric '%s' not supported for float16 precision", metric)
	}
	return fn, nil
}

// IsMetric reports whether the metric satisfies the triangle inequality.
// Cosine distance does not, so it cannot back a pivot based neighbor index.
func IsMetric(m DistanceMetric) bool {
	return m == Euclidean
}
