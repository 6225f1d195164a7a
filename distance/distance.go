package distance

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	// Euclidean is the L2 distance. It is the zero value and the default.
	Euclidean Metric = iota
	// Manhattan is the L1 distance.
	Manhattan
)

func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMetric parses a metric name. The empty string selects Euclidean.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "euclidean", "l2":
		return Euclidean, nil
	case "manhattan", "l1":
		return Manhattan, nil
	default:
		return Euclidean, fmt.Errorf("unknown metric %q", s)
	}
}

// ErrDimensionMismatch is returned when two vectors of different length are compared.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Func is a function type for distance calculation.
// Assumes vectors are the same length (caller's responsibility).
type Func func(a, b []float64) float64

// EuclideanDistance calculates the L2 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func EuclideanDistance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// ManhattanDistance calculates the L1 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func ManhattanDistance(a, b []float64) float64 {
	return floats.Distance(a, b, 1)
}

// Provider returns the distance function for the given metric.
// Unknown metrics fall back to Euclidean.
func Provider(m Metric) Func {
	if m == Manhattan {
		return ManhattanDistance
	}
	return EuclideanDistance
}

// Between returns the distance between a and b under m.
func Between(a, b []float64, m Metric) (float64, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	return Provider(m)(a, b), nil
}
