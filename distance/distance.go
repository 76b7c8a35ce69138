// Package distance provides public API for row distance calculations used by
// neighbor-based imputation.
package distance

import (
	"fmt"
	"math"
)

// SquaredEuclidean calculates the squared Euclidean distance between two rows.
// Assumes rows are the same length (caller's responsibility).
func SquaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Euclidean calculates the Euclidean distance between two rows.
// Assumes rows are the same length (caller's responsibility).
func Euclidean(a, b []float64) float64 {
	return math.Sqrt(SquaredEuclidean(a, b))
}

// Manhattan calculates the Manhattan (L1) distance between two rows.
// Assumes rows are the same length (caller's responsibility).
func Manhattan(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// Metric represents the distance metric used for row comparison.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricSquaredEuclidean
	MetricManhattan
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "Euclidean"
	case MetricSquaredEuclidean:
		return "SquaredEuclidean"
	case MetricManhattan:
		return "Manhattan"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float64) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricEuclidean:
		return Euclidean, nil
	case MetricSquaredEuclidean:
		return SquaredEuclidean, nil
	case MetricManhattan:
		return Manhattan, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
