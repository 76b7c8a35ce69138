// Package distance provides row distance calculations for neighbor-based
// imputation.
//
// Distances are computed over the comparison columns of two rows, typically
// after the columns have been standardized so no single column dominates.
//
// # Supported Metrics
//
//   - MetricEuclidean: Euclidean distance (default)
//   - MetricSquaredEuclidean: squared Euclidean distance (same ordering, no sqrt)
//   - MetricManhattan: Manhattan (L1) distance
//
// # Usage
//
//	dist := distance.Euclidean(a, b)
//	f, _ := distance.Provider(distance.MetricManhattan)
//	dist = f(a, b)
package distance
