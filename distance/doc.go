// Package distance provides the vector distance functions used by the
// nearest-neighbor search, k-means and cluster-quality packages.
//
// # Supported Metrics
//
//   - Euclidean: sqrt(sum((a[i]-b[i])^2)) (default)
//   - Manhattan: sum(|a[i]-b[i]|)
//
// # Usage
//
//	d, err := distance.Between(a, b, distance.Euclidean)
//	fn := distance.Provider(distance.Manhattan)
//
// Both functions are backed by gonum's floats.Distance and accumulate in
// float64, so 784 squared pixel differences cannot overflow.
package distance
