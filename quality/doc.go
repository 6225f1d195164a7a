// Package quality scores k-means results with the C-index and the
// Goodman–Kruskal index.
//
// Both indices are computed over a random sample of the clustered points
// because enumerating all pairs (C-index) or all 4-point tuples
// (Goodman–Kruskal) of a full dataset is infeasible. Sample sizes and the
// reduced-time mode are part of Config; there is no global switch.
//
//	cfg := quality.DefaultConfig()
//	cfg.Rand = src
//	c, err := quality.CIndex(clusters, cfg)          // lower is better
//	g, err := quality.GoodmanKruskal(clusters, cfg)  // in [-1, 1], higher is better
//
// A sample without within-cluster pairs cannot be scored; the functions
// return an error wrapping ErrEmptyPartition instead of NaN or Inf.
package quality
