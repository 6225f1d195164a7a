// Package testutil provides testing utilities for knnmeans.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source, synthetic labeled
// datasets and an exact nearest-neighbor reference.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	data := rng.LabeledBlobs(300, 16, 3, 4.0)  // 3 labels, 16-d pixels
//	vec := rng.Pixels(784)                     // uniform pixels 0-255
//
// # Exact Search (Ground Truth)
//
//	labels := testutil.ExactNearestLabels(query, data, k)
package testutil
