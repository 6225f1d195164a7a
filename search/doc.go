// Package search implements exact (brute-force) nearest-neighbor search over
// labeled vectors.
//
// Every call is independent: no ordering is cached between calls, so the
// candidate set may grow or shrink freely between queries.
//
//	neighbors, err := search.Nearest(5, training, sample.Vector, distance.Euclidean)
//	for _, n := range neighbors {
//	    fmt.Println(n.Vector.Label, n.Distance)
//	}
//
// Neighbors with exactly equal distances keep the relative order of the
// candidate slice.
package search
