// Package classify implements k-nearest-neighbor classification with
// majority voting and per-k accuracy reporting.
//
// Several k values are evaluated in one pass: each sample is searched once
// (every training vector sorted by distance) and every k takes a prefix of
// that ordering.
//
//	report, err := classify.Classify(ctx, training, samples, []int{1, 3, 5},
//	    classify.WithMetric(distance.Manhattan),
//	    classify.WithWorkers(runtime.GOMAXPROCS(0)),
//	)
//	fmt.Print(report)
//
// # Voting
//
// Among the k neighbor labels the most frequent label wins. When several
// labels share the maximum count, the label encountered first while scanning
// from the nearest to the farthest neighbor wins.
package classify
