// Package knnmeans provides instance-based learning over labeled pixel vectors:
// k-nearest-neighbor classification with condensed training sets, and
// k-means clustering scored by the C-index and the Goodman–Kruskal index.
//
// # Quick Start
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./data")
//
//	r := knnmeans.New(
//	    knnmeans.WithLogger(knnmeans.NewTextLogger(slog.LevelInfo)),
//	    knnmeans.WithWorkers(runtime.NumCPU()),
//	)
//
//	training, _ := r.Load(ctx, store, "train.csv")
//	test, _ := r.Load(ctx, store, "test.csv")
//
//	condensed, _ := r.Condense(ctx, training, dataset.BlobSink{Store: store, Name: "condensed.csv"})
//	report, _ := r.Classify(ctx, condensed.Set, test, []int{1, 3, 5})
//	fmt.Print(report)
//
// # Clustering
//
//	report, _ := r.Cluster(ctx, training, []int{5, 7, 9, 10, 12, 15}, 50)
//	fmt.Print(report)
//
// Quality indices are computed on random samples of the clustered points;
// WithReducedTime shrinks the samples and WithSeed makes runs repeatable.
//
// # Packages
//
// The Runner only adds logging, metrics and storage. The algorithms live in
// their own packages and can be used directly:
//
//   - distance: Euclidean and Manhattan metrics
//   - search: exhaustive nearest-neighbor search
//   - condense: condensed nearest neighbor reduction
//   - classify: multi-k majority-vote classification
//   - kmeans: Lloyd-style k-means with a fixed iteration count
//   - quality: C-index and Goodman–Kruskal index
//   - dataset: record parsing, compression and storage
//
// # Errors
//
// Runner methods normalize package errors to the sentinels in this package
// (ErrInvalidK, ErrNoSamples, ErrMalformedRecord, ...) while keeping the
// original error reachable through errors.Unwrap.
package knnmeans
