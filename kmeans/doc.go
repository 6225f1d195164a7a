// Package kmeans implements Lloyd's k-means clustering over labeled vectors.
//
// A run moves through Initializing -> Assigning -> (Recomputing -> Assigning)*
// and stops after a fixed number of assignment passes:
//
//	clusters, err := kmeans.Run(ctx, 10, training, 50, kmeans.WithRand(src))
//
// Centers are recomputed as member means between passes but not after the
// last one, so the returned clusters keep their final members. Each vector's
// Cluster field holds the id of the cluster it was last assigned to.
package kmeans
