// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("mnist/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	training, err := dataset.Load(ctx, store, "train.csv.zst")
//
// # Features
//
//   - Streamed whole-object reads for dataset loading
//   - Ranged reads through io.ReaderAt
//   - Multipart uploads for large condensed sets
//   - Automatic pagination for listing
package s3
