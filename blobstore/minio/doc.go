// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible storage systems such as Ceph,
// SeaweedFS and Garage, without pulling in the AWS SDK configuration chain.
//
// # Basic Usage
//
//	store, err := minioblob.Dial("localhost:9000", "datasets", minioblob.Credentials{
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	training, err := dataset.Load(ctx, store, "mnist/train.csv")
//
// An existing *minio.Client can be wrapped with NewStore.
package minio
