package minio

import (
	"context"
	"io"
	"testing"

	"github.com/hupe1980/knnmeans/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDial_SplitsPrefix(t *testing.T) {
	store, err := Dial("localhost:9000", "datasets/mnist/v1", Credentials{AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)

	assert.Equal(t, "datasets", store.bucket)
	assert.Equal(t, "mnist/v1/train.csv", store.key("train.csv"))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	bucket := "test-knnmeans"
	store, err := Dial("localhost:9000", bucket+"/test-prefix", Credentials{
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("3,0,128,255\n")
	require.NoError(t, store.Put(ctx, "train.csv", data))

	blob, err := store.Open(ctx, "train.csv")
	require.NoError(t, err)
	defer blob.Close()
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 3)
	n, err := blob.ReadAt(buf, 4)
	require.NoError(t, err)
	assert.Equal(t, "128", string(buf[:n]))

	r, err := blobstore.NewReader(ctx, blob)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "train.csv")

	require.NoError(t, store.Delete(ctx, "train.csv"))
	_, err = store.Open(ctx, "train.csv")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
