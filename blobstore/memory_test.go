package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("1,2,3")
	require.NoError(t, store.Put(ctx, "x.csv", data))

	// Mutating the caller's slice must not affect the stored blob.
	data[0] = '9'

	blob, err := store.Open(ctx, "x.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(5), blob.Size())

	buf := make([]byte, 10)
	n, err := blob.ReadAt(buf, 2)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "2,3", string(buf[:n]))

	got, err := ReadAll(ctx, store, "x.csv")
	require.NoError(t, err)
	assert.Equal(t, "1,2,3", string(got))

	_, err = store.Open(ctx, "y.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "dir/z.csv", nil))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/z.csv", "x.csv"}, names)

	names, err = store.List(ctx, "dir/")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/z.csv"}, names)

	require.NoError(t, store.Delete(ctx, "x.csv"))
	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/z.csv"}, names)
}

func TestMemoryStore_Writes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.Zero(t, store.Writes("condensed.csv"))

	require.NoError(t, store.Put(ctx, "condensed.csv", []byte("a")))
	require.NoError(t, store.Put(ctx, "condensed.csv", []byte("b")))
	require.NoError(t, store.Delete(ctx, "condensed.csv"))

	assert.Equal(t, 2, store.Writes("condensed.csv"))
}

func TestMemoryStore_Canceled(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "x.csv", nil), context.Canceled)
	_, err := store.Open(ctx, "x.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewReader_SectionFallback(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "b", []byte("abcdef")))
	inner, err := store.Open(context.Background(), "b")
	require.NoError(t, err)

	// Hide the Mappable implementation.
	b := struct{ Blob }{inner}

	r, err := NewReader(context.Background(), b)
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(got))
}
