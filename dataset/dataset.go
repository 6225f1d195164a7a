package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/knnmeans/blobstore"
	"github.com/hupe1980/knnmeans/model"
)

// Options configures Load.
type Options struct {
	// Dimension is the required vector length. Zero infers it from the first record.
	Dimension int
	// Limit stops reading after this many records. Zero reads everything.
	Limit int
}

// DefaultOptions expects model.Dimension components per record.
var DefaultOptions = Options{
	Dimension: model.Dimension,
}

// WithDimension sets the required vector length.
func WithDimension(d int) func(*Options) {
	return func(o *Options) { o.Dimension = d }
}

// WithLimit truncates the load to the first n records.
func WithLimit(n int) func(*Options) {
	return func(o *Options) { o.Limit = n }
}

// Load reads the named blob from store.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *Options)) ([]*model.LabeledVector, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", name, err)
	}
	defer blob.Close()

	raw, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", name, err)
	}
	defer raw.Close()

	r, err := NewReader(&ctxReader{ctx: ctx, r: raw}, CompressionFor(name))
	if err != nil {
		return nil, fmt.Errorf("dataset: decompress %s: %w", name, err)
	}
	defer r.Close()

	var out []*model.LabeledVector
	err = scan(r, opts.Dimension, func(v *model.LabeledVector) bool {
		out = append(out, v)
		return opts.Limit <= 0 || len(out) < opts.Limit
	})
	if err != nil {
		return nil, fmt.Errorf("dataset: load %s: %w", name, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmpty, name)
	}
	return out, nil
}

// Save encodes vs and writes them to store with a single Put.
func Save(ctx context.Context, store blobstore.BlobStore, name string, vs []*model.LabeledVector) error {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, CompressionFor(name))
	if err != nil {
		return err
	}
	if err := Encode(w, vs); err != nil {
		_ = w.Close()
		return fmt.Errorf("dataset: encode %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("dataset: compress %s: %w", name, err)
	}

	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("dataset: write %s: %w", name, err)
	}
	return nil
}

// BlobSink persists a condensed set to a blob. It satisfies condense.Sink.
type BlobSink struct {
	Store blobstore.BlobStore
	Name  string
}

// Persist writes vs to the sink's blob.
func (s BlobSink) Persist(ctx context.Context, vs []*model.LabeledVector) error {
	return Save(ctx, s.Store, s.Name, vs)
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
