package condense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/model"
	"github.com/hupe1980/knnmeans/search"
)

// PassStats describes one completed pass.
type PassStats struct {
	Pass      int
	Moved     int
	Condensed int
	Remaining int
}

// PassObserver is notified after every pass.
type PassObserver interface {
	PassCompleted(stats PassStats)
}

// Sink persists a condensed set.
type Sink interface {
	Persist(ctx context.Context, condensed []*model.LabeledVector) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, condensed []*model.LabeledVector) error

// Persist implements Sink.
func (f SinkFunc) Persist(ctx context.Context, condensed []*model.LabeledVector) error {
	return f(ctx, condensed)
}

// Options configures a Condenser.
type Options struct {
	Metric   distance.Metric
	Observer PassObserver
	Logger   *slog.Logger
}

// DefaultOptions contains the default configuration.
var DefaultOptions = Options{
	Metric: distance.Euclidean,
}

// WithMetric sets the metric used for the 1-NN membership test.
func WithMetric(m distance.Metric) func(*Options) {
	return func(o *Options) { o.Metric = m }
}

// WithObserver registers a pass observer.
func WithObserver(obs PassObserver) func(*Options) {
	return func(o *Options) { o.Observer = obs }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) { o.Logger = l }
}

// Condenser holds the condensed and remaining sets of one condensing run.
// It is not safe for concurrent use.
type Condenser struct {
	opts Options

	working   []*model.LabeledVector
	condensed []*model.LabeledVector
	remaining *roaring.Bitmap
	passes    int
}

// New creates a Condenser seeded with the first element of training.
func New(training []*model.LabeledVector, optFns ...func(*Options)) *Condenser {
	c := newCondenser(training, optFns)
	if len(training) > 0 {
		c.condensed = append(c.condensed, training[0])
		c.remaining.AddRange(1, uint64(len(training)))
	}
	return c
}

// NewWithCondensed creates a Condenser whose condensed set starts as a copy of
// condensed and whose remaining set is working.
func NewWithCondensed(condensed, working []*model.LabeledVector, optFns ...func(*Options)) *Condenser {
	c := newCondenser(working, optFns)
	c.condensed = append(c.condensed, condensed...)
	c.remaining.AddRange(0, uint64(len(working)))
	return c
}

func newCondenser(working []*model.LabeledVector, optFns []func(*Options)) *Condenser {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Condenser{
		opts:      opts,
		working:   working,
		condensed: make([]*model.LabeledVector, 0, 16),
		remaining: roaring.New(),
	}
}

// Pass runs one pass over a snapshot of the remaining elements and returns
// the number of elements moved into the condensed set.
//
// On cancellation the moves made so far are applied before returning, so the
// condensed and remaining sets stay disjoint and complete.
func (c *Condenser) Pass(ctx context.Context) (int, error) {
	snapshot := c.remaining.ToArray()
	moved := roaring.New()

	err := c.scan(ctx, snapshot, moved)
	c.remaining.AndNot(moved)
	n := int(moved.GetCardinality())
	if err != nil {
		return n, err
	}

	c.passes++
	stats := PassStats{
		Pass:      c.passes,
		Moved:     n,
		Condensed: len(c.condensed),
		Remaining: int(c.remaining.GetCardinality()),
	}
	c.opts.Logger.Debug("condense pass completed",
		"pass", stats.Pass,
		"moved", stats.Moved,
		"condensed", stats.Condensed,
		"remaining", stats.Remaining,
	)
	if c.opts.Observer != nil {
		c.opts.Observer.PassCompleted(stats)
	}

	return n, nil
}

func (c *Condenser) scan(ctx context.Context, snapshot []uint32, moved *roaring.Bitmap) error {
	for _, idx := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}

		v := c.working[idx]
		nn, ok, err := search.Nearest1(c.condensed, v.Vector, c.opts.Metric)
		if err != nil {
			return fmt.Errorf("condense element %d: %w", idx, err)
		}

		if !ok || nn.Vector.Label != v.Label {
			c.condensed = append(c.condensed, v)
			moved.Add(idx)
		}
	}
	return nil
}

// Run repeats passes until a pass moves no element.
func (c *Condenser) Run(ctx context.Context) error {
	for {
		n, err := c.Pass(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

// RunAndPersist runs the condenser and persists the condensed set to sink.
//
// The condensed set is persisted exactly once on every exit path: normal
// completion, error, context cancellation or panic. A panic is re-raised
// after persisting.
func (c *Condenser) RunAndPersist(ctx context.Context, sink Sink) (err error) {
	defer func() {
		r := recover()

		perr := sink.Persist(context.WithoutCancel(ctx), c.Condensed())
		if perr != nil {
			perr = fmt.Errorf("persist condensed set: %w", perr)
			c.opts.Logger.Error("persist condensed set failed", "error", perr)
		}

		if r != nil {
			panic(r)
		}
		err = errors.Join(err, perr)
	}()

	return c.Run(ctx)
}

// Condensed returns the condensed set in insertion order.
func (c *Condenser) Condensed() []*model.LabeledVector {
	return slices.Clone(c.condensed)
}

// Remaining returns the elements not absorbed into the condensed set, in
// their original order.
func (c *Condenser) Remaining() []*model.LabeledVector {
	out := make([]*model.LabeledVector, 0, c.remaining.GetCardinality())
	it := c.remaining.Iterator()
	for it.HasNext() {
		out = append(out, c.working[it.Next()])
	}
	return out
}

// Passes returns the number of completed passes.
func (c *Condenser) Passes() int {
	return c.passes
}

// Condense runs a Condenser over training and returns the condensed set.
func Condense(ctx context.Context, training []*model.LabeledVector, optFns ...func(*Options)) ([]*model.LabeledVector, error) {
	c := New(training, optFns...)
	if err := c.Run(ctx); err != nil {
		return c.Condensed(), err
	}
	return c.Condensed(), nil
}
