package condense

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/model"
	"github.com/hupe1980/knnmeans/search"
	"github.com/hupe1980/knnmeans/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	calls int
	got   []*model.LabeledVector
	err   error
}

func (s *recordingSink) Persist(_ context.Context, condensed []*model.LabeledVector) error {
	s.calls++
	s.got = condensed
	return s.err
}

type passRecorder struct {
	stats []PassStats
}

func (p *passRecorder) PassCompleted(stats PassStats) {
	p.stats = append(p.stats, stats)
}

func toy() []*model.LabeledVector {
	return []*model.LabeledVector{
		testutil.Labeled(0, 0, 0),
		testutil.Labeled(1, 10, 10),
		testutil.Labeled(0, 0, 1),
		testutil.Labeled(1, 10, 11),
	}
}

func TestCondenser_Toy(t *testing.T) {
	data := toy()
	obs := &passRecorder{}

	c := New(data, WithObserver(obs))
	require.NoError(t, c.Run(context.Background()))

	// Seed first, then absorbed elements in discovery order.
	assert.Equal(t, []*model.LabeledVector{data[0], data[1]}, c.Condensed())
	assert.Equal(t, []*model.LabeledVector{data[2], data[3]}, c.Remaining())

	require.Len(t, obs.stats, 2)
	assert.Equal(t, PassStats{Pass: 1, Moved: 1, Condensed: 2, Remaining: 2}, obs.stats[0])
	assert.Equal(t, PassStats{Pass: 2, Moved: 0, Condensed: 2, Remaining: 2}, obs.stats[1])
	assert.Equal(t, 2, c.Passes())
}

func TestCondenser_Conservation(t *testing.T) {
	rng := testutil.NewRNG(42)
	data := rng.LabeledBlobs(200, 16, 4, 40)

	c := New(data)
	require.NoError(t, c.Run(context.Background()))

	condensed := c.Condensed()
	remaining := c.Remaining()
	assert.Equal(t, len(data), len(condensed)+len(remaining))
	assert.LessOrEqual(t, len(condensed), len(data))

	seen := make(map[*model.LabeledVector]bool, len(data))
	for _, v := range append(condensed, remaining...) {
		assert.False(t, seen[v], "element present in both sets")
		seen[v] = true
	}
	assert.Len(t, seen, len(data))
}

func TestCondenser_RemainingClassifiedCorrectly(t *testing.T) {
	rng := testutil.NewRNG(7)
	data := rng.LabeledBlobs(150, 8, 3, 30)

	c := New(data, WithMetric(distance.Manhattan))
	require.NoError(t, c.Run(context.Background()))

	condensed := c.Condensed()
	for _, v := range c.Remaining() {
		nn, ok, err := search.Nearest1(condensed, v.Vector, distance.Manhattan)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, v.Label, nn.Vector.Label)
	}
}

func TestCondenser_Idempotent(t *testing.T) {
	rng := testutil.NewRNG(11)
	data := rng.LabeledBlobs(120, 8, 3, 35)

	condensed, err := Condense(context.Background(), data)
	require.NoError(t, err)

	again := NewWithCondensed(condensed, condensed)
	moved, err := again.Pass(context.Background())
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Len(t, again.Condensed(), len(condensed))
}

func TestCondenser_Empty(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Run(context.Background()))
	assert.Empty(t, c.Condensed())
	assert.Empty(t, c.Remaining())
}

func TestCondenser_DimensionMismatch(t *testing.T) {
	data := []*model.LabeledVector{testutil.Labeled(0, 0, 0), testutil.Labeled(1, 1, 1, 1)}

	err := New(data).Run(context.Background())
	var dm *distance.ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)
}

func TestRunAndPersist(t *testing.T) {
	data := toy()
	sink := &recordingSink{}

	require.NoError(t, New(data).RunAndPersist(context.Background(), sink))
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, []*model.LabeledVector{data[0], data[1]}, sink.got)
}

func TestRunAndPersist_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := toy()
	sink := &recordingSink{}
	c := New(data)

	err := c.RunAndPersist(ctx, sink)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, []*model.LabeledVector{data[0]}, sink.got)
	assert.Equal(t, len(data), len(c.Condensed())+len(c.Remaining()))
}

func TestRunAndPersist_Panic(t *testing.T) {
	sink := &recordingSink{}
	c := New(toy(), WithObserver(panicObserver{}))

	assert.PanicsWithValue(t, "boom", func() {
		_ = c.RunAndPersist(context.Background(), sink)
	})
	assert.Equal(t, 1, sink.calls)
	assert.Len(t, sink.got, 2)
}

func TestRunAndPersist_SinkError(t *testing.T) {
	errSink := errors.New("disk full")
	sink := &recordingSink{err: errSink}

	err := New(toy()).RunAndPersist(context.Background(), sink)
	assert.ErrorIs(t, err, errSink)
}

func TestSinkFunc(t *testing.T) {
	var n int
	sink := SinkFunc(func(_ context.Context, condensed []*model.LabeledVector) error {
		n = len(condensed)
		return nil
	})

	require.NoError(t, New(toy()).RunAndPersist(context.Background(), sink))
	assert.Equal(t, 2, n)
}

type panicObserver struct{}

func (panicObserver) PassCompleted(PassStats) { panic("boom") }
