package knnmeans

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/knnmeans/blobstore"
	"github.com/hupe1980/knnmeans/condense"
	"github.com/hupe1980/knnmeans/dataset"
	"github.com/hupe1980/knnmeans/model"
	"github.com/hupe1980/knnmeans/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toyRunner(optFns ...Option) (*Runner, *BasicMetricsCollector) {
	metrics := &BasicMetricsCollector{}
	fns := append([]Option{
		WithMetricsCollector(metrics),
		WithDimension(2),
		WithSeed(1),
		WithProgressInterval(0),
	}, optFns...)
	return New(fns...), metrics
}

func TestRunner_LoadCondenseClassify(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, store.Put(ctx, "train.csv", []byte("0,0,0\n0,1,0\n1,10,10\n1,11,10\n")))
	require.NoError(t, store.Put(ctx, "test.csv", []byte("0,0,1\n1,10,11\n1,1,1\n")))

	r, metrics := toyRunner()

	training, err := r.Load(ctx, store, "train.csv")
	require.NoError(t, err)
	require.Len(t, training, 4)

	test, err := r.Load(ctx, store, "test.csv")
	require.NoError(t, err)

	res, err := r.Condense(ctx, training, dataset.BlobSink{Store: store, Name: "condensed.csv.zst"})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Training)
	assert.Equal(t, 2, res.Condensed)
	assert.Equal(t, 2, res.Passes)

	persisted, err := dataset.Load(ctx, store, "condensed.csv.zst", dataset.WithDimension(2))
	require.NoError(t, err)
	assert.Equal(t, model.Labels(res.Set), model.Labels(persisted))

	report, err := r.Classify(ctx, res.Set, test, []int{1})
	require.NoError(t, err)
	result, ok := report.Result(1)
	require.True(t, ok)
	assert.Equal(t, 1, result.Misclassified)
	assert.InDelta(t, 66.67, result.Rounded(), 1e-9)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Equal(t, int64(7), stats.LoadRecords)
	assert.Equal(t, int64(1), stats.CondenseCount)
	assert.Equal(t, int64(2), stats.CondensePasses)
	assert.Equal(t, int64(1), stats.ClassifyCount)
	assert.Equal(t, int64(3), stats.ClassifySamples)
}

func TestRunner_CondenseWithoutSink(t *testing.T) {
	r, _ := toyRunner()
	training := []*model.LabeledVector{
		testutil.Labeled(0, 0, 0),
		testutil.Labeled(1, 5, 5),
	}

	res, err := r.Condense(context.Background(), training, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Condensed)
}

func TestRunner_CondenseCanceledStillPersists(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var persisted []*model.LabeledVector
	sink := condense.SinkFunc(func(_ context.Context, vs []*model.LabeledVector) error {
		persisted = vs
		return nil
	})

	r, metrics := toyRunner()
	training := testutil.NewRNG(3).LabeledBlobs(20, 2, 2, 3)

	res, err := r.Condense(ctx, training, sink)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Len(t, persisted, res.Condensed)
	assert.Equal(t, int64(1), metrics.GetStats().CondenseErrors)
}

func TestRunner_Cluster(t *testing.T) {
	var training []*model.LabeledVector
	for i := 0; i < 10; i++ {
		x := float64(i % 3)
		training = append(training,
			testutil.Labeled(0, x, 0),
			testutil.Labeled(1, 100+x, 100),
		)
	}

	r, metrics := toyRunner(WithQualitySamples(20, 8))
	report, err := r.Cluster(context.Background(), training, []int{2}, 5)
	require.NoError(t, err)
	require.Len(t, report.Runs, 1)

	run := report.Runs[0]
	assert.Equal(t, 2, run.K)
	assert.Equal(t, 20, run.Sizes[0]+run.Sizes[1])
	assert.Len(t, run.Clusters, 2)
	assert.Equal(t, "euclidean", report.Metric)
	assert.Equal(t, 5, report.Iterations)

	// Whichever seeds are drawn, five iterations separate the two groups.
	assert.Equal(t, []int{10, 10}, run.Sizes)
	assert.InDelta(t, 1.0, run.Purity, 1e-9)
	require.NotNil(t, run.CIndex)
	require.NotNil(t, run.GoodmanKruskal)
	assert.InDelta(t, 0.0, *run.CIndex, 1e-9)
	assert.InDelta(t, 1.0, *run.GoodmanKruskal, 1e-9)

	assert.Contains(t, report.String(), "C-Index k=2: 0.0000")
	assert.Contains(t, report.String(), "Goodman-Kruskal-Index k=2: 1.0000")

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.ClusterCount)
	assert.Equal(t, int64(2), stats.QualityCount)
}

func TestRunner_ClusterUndefinedIndex(t *testing.T) {
	// One vector per cluster leaves no within-cluster pairs.
	training := []*model.LabeledVector{
		testutil.Labeled(0, 0, 0),
		testutil.Labeled(1, 10, 10),
		testutil.Labeled(2, 20, 20),
		testutil.Labeled(3, 30, 30),
	}

	r, metrics := toyRunner()
	report, err := r.Cluster(context.Background(), training, []int{4}, 3)
	require.NoError(t, err)

	run := report.Runs[0]
	assert.Nil(t, run.CIndex)
	assert.Nil(t, run.GoodmanKruskal)
	assert.Contains(t, run.Undefined, IndexCIndex)
	assert.Contains(t, run.Undefined, IndexGoodmanKruskal)
	assert.Contains(t, report.String(), "C-Index k=4: undefined")
	assert.Equal(t, int64(2), metrics.GetStats().QualityErrors)
}

func TestRunner_ErrorsAreTranslated(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "bad.csv", []byte("1,2,x\n")))
	require.NoError(t, store.Put(ctx, "empty.csv", []byte("\n")))

	r, _ := toyRunner()

	_, err := r.Load(ctx, store, "bad.csv")
	assert.ErrorIs(t, err, ErrMalformedRecord)
	var mre *dataset.MalformedRecordError
	assert.ErrorAs(t, err, &mre)

	_, err = r.Load(ctx, store, "empty.csv")
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = r.Load(ctx, store, "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	training := []*model.LabeledVector{testutil.Labeled(0, 0, 0)}

	_, err = r.Classify(ctx, training, training, []int{0})
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = r.Classify(ctx, training, nil, []int{1})
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = r.Cluster(ctx, training, []int{2}, 1)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = r.Cluster(ctx, training, []int{1}, 0)
	assert.ErrorIs(t, err, ErrInvalidIterations)

	_, err = r.Classify(ctx, training, []*model.LabeledVector{testutil.Labeled(0, 1, 2, 3)}, []int{1})
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 3, dm.Expected)
	assert.Equal(t, 2, dm.Actual)
	assert.NotNil(t, errors.Unwrap(dm))
}
