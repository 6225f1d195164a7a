package knnmeans

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/knnmeans/classify"
	"github.com/hupe1980/knnmeans/condense"
	"github.com/hupe1980/knnmeans/kmeans"
	"github.com/hupe1980/knnmeans/testutil"
	"github.com/stretchr/testify/assert"
)

func bufferLogger(buf *bytes.Buffer) *Logger {
	return NewLogger(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestProgress_EveryEvent(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(context.Background(), bufferLogger(&buf), 0, 3)

	sample := testutil.Labeled(1, 0)
	p.SampleClassified(0, sample, []classify.Vote{{K: 1, Label: 1}})
	p.SampleClassified(1, sample, []classify.Vote{{K: 1, Label: 2}})
	p.SampleClassified(2, sample, []classify.Vote{{K: 1, Label: 2}})

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "msg=classifying"))
	assert.Contains(t, out, "done=3 total=3 k=1 misclassified=2")
}

func TestProgress_Throttled(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(context.Background(), bufferLogger(&buf), time.Hour, 10)

	for i := 1; i <= 10; i++ {
		p.IterationCompleted(kmeans.IterationStats{Iteration: i})
		p.PassCompleted(condense.PassStats{Pass: i})
	}

	// Only the first event passes the limiter within the interval.
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "k-means iteration"))
	assert.Equal(t, 0, strings.Count(out, "condense pass"))
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf).WithDataset("train.csv")
	ctx := context.Background()

	l.LogLoad(ctx, "train.csv", 10, time.Millisecond, nil)
	l.LogQuality(ctx, IndexCIndex, 3, 0, 0, ErrEmptyPartition)
	l.WithK(5).LogCluster(ctx, 5, 50, time.Second, nil)

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=\"loaded dataset\"")
	assert.Contains(t, out, "records=10")
	assert.Contains(t, out, "level=WARN msg=\"quality index undefined\"")
	assert.Contains(t, out, "k=5")

	// NoopLogger swallows everything.
	NoopLogger().LogLoad(ctx, "x", 1, 0, nil)
}
