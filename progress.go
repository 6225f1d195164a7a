package knnmeans

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hupe1980/knnmeans/classify"
	"github.com/hupe1980/knnmeans/condense"
	"github.com/hupe1980/knnmeans/kmeans"
	"github.com/hupe1980/knnmeans/model"
	"golang.org/x/time/rate"
)

// progress turns algorithm callbacks into throttled debug/info log lines.
// One value serves a single operation.
type progress struct {
	ctx       context.Context
	logger    *Logger
	sometimes *rate.Sometimes
	total     int
	done      atomic.Int64
	misses    atomic.Int64
}

func newProgress(ctx context.Context, logger *Logger, interval time.Duration, total int) *progress {
	s := &rate.Sometimes{First: 1, Interval: interval}
	if interval <= 0 {
		s = &rate.Sometimes{Every: 1}
	}
	return &progress{
		ctx:       ctx,
		logger:    logger,
		sometimes: s,
		total:     total,
	}
}

// PassCompleted implements condense.PassObserver.
func (p *progress) PassCompleted(stats condense.PassStats) {
	p.sometimes.Do(func() {
		p.logger.InfoContext(p.ctx, "condense pass",
			"pass", stats.Pass,
			"moved", stats.Moved,
			"condensed", stats.Condensed,
			"remaining", stats.Remaining,
		)
	})
}

// SampleClassified implements classify.SampleObserver. The smallest k's vote
// is tracked as a running error count.
func (p *progress) SampleClassified(_ int, sample *model.LabeledVector, votes []classify.Vote) {
	done := p.done.Add(1)
	if len(votes) > 0 && votes[0].Label != sample.Label {
		p.misses.Add(1)
	}

	p.sometimes.Do(func() {
		p.logger.InfoContext(p.ctx, "classifying",
			"done", done,
			"total", p.total,
			"k", votes[0].K,
			"misclassified", p.misses.Load(),
		)
	})
}

// IterationCompleted implements kmeans.IterationObserver.
func (p *progress) IterationCompleted(stats kmeans.IterationStats) {
	p.sometimes.Do(func() {
		p.logger.DebugContext(p.ctx, "k-means iteration",
			"iteration", stats.Iteration,
			"of", p.total,
			"degenerate", stats.Degenerate,
		)
	})
}

var (
	_ condense.PassObserver    = (*progress)(nil)
	_ classify.SampleObserver  = (*progress)(nil)
	_ kmeans.IterationObserver = (*progress)(nil)
)
