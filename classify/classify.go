package classify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/model"
	"github.com/hupe1980/knnmeans/search"
)

var (
	// ErrInvalidK is returned when no k is requested or a k is not positive.
	ErrInvalidK = errors.New("k must be positive")
	// ErrNoSamples is returned when there is nothing to classify or nothing to classify against.
	ErrNoSamples = errors.New("no samples")
)

// Vote is the predicted label of one sample for one k.
type Vote struct {
	K     int
	Label int
}

// SampleObserver is notified after every classified sample.
// Calls are serialized, but with more than one worker they do not arrive in
// sample order.
type SampleObserver interface {
	SampleClassified(index int, sample *model.LabeledVector, votes []Vote)
}

// Options configures Classify.
type Options struct {
	Metric   distance.Metric
	Workers  int
	Observer SampleObserver
}

// DefaultOptions contains the default configuration.
var DefaultOptions = Options{
	Metric:  distance.Euclidean,
	Workers: 1,
}

// WithMetric sets the distance metric.
func WithMetric(m distance.Metric) func(*Options) {
	return func(o *Options) { o.Metric = m }
}

// WithWorkers sets the number of samples classified concurrently.
// The report does not depend on the worker count.
func WithWorkers(n int) func(*Options) {
	return func(o *Options) { o.Workers = n }
}

// WithObserver registers a sample observer.
func WithObserver(obs SampleObserver) func(*Options) {
	return func(o *Options) { o.Observer = obs }
}

// Result is the accuracy for one k.
type Result struct {
	K             int     `json:"k"`
	Misclassified int     `json:"misclassified"`
	Accuracy      float64 `json:"accuracy"`
}

// Rounded returns the accuracy percentage rounded to two decimal places.
func (r Result) Rounded() float64 {
	return math.Round(r.Accuracy*100) / 100
}

// MarshalJSON emits the accuracy rounded the same way as the text report.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	p := plain(r)
	p.Accuracy = r.Rounded()
	return gojson.Marshal(p)
}

// Report is the per-k accuracy of one classification run.
type Report struct {
	Metric  string   `json:"metric"`
	Samples int      `json:"samples"`
	Results []Result `json:"results"`
}

// String renders one line per k with the accuracy in percent.
func (r *Report) String() string {
	var sb strings.Builder
	for _, res := range r.Results {
		fmt.Fprintf(&sb, "k=%d: %.2f%% (%d/%d misclassified)\n", res.K, res.Accuracy, res.Misclassified, r.Samples)
	}
	return sb.String()
}

// Result returns the result for k.
func (r *Report) Result(k int) (Result, bool) {
	for _, res := range r.Results {
		if res.K == k {
			return res, true
		}
	}
	return Result{}, false
}

// Classify classifies every sample against training for every k in ks and
// reports the accuracy per k. Duplicate k values are reported once.
//
// If a k exceeds the training set size, all training vectors vote.
func Classify(ctx context.Context, training, samples []*model.LabeledVector, ks []int, optFns ...func(*Options)) (*Report, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	ks = normalizeKs(ks)
	if len(ks) == 0 || ks[0] <= 0 {
		return nil, ErrInvalidK
	}
	if len(samples) == 0 || len(training) == 0 {
		return nil, ErrNoSamples
	}

	votes := make([][]Vote, len(samples))

	var mu sync.Mutex
	notify := func(i int) {
		if opts.Observer == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		opts.Observer.SampleClassified(i, samples[i], votes[i])
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))

	for i := range samples {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := classifySample(training, samples[i], ks, opts.Metric)
			if err != nil {
				return fmt.Errorf("classify sample %d: %w", i, err)
			}
			votes[i] = v
			notify(i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return tally(samples, votes, ks, opts.Metric), nil
}

// Predict returns the majority label of the k nearest training vectors.
func Predict(training []*model.LabeledVector, query []float64, k int, m distance.Metric) (int, error) {
	neighbors, err := search.Nearest(k, training, query, m)
	if err != nil {
		return 0, err
	}
	if len(neighbors) == 0 {
		return 0, ErrNoSamples
	}
	return Majority(search.Labels(neighbors)), nil
}

// Majority returns the most frequent label. Ties go to the label that
// appears first in labels. labels must not be empty.
func Majority(labels []int) int {
	counts := make(map[int]int, len(labels))
	for _, l := range labels {
		counts[l]++
	}

	best, bestCount := labels[0], 0
	for _, l := range labels {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

func classifySample(training []*model.LabeledVector, sample *model.LabeledVector, ks []int, m distance.Metric) ([]Vote, error) {
	neighbors, err := search.Sorted(training, sample.Vector, m)
	if err != nil {
		return nil, err
	}
	labels := search.Labels(neighbors)

	votes := make([]Vote, len(ks))
	for j, k := range ks {
		votes[j] = Vote{K: k, Label: Majority(labels[:min(k, len(labels))])}
	}
	return votes, nil
}

func tally(samples []*model.LabeledVector, votes [][]Vote, ks []int, m distance.Metric) *Report {
	report := &Report{
		Metric:  m.String(),
		Samples: len(samples),
		Results: make([]Result, len(ks)),
	}

	for j, k := range ks {
		missed := 0
		for i, s := range samples {
			if votes[i][j].Label != s.Label {
				missed++
			}
		}
		report.Results[j] = Result{
			K:             k,
			Misclassified: missed,
			Accuracy:      float64(len(samples)-missed) / float64(len(samples)) * 100,
		}
	}

	return report
}

// normalizeKs returns the distinct ks in ascending order.
func normalizeKs(ks []int) []int {
	out := slices.Clone(ks)
	slices.Sort(out)
	return slices.Compact(out)
}
