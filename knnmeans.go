package knnmeans

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/knnmeans/blobstore"
	"github.com/hupe1980/knnmeans/classify"
	"github.com/hupe1980/knnmeans/condense"
	"github.com/hupe1980/knnmeans/dataset"
	"github.com/hupe1980/knnmeans/kmeans"
	"github.com/hupe1980/knnmeans/model"
	"github.com/hupe1980/knnmeans/quality"
)

// Names of the quality indices as they appear in logs and metrics.
const (
	IndexCIndex         = "c-index"
	IndexGoodmanKruskal = "goodman-kruskal"
)

// Runner wires the algorithm packages to logging, metrics and storage.
// A Runner is safe for sequential use; run one operation at a time.
type Runner struct {
	opts options
}

// New creates a Runner.
func New(optFns ...Option) *Runner {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{opts: opts}
}

// Logger returns the configured logger.
func (r *Runner) Logger() *Logger {
	return r.opts.logger
}

// Load reads a dataset from store. The Runner's dimension is applied before optFns.
func (r *Runner) Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(*dataset.Options)) ([]*model.LabeledVector, error) {
	start := time.Now()

	fns := append([]func(*dataset.Options){dataset.WithDimension(r.opts.dimension)}, optFns...)
	vs, err := dataset.Load(ctx, store, name, fns...)
	elapsed := time.Since(start)

	r.opts.metricsCollector.RecordLoad(len(vs), elapsed, err)
	r.opts.logger.LogLoad(ctx, name, len(vs), elapsed, err)

	return vs, translateError(err)
}

// CondenseResult summarizes a condensing run.
type CondenseResult struct {
	Training  int           `json:"training"`
	Condensed int           `json:"condensed"`
	Passes    int           `json:"passes"`
	Elapsed   time.Duration `json:"elapsed_ns"`

	// Set is the condensed training set in insertion order.
	Set []*model.LabeledVector `json:"-"`
}

// Condense reduces training with the condensed nearest neighbor rule. When
// sink is non-nil the condensed set is persisted on every exit path,
// including cancellation; the partial result is returned alongside the error.
func (r *Runner) Condense(ctx context.Context, training []*model.LabeledVector, sink condense.Sink) (*CondenseResult, error) {
	start := time.Now()

	p := newProgress(ctx, r.opts.logger, r.opts.progressInterval, len(training))
	c := condense.New(training,
		condense.WithMetric(r.opts.metric),
		condense.WithObserver(p),
		condense.WithLogger(r.opts.logger.Logger),
	)

	var err error
	if sink != nil {
		err = c.RunAndPersist(ctx, sink)
	} else {
		err = c.Run(ctx)
	}

	set := c.Condensed()
	res := &CondenseResult{
		Training:  len(training),
		Condensed: len(set),
		Passes:    c.Passes(),
		Elapsed:   time.Since(start),
		Set:       set,
	}

	r.opts.metricsCollector.RecordCondense(res.Passes, res.Condensed, res.Elapsed, err)
	r.opts.logger.LogCondense(ctx, res.Training, res.Condensed, res.Passes, res.Elapsed, err)

	return res, translateError(err)
}

// Classify evaluates samples against training for every k in ks.
func (r *Runner) Classify(ctx context.Context, training, samples []*model.LabeledVector, ks []int) (*classify.Report, error) {
	start := time.Now()

	p := newProgress(ctx, r.opts.logger, r.opts.progressInterval, len(samples))
	report, err := classify.Classify(ctx, training, samples, ks,
		classify.WithMetric(r.opts.metric),
		classify.WithWorkers(r.opts.workers),
		classify.WithObserver(p),
	)

	r.opts.metricsCollector.RecordClassify(len(samples), len(ks), time.Since(start), err)
	if err != nil {
		r.opts.logger.ErrorContext(ctx, "classification failed", "error", err)
		return nil, translateError(err)
	}

	for _, res := range report.Results {
		r.opts.logger.LogClassify(ctx, res.K, res.Rounded(), res.Misclassified, report.Samples)
	}
	return report, nil
}

// ClusterRun is the outcome of one k-means run and its quality indices.
type ClusterRun struct {
	K     int   `json:"k"`
	Sizes []int `json:"sizes"`
	// Purity is the share of vectors carrying their cluster's majority label.
	Purity float64 `json:"purity"`
	// CIndex and GoodmanKruskal are nil when undefined for the drawn sample;
	// Undefined then names the index and the reason.
	CIndex         *float64          `json:"c_index,omitempty"`
	GoodmanKruskal *float64          `json:"goodman_kruskal,omitempty"`
	Undefined      map[string]string `json:"undefined,omitempty"`
	Elapsed        time.Duration     `json:"elapsed_ns"`

	// Clusters holds the final clusters. Vectors' Cluster fields are
	// overwritten by later runs over the same training set.
	Clusters []*kmeans.Cluster `json:"-"`
}

// ClusterReport collects one ClusterRun per k.
type ClusterReport struct {
	Metric     string       `json:"metric"`
	Iterations int          `json:"iterations"`
	Samples    int          `json:"samples"`
	Reduced    bool         `json:"reduced"`
	Runs       []ClusterRun `json:"runs"`
}

// String renders one line per index and k.
func (r *ClusterReport) String() string {
	var sb strings.Builder
	for _, run := range r.Runs {
		writeIndex(&sb, "C-Index", run.K, run.CIndex, run.Undefined[IndexCIndex])
		writeIndex(&sb, "Goodman-Kruskal-Index", run.K, run.GoodmanKruskal, run.Undefined[IndexGoodmanKruskal])
	}
	return sb.String()
}

func writeIndex(sb *strings.Builder, name string, k int, v *float64, reason string) {
	if v == nil {
		fmt.Fprintf(sb, "%s k=%d: undefined (%s)\n", name, k, reason)
		return
	}
	fmt.Fprintf(sb, "%s k=%d: %.4f\n", name, k, *v)
}

// Cluster runs k-means for every k in ks and scores each clustering.
// An index that is undefined for the drawn sample is reported as such;
// every other error aborts the report.
func (r *Runner) Cluster(ctx context.Context, training []*model.LabeledVector, ks []int, iterations int) (*ClusterReport, error) {
	cfg := r.opts.qualityConfig()
	report := &ClusterReport{
		Metric:     cfg.Metric.String(),
		Iterations: iterations,
		Samples:    len(training),
		Reduced:    cfg.Reduced,
	}

	for _, k := range ks {
		run, err := r.clusterOnce(ctx, training, k, iterations, cfg)
		if err != nil {
			return nil, translateError(err)
		}
		report.Runs = append(report.Runs, *run)
	}
	return report, nil
}

func (r *Runner) clusterOnce(ctx context.Context, training []*model.LabeledVector, k, iterations int, cfg quality.Config) (*ClusterRun, error) {
	logger := r.opts.logger.WithK(k)
	start := time.Now()

	kmOpts := []func(*kmeans.Options){
		kmeans.WithObserver(newProgress(ctx, logger, r.opts.progressInterval, iterations)),
		kmeans.WithLogger(logger.Logger),
	}
	if r.opts.rand != nil {
		kmOpts = append(kmOpts, kmeans.WithRand(r.opts.rand))
	}

	clusters, err := kmeans.Run(ctx, k, training, iterations, kmOpts...)
	elapsed := time.Since(start)
	r.opts.metricsCollector.RecordCluster(k, iterations, elapsed, err)
	logger.LogCluster(ctx, k, iterations, elapsed, err)
	if err != nil {
		return nil, err
	}

	run := &ClusterRun{
		K:        k,
		Sizes:    make([]int, len(clusters)),
		Purity:   purity(clusters),
		Clusters: clusters,
	}
	for i, c := range clusters {
		run.Sizes[i] = c.Len()
	}

	indices := []struct {
		name string
		fn   func([]*kmeans.Cluster, quality.Config) (float64, error)
		dst  **float64
	}{
		{IndexCIndex, quality.CIndex, &run.CIndex},
		{IndexGoodmanKruskal, quality.GoodmanKruskal, &run.GoodmanKruskal},
	}
	for _, idx := range indices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		qStart := time.Now()
		v, err := idx.fn(clusters, cfg)
		qElapsed := time.Since(qStart)
		r.opts.metricsCollector.RecordQuality(idx.name, qElapsed, err)
		logger.LogQuality(ctx, idx.name, k, v, qElapsed, err)

		switch {
		case errors.Is(err, quality.ErrEmptyPartition):
			if run.Undefined == nil {
				run.Undefined = make(map[string]string)
			}
			run.Undefined[idx.name] = err.Error()
		case err != nil:
			return nil, fmt.Errorf("%s k=%d: %w", idx.name, k, err)
		default:
			*idx.dst = &v
		}
	}

	run.Elapsed = time.Since(start)
	return run, nil
}

func purity(clusters []*kmeans.Cluster) float64 {
	var agree, total float64
	for _, c := range clusters {
		_, share, ok := c.MajorityLabel()
		if !ok {
			continue
		}
		n := float64(c.Len())
		agree += share * n
		total += n
	}
	if total == 0 {
		return 0
	}
	return agree / total
}
