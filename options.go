package knnmeans

import (
	"time"

	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/internal/sample"
	"github.com/hupe1980/knnmeans/model"
	"github.com/hupe1980/knnmeans/quality"
)

// DefaultProgressInterval is the minimum time between progress log lines.
const DefaultProgressInterval = 2 * time.Second

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	metric           distance.Metric
	workers          int
	rand             sample.Source
	reduced          bool
	cIndexSamples    int
	gkSamples        int
	dimension        int
	progressInterval time.Duration
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		metric:           distance.Euclidean,
		workers:          1,
		dimension:        model.Dimension,
		progressInterval: DefaultProgressInterval,
	}
}

// Option configures a Runner.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := knnmeans.NewJSONLogger(slog.LevelInfo)
//	r := knnmeans.New(knnmeans.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
//	metrics := &knnmeans.BasicMetricsCollector{}
//	r := knnmeans.New(knnmeans.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithMetric selects the distance used for neighbor search, condensing and
// quality indices. K-means assignment is always Euclidean.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithWorkers sets the number of samples classified concurrently.
// Reports do not depend on the worker count.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, 1)
	}
}

// WithRand sets the random source for k-means seeding and quality sampling.
// *rand.Rand satisfies it.
func WithRand(src sample.Source) Option {
	return func(o *options) {
		o.rand = src
	}
}

// WithSeed is shorthand for WithRand(rand.New(rand.NewSource(seed))).
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rand = sample.NewSource(seed)
	}
}

// WithReducedTime trades accuracy of the quality indices for speed by
// shrinking their samples.
func WithReducedTime(reduced bool) Option {
	return func(o *options) {
		o.reduced = reduced
	}
}

// WithQualitySamples overrides the C-index and Goodman-Kruskal sample sizes.
// Zero keeps the default for that index.
func WithQualitySamples(cIndex, goodmanKruskal int) Option {
	return func(o *options) {
		o.cIndexSamples = cIndex
		o.gkSamples = goodmanKruskal
	}
}

// WithDimension sets the expected record dimension for loads.
// Zero infers it from the first record.
func WithDimension(d int) Option {
	return func(o *options) {
		o.dimension = max(d, 0)
	}
}

// WithProgressInterval sets the minimum time between progress log lines.
// Zero logs every event.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

func (o *options) qualityConfig() quality.Config {
	cfg := quality.DefaultConfig()
	if o.cIndexSamples > 0 {
		cfg.CIndexSamples = o.cIndexSamples
	}
	if o.gkSamples > 0 {
		cfg.GoodmanKruskalSamples = o.gkSamples
	}
	cfg.Reduced = o.reduced
	cfg.Metric = o.metric
	cfg.Rand = o.rand
	return cfg
}
