package kmeans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/internal/sample"
	"github.com/hupe1980/knnmeans/model"
)

var (
	// ErrInvalidK is returned when k is not positive or exceeds the number of vectors.
	ErrInvalidK = errors.New("invalid k")
	// ErrInvalidIterations is returned when the iteration count is not positive.
	ErrInvalidIterations = errors.New("iterations must be positive")
)

// IterationStats describes one completed assignment pass.
type IterationStats struct {
	Iteration int
	// Degenerate is the number of clusters that received no members and kept
	// their center.
	Degenerate int
	// Sizes holds the member count per cluster id after assignment.
	Sizes []int
}

// IterationObserver is notified after every assignment pass.
type IterationObserver interface {
	IterationCompleted(stats IterationStats)
}

// Options configures Run.
type Options struct {
	Rand     sample.Source
	Observer IterationObserver
	Logger   *slog.Logger
}

// WithRand sets the random source used to choose the initial centers.
func WithRand(src sample.Source) func(*Options) {
	return func(o *Options) { o.Rand = src }
}

// WithObserver registers an iteration observer.
func WithObserver(obs IterationObserver) func(*Options) {
	return func(o *Options) { o.Observer = obs }
}

// WithLogger sets the logger used for degenerate-cluster warnings.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) { o.Logger = l }
}

// Run clusters training into k clusters using iterations assignment passes.
//
// The initial centers are k distinct training vectors drawn without
// replacement. Vectors are assigned to the nearest center under the Euclidean
// metric; equal distances go to the lowest cluster id. Between passes each
// center becomes the mean of its members; a cluster without members keeps
// its previous center.
func Run(ctx context.Context, k int, training []*model.LabeledVector, iterations int, optFns ...func(*Options)) ([]*Cluster, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Rand == nil {
		opts.Rand = sample.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if k <= 0 || k > len(training) {
		return nil, fmt.Errorf("%w: k=%d with %d vectors", ErrInvalidK, k, len(training))
	}
	if iterations <= 0 {
		return nil, ErrInvalidIterations
	}

	clusters := Init(k, training, opts.Rand)

	for iter := 0; iter < iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := Assign(clusters, training); err != nil {
			return nil, err
		}

		stats := IterationStats{
			Iteration: iter + 1,
			Sizes:     make([]int, len(clusters)),
		}
		for i, c := range clusters {
			stats.Sizes[i] = c.Len()
		}

		// The last pass keeps its members.
		if iter+1 < iterations {
			for _, c := range clusters {
				if !c.RecomputeCenter() {
					stats.Degenerate++
					opts.Logger.Warn("cluster has no members, keeping center",
						"cluster", c.ID,
						"iteration", iter+1,
					)
				}
			}
		} else {
			for _, c := range clusters {
				if c.Len() == 0 {
					stats.Degenerate++
					opts.Logger.Warn("cluster has no members after final assignment",
						"cluster", c.ID,
						"iteration", iter+1,
					)
				}
			}
		}

		if opts.Observer != nil {
			opts.Observer.IterationCompleted(stats)
		}
	}

	return clusters, nil
}

// Init creates k clusters centered on k distinct vectors sampled from training.
func Init(k int, training []*model.LabeledVector, src sample.Source) []*Cluster {
	seeds := sample.Indices(src, len(training), k)
	clusters := make([]*Cluster, len(seeds))
	for i, idx := range seeds {
		clusters[i] = NewCluster(i, training[idx].Vector)
	}
	return clusters
}

// Assign adds every vector to the cluster with the nearest center.
// Equal distances go to the lowest cluster id.
func Assign(clusters []*Cluster, training []*model.LabeledVector) error {
	for _, v := range training {
		i, err := Nearest(clusters, v.Vector)
		if err != nil {
			return err
		}
		clusters[i].Add(v)
	}
	return nil
}

// Nearest returns the position in clusters of the center closest to vec.
// Equal distances go to the earlier cluster.
func Nearest(clusters []*Cluster, vec []float64) (int, error) {
	if len(clusters) == 0 {
		return -1, ErrInvalidK
	}

	best := -1
	bestDist := 0.0
	for i, c := range clusters {
		d, err := distance.Between(c.Center, vec, distance.Euclidean)
		if err != nil {
			return -1, err
		}
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, nil
}
