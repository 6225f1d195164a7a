package quality

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/internal/sample"
	"github.com/hupe1980/knnmeans/kmeans"
	"github.com/hupe1980/knnmeans/model"
)

const (
	// DefaultCIndexSamples is the default number of points sampled for the C-index.
	DefaultCIndexSamples = 1000
	// DefaultGoodmanKruskalSamples is the default number of points sampled for the Goodman–Kruskal index.
	DefaultGoodmanKruskalSamples = 50
	// ReducedCIndexSamples replaces the C-index sample size in reduced-time mode.
	ReducedCIndexSamples = 100
	// ReducedGoodmanKruskalSamples replaces the Goodman–Kruskal sample size in reduced-time mode.
	ReducedGoodmanKruskalSamples = 10
)

var (
	// ErrEmptyPartition is returned when a score would divide by zero because
	// the sample lacks within-cluster pairs or comparable pairs.
	ErrEmptyPartition = errors.New("empty sample partition")
	// ErrZeroSpread is returned, wrapped together with ErrEmptyPartition,
	// when the C-index min and max sums are equal.
	ErrZeroSpread = errors.New("c-index: min and max distance sums are equal")
)

// Config controls sampling for the quality indices.
type Config struct {
	// CIndexSamples is the number of points whose pairs feed the C-index.
	CIndexSamples int
	// GoodmanKruskalSamples is the number of points whose 4-tuples feed the
	// Goodman–Kruskal index. Work grows with the fourth power of this value.
	GoodmanKruskalSamples int
	// Reduced selects the reduced-time sample sizes.
	Reduced bool
	// Metric is the distance metric for point pairs.
	Metric distance.Metric
	// Rand selects the sample. Nil uses a time-seeded source.
	Rand sample.Source
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CIndexSamples:         DefaultCIndexSamples,
		GoodmanKruskalSamples: DefaultGoodmanKruskalSamples,
		Metric:                distance.Euclidean,
	}
}

func (c Config) cIndexSamples() int {
	switch {
	case c.Reduced:
		return ReducedCIndexSamples
	case c.CIndexSamples <= 0:
		return DefaultCIndexSamples
	default:
		return c.CIndexSamples
	}
}

func (c Config) goodmanKruskalSamples() int {
	switch {
	case c.Reduced:
		return ReducedGoodmanKruskalSamples
	case c.GoodmanKruskalSamples <= 0:
		return DefaultGoodmanKruskalSamples
	default:
		return c.GoodmanKruskalSamples
	}
}

func (c Config) source() sample.Source {
	if c.Rand == nil {
		return sample.Default()
	}
	return c.Rand
}

// clusterDistance is the distance of one point pair and the shared cluster
// id, or model.NoCluster for a cross-cluster pair.
type clusterDistance struct {
	distance float64
	cluster  int
}

func (d clusterDistance) within() bool {
	return d.cluster != model.NoCluster
}

// CIndex samples points from clusters and returns their C-index.
func CIndex(clusters []*kmeans.Cluster, cfg Config) (float64, error) {
	points := sample.Pick(cfg.source(), kmeans.Members(clusters), cfg.cIndexSamples())
	return CIndexOf(points, cfg.Metric)
}

// CIndexOf returns the C-index over all pairs of points:
//
//	(gamma - min) / (max - min)
//
// where alpha is the number of within-cluster pairs, gamma the sum of their
// distances, and min/max the sums of the alpha smallest/largest distances
// over all pairs.
func CIndexOf(points []*model.LabeledVector, m distance.Metric) (float64, error) {
	pairs, err := pairDistances(points, m)
	if err != nil {
		return 0, err
	}

	slices.SortFunc(pairs, func(a, b clusterDistance) int {
		switch {
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		default:
			return 0
		}
	})

	sorted := make([]float64, len(pairs))
	within := make([]float64, 0, len(pairs))
	for i, p := range pairs {
		sorted[i] = p.distance
		if p.within() {
			within = append(within, p.distance)
		}
	}

	alpha := len(within)
	if alpha == 0 {
		return 0, fmt.Errorf("c-index: %w: no within-cluster pairs among %d points", ErrEmptyPartition, len(points))
	}

	gamma := floats.Sum(within)
	minSum := floats.Sum(sorted[:alpha])
	maxSum := floats.Sum(sorted[len(sorted)-alpha:])
	if maxSum == minSum {
		return 0, fmt.Errorf("%w: %w", ErrEmptyPartition, ErrZeroSpread)
	}

	return (gamma - minSum) / (maxSum - minSum), nil
}

// GoodmanKruskal samples points from clusters and returns their
// Goodman–Kruskal index.
func GoodmanKruskal(clusters []*kmeans.Cluster, cfg Config) (float64, error) {
	points := sample.Pick(cfg.source(), kmeans.Members(clusters), cfg.goodmanKruskalSamples())
	return GoodmanKruskalOf(points, cfg.Metric)
}

// GoodmanKruskalOf returns the Goodman–Kruskal index over all 4-point tuples
// of points:
//
//	(concordant - discordant) / (concordant + discordant)
//
// Each tuple is split into two disjoint pairs in all three possible ways and
// the two pair distances are compared. A comparison is concordant when the
// shorter pair is within-cluster and the longer one cross-cluster, and
// discordant for the opposite. Equal distances and pairs of equal status
// count as neither.
func GoodmanKruskalOf(points []*model.LabeledVector, m distance.Metric) (float64, error) {
	n := len(points)
	dist, within, err := distanceMatrix(points, m)
	if err != nil {
		return 0, err
	}

	var concordant, discordant int
	count := func(i, j, r, s int) {
		switch compare(dist[i*n+j], within[i*n+j], dist[r*n+s], within[r*n+s]) {
		case 1:
			concordant++
		case -1:
			discordant++
		}
	}

	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					count(a, b, c, d)
					count(a, c, b, d)
					count(a, d, b, c)
				}
			}
		}
	}

	if concordant+discordant == 0 {
		return 0, fmt.Errorf("goodman-kruskal: %w: no comparable pairs among %d points", ErrEmptyPartition, n)
	}

	return float64(concordant-discordant) / float64(concordant+discordant), nil
}

// compare returns 1 for a concordant, -1 for a discordant and 0 for an
// ignored comparison of pair 1 against pair 2.
func compare(d1 float64, within1 bool, d2 float64, within2 bool) int {
	switch {
	case d1 < d2 && within1 && !within2, d1 > d2 && !within1 && within2:
		return 1
	case d1 < d2 && !within1 && within2, d1 > d2 && within1 && !within2:
		return -1
	default:
		return 0
	}
}

func pairDistances(points []*model.LabeledVector, m distance.Metric) ([]clusterDistance, error) {
	n := len(points)
	pairs := make([]clusterDistance, 0, n*(n-1)/2)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d, err := distance.Between(points[i].Vector, points[j].Vector, m)
			if err != nil {
				return nil, err
			}
			cluster := model.NoCluster
			if points[i].SameCluster(points[j]) {
				cluster = points[i].Cluster
			}
			pairs = append(pairs, clusterDistance{distance: d, cluster: cluster})
		}
	}

	return pairs, nil
}

// distanceMatrix returns the flattened n*n distance matrix and the
// within-cluster flags. Only entries with row < column are filled.
func distanceMatrix(points []*model.LabeledVector, m distance.Metric) ([]float64, []bool, error) {
	n := len(points)
	dist := make([]float64, n*n)
	within := make([]bool, n*n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d, err := distance.Between(points[i].Vector, points[j].Vector, m)
			if err != nil {
				return nil, nil, err
			}
			dist[i*n+j] = d
			within[i*n+j] = points[i].SameCluster(points[j])
		}
	}

	return dist, within, nil
}
