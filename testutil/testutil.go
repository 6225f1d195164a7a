package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Pixels returns a vector of uniform integer intensities in [0, 255].
func (r *RNG) Pixels(dim int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	vec := make([]float64, dim)
	for i := range vec {
		vec[i] = float64(r.rand.Intn(256))
	}
	return vec
}

// LabeledBlobs generates n labeled vectors around one random center per
// label. Components are rounded to integers and clamped to [0, 255] so the
// output round-trips through the record format. Labels cycle 0..classes-1.
func (r *RNG) LabeledBlobs(n, dim, classes int, spread float64) []*model.LabeledVector {
	centers := make([][]float64, classes)
	for c := range centers {
		centers[c] = r.Pixels(dim)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.LabeledVector, n)
	for i := range n {
		label := i % classes
		vec := make([]float64, dim)
		for j := range vec {
			v := math.Round(centers[label][j] + r.rand.NormFloat64()*spread)
			vec[j] = math.Max(0, math.Min(255, v))
		}
		out[i] = model.NewLabeledVector(label, vec)
	}
	return out
}

// Labeled builds a single labeled vector from its components.
func Labeled(label int, components ...float64) *model.LabeledVector {
	return model.NewLabeledVector(label, components)
}

// Clone deep-copies a dataset so tests can mutate cluster ids independently.
func Clone(vs []*model.LabeledVector) []*model.LabeledVector {
	out := make([]*model.LabeledVector, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}

// ExactNearestLabels returns the labels of the k nearest vectors under the
// Euclidean metric, breaking distance ties by dataset position.
func ExactNearestLabels(query []float64, data []*model.LabeledVector, k int) []int {
	type scored struct {
		idx  int
		dist float64
	}

	all := make([]scored, len(data))
	for i, v := range data {
		all[i] = scored{idx: i, dist: distance.EuclideanDistance(query, v.Vector)}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dist != all[j].dist {
			return all[i].dist < all[j].dist
		}
		return all[i].idx < all[j].idx
	})

	k = min(k, len(all))
	labels := make([]int, k)
	for i := range k {
		labels[i] = data[all[i].idx].Label
	}
	return labels
}
