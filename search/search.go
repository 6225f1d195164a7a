package search

import (
	"errors"
	"slices"

	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/model"
)

// ErrInvalidK is returned when k is not positive.
var ErrInvalidK = errors.New("k must be positive")

// Neighbor is a candidate together with its distance to the query.
type Neighbor struct {
	// Index is the position of the candidate in the searched slice.
	Index    int
	Vector   *model.LabeledVector
	Distance float64
}

// Sorted returns every candidate with its distance to query, nearest first.
// The sort is stable.
func Sorted(candidates []*model.LabeledVector, query []float64, m distance.Metric) ([]Neighbor, error) {
	neighbors, err := measure(candidates, query, m)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(neighbors, func(a, b Neighbor) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	return neighbors, nil
}

// Nearest returns the k candidates closest to query, nearest first.
//
// If k exceeds the number of candidates, all candidates are returned, each
// exactly once.
func Nearest(k int, candidates []*model.LabeledVector, query []float64, m distance.Metric) ([]Neighbor, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if k == 1 {
		n, ok, err := Nearest1(candidates, query, m)
		if err != nil || !ok {
			return nil, err
		}
		return []Neighbor{n}, nil
	}

	neighbors, err := Sorted(candidates, query, m)
	if err != nil {
		return nil, err
	}
	if k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// Nearest1 returns the single closest candidate in one linear scan.
// The first candidate wins on equal distances, matching Nearest(1, ...).
// ok is false when candidates is empty.
func Nearest1(candidates []*model.LabeledVector, query []float64, m distance.Metric) (n Neighbor, ok bool, err error) {
	if len(candidates) == 0 {
		return Neighbor{}, false, nil
	}

	distFunc := distance.Provider(m)
	best := -1
	bestDist := 0.0

	for i, c := range candidates {
		if len(c.Vector) != len(query) {
			return Neighbor{}, false, &distance.ErrDimensionMismatch{Expected: len(query), Actual: len(c.Vector)}
		}
		d := distFunc(c.Vector, query)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}

	return Neighbor{Index: best, Vector: candidates[best], Distance: bestDist}, true, nil
}

func measure(candidates []*model.LabeledVector, query []float64, m distance.Metric) ([]Neighbor, error) {
	distFunc := distance.Provider(m)
	neighbors := make([]Neighbor, len(candidates))

	for i, c := range candidates {
		if len(c.Vector) != len(query) {
			return nil, &distance.ErrDimensionMismatch{Expected: len(query), Actual: len(c.Vector)}
		}
		neighbors[i] = Neighbor{
			Index:    i,
			Vector:   c,
			Distance: distFunc(c.Vector, query),
		}
	}

	return neighbors, nil
}

// Labels returns the labels of neighbors in order.
func Labels(neighbors []Neighbor) []int {
	labels := make([]int, len(neighbors))
	for i, n := range neighbors {
		labels[i] = n.Vector.Label
	}
	return labels
}
