package search

import (
	"testing"

	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(vs ...[]float64) []*model.LabeledVector {
	out := make([]*model.LabeledVector, len(vs))
	for i, v := range vs {
		out[i] = model.NewLabeledVector(i, v)
	}
	return out
}

func TestNearest_ExactMatchFirst(t *testing.T) {
	candidates := points([]float64{5, 5}, []float64{1, 2}, []float64{0, 0})

	res, err := Nearest(1, candidates, []float64{1, 2}, distance.Euclidean)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 1, res[0].Index)
	assert.Zero(t, res[0].Distance)
}

func TestNearest_Order(t *testing.T) {
	candidates := points([]float64{10, 10}, []float64{0, 1}, []float64{3, 3}, []float64{0, 0})

	res, err := Nearest(3, candidates, []float64{0, 0}, distance.Euclidean)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, []int{3, 1, 2}, Labels(res))

	for i := 1; i < len(res); i++ {
		assert.LessOrEqual(t, res[i-1].Distance, res[i].Distance)
	}
}

func TestNearest_KExceedsCandidates(t *testing.T) {
	candidates := points([]float64{1}, []float64{2}, []float64{3})

	res, err := Nearest(10, candidates, []float64{0}, distance.Manhattan)
	require.NoError(t, err)
	require.Len(t, res, 3)

	seen := map[int]int{}
	for _, n := range res {
		seen[n.Index]++
	}
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, seen)
}

func TestNearest_StableTies(t *testing.T) {
	// All candidates are at distance 1 from the origin.
	candidates := points([]float64{1, 0}, []float64{0, 1}, []float64{-1, 0}, []float64{0, -1})

	res, err := Nearest(4, candidates, []float64{0, 0}, distance.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, Labels(res))

	one, err := Nearest(1, candidates, []float64{0, 0}, distance.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, 0, one[0].Index)
}

func TestNearest_InvalidK(t *testing.T) {
	_, err := Nearest(0, points([]float64{1}), []float64{1}, distance.Euclidean)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestNearest_Empty(t *testing.T) {
	res, err := Nearest(1, nil, []float64{1}, distance.Euclidean)
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = Nearest(3, nil, []float64{1}, distance.Euclidean)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestNearest_DimensionMismatch(t *testing.T) {
	candidates := points([]float64{1, 2, 3})

	_, err := Nearest(2, candidates, []float64{1, 2}, distance.Euclidean)
	var dm *distance.ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)

	_, _, err = Nearest1(candidates, []float64{1, 2}, distance.Euclidean)
	require.ErrorAs(t, err, &dm)
}

func TestSorted_Metric(t *testing.T) {
	// Under L1 (2,2) and (0,4) tie at 4; under L2 (2,2) is closer.
	candidates := points([]float64{0, 4}, []float64{2, 2})

	l2, err := Sorted(candidates, []float64{0, 0}, distance.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, Labels(l2))

	l1, err := Sorted(candidates, []float64{0, 0}, distance.Manhattan)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, Labels(l1))
}
