// Package sample draws random subsets through an injectable random source.
package sample

import (
	"math/rand"
	"time"
)

// Source is the random source used for seeding and sampling.
// *rand.Rand and testutil.RNG satisfy it.
type Source interface {
	// Intn returns a non-negative pseudo-random number in [0,n).
	Intn(n int) int
}

// NewSource returns a source seeded with seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed)) // nolint gosec
}

// Default returns a time-seeded source.
func Default() Source {
	return NewSource(time.Now().UnixNano())
}

// Indices returns min(k, n) distinct indices from [0,n) in random order.
func Indices(src Source, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	// Partial Fisher-Yates: only the first k slots are drawn.
	for i := 0; i < k; i++ {
		j := i + src.Intn(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}

	return perm[:k]
}

// Pick returns min(k, len(items)) distinct items in random order.
func Pick[T any](src Source, items []T, k int) []T {
	idx := Indices(src, len(items), k)
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}
