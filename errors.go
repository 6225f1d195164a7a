package knnmeans

import (
	"errors"
	"fmt"

	"github.com/hupe1980/knnmeans/blobstore"
	"github.com/hupe1980/knnmeans/classify"
	"github.com/hupe1980/knnmeans/dataset"
	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/kmeans"
	"github.com/hupe1980/knnmeans/quality"
	"github.com/hupe1980/knnmeans/search"
)

var (
	// ErrInvalidK is returned when a neighbor or cluster count is out of range.
	ErrInvalidK = errors.New("invalid k")

	// ErrInvalidIterations is returned when the k-means iteration count is not positive.
	ErrInvalidIterations = errors.New("iterations must be positive")

	// ErrNoSamples is returned when a training or test set is empty.
	ErrNoSamples = errors.New("no samples")

	// ErrMalformedRecord is returned when a dataset record cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrEmptyPartition is returned when a quality index is undefined for the
	// sampled points.
	ErrEmptyPartition = errors.New("empty sample partition")

	// ErrNotFound is returned when a dataset blob does not exist.
	ErrNotFound = errors.New("not found")
)

// ErrDimensionMismatch indicates two vectors of different length met in one
// computation.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dm *distance.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	var mre *dataset.MalformedRecordError
	if errors.As(err, &mre) {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	switch {
	case errors.Is(err, classify.ErrInvalidK), errors.Is(err, search.ErrInvalidK), errors.Is(err, kmeans.ErrInvalidK):
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	case errors.Is(err, kmeans.ErrInvalidIterations):
		return fmt.Errorf("%w: %w", ErrInvalidIterations, err)
	case errors.Is(err, classify.ErrNoSamples), errors.Is(err, dataset.ErrEmpty):
		return fmt.Errorf("%w: %w", ErrNoSamples, err)
	case errors.Is(err, quality.ErrEmptyPartition):
		return fmt.Errorf("%w: %w", ErrEmptyPartition, err)
	case errors.Is(err, blobstore.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}
