package model

import (
	"fmt"
	"slices"
)

// Dimension is the default number of components in a record vector (28x28 pixels).
const Dimension = 784

// NoCluster marks a vector that has not been assigned to a cluster.
const NoCluster = -1

// LabeledVector is a labeled feature vector.
//
// Label and Vector are immutable once created. Cluster is written by k-means
// on every assignment pass and read by the cluster-quality metrics.
type LabeledVector struct {
	Label   int
	Vector  []float64
	Cluster int
}

// NewLabeledVector creates an unclustered LabeledVector.
func NewLabeledVector(label int, vector []float64) *LabeledVector {
	return &LabeledVector{
		Label:   label,
		Vector:  vector,
		Cluster: NoCluster,
	}
}

// Dim returns the number of vector components.
func (v *LabeledVector) Dim() int {
	return len(v.Vector)
}

// Clustered reports whether the vector has been assigned to a cluster.
func (v *LabeledVector) Clustered() bool {
	return v.Cluster != NoCluster
}

// SameCluster reports whether v and o are assigned to the same cluster.
func (v *LabeledVector) SameCluster(o *LabeledVector) bool {
	return v.Clustered() && v.Cluster == o.Cluster
}

// Clone returns a deep copy of v.
func (v *LabeledVector) Clone() *LabeledVector {
	return &LabeledVector{
		Label:   v.Label,
		Vector:  slices.Clone(v.Vector),
		Cluster: v.Cluster,
	}
}

// String returns a short representation of the vector.
func (v *LabeledVector) String() string {
	return fmt.Sprintf("LabeledVector(label=%d, dim=%d, cluster=%d)", v.Label, len(v.Vector), v.Cluster)
}

// Labels returns the labels of vs in order.
func Labels(vs []*LabeledVector) []int {
	labels := make([]int, len(vs))
	for i, v := range vs {
		labels[i] = v.Label
	}
	return labels
}
