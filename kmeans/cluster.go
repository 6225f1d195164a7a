package kmeans

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/knnmeans/model"
)

// Cluster is one k-means cluster. ID is stable for the whole run.
type Cluster struct {
	ID      int
	Center  []float64
	Members []*model.LabeledVector
}

// NewCluster creates an empty cluster with a copy of center.
func NewCluster(id int, center []float64) *Cluster {
	return &Cluster{
		ID:     id,
		Center: slices.Clone(center),
	}
}

// Add assigns v to the cluster and records the cluster id on v.
func (c *Cluster) Add(v *model.LabeledVector) {
	v.Cluster = c.ID
	c.Members = append(c.Members, v)
}

// RecomputeCenter sets the center to the component-wise mean of the members
// and clears the member list. A cluster without members keeps its center and
// RecomputeCenter returns false.
func (c *Cluster) RecomputeCenter() bool {
	if len(c.Members) == 0 {
		return false
	}

	sum := make([]float64, len(c.Center))
	for _, m := range c.Members {
		floats.Add(sum, m.Vector)
	}
	floats.Scale(1/float64(len(c.Members)), sum)

	c.Center = sum
	c.Members = c.Members[:0]
	return true
}

// Len returns the number of members.
func (c *Cluster) Len() int {
	return len(c.Members)
}

// Labels returns the member labels.
func (c *Cluster) Labels() []int {
	return model.Labels(c.Members)
}

// Vectors returns the member vectors.
func (c *Cluster) Vectors() [][]float64 {
	out := make([][]float64, len(c.Members))
	for i, m := range c.Members {
		out[i] = m.Vector
	}
	return out
}

// MajorityLabel returns the most frequent member label and its share of the
// members. On ties the label that reached the count first wins. ok is false
// for an empty cluster.
func (c *Cluster) MajorityLabel() (label int, share float64, ok bool) {
	if len(c.Members) == 0 {
		return 0, 0, false
	}

	counts := make(map[int]int)
	best := 0
	for _, m := range c.Members {
		counts[m.Label]++
		if counts[m.Label] > best {
			best = counts[m.Label]
			label = m.Label
		}
	}
	return label, float64(best) / float64(len(c.Members)), true
}

// Members returns the members of all clusters in cluster order.
func Members(clusters []*Cluster) []*model.LabeledVector {
	n := 0
	for _, c := range clusters {
		n += len(c.Members)
	}
	out := make([]*model.LabeledVector, 0, n)
	for _, c := range clusters {
		out = append(out, c.Members...)
	}
	return out
}
