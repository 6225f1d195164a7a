// Package model defines the data types shared by the classification and
// clustering packages.
//
//   - LabeledVector: a label, its feature vector and the cluster it was
//     last assigned to
//   - Dimension: the default record dimension (28x28 pixel images)
package model
