package model

import "gonum.org/v1/gonum/mat"

// Batch represents a minibatch of flattened images and class ids.
type Batch struct {
	Inputs [][]float64
	Labels []int
}

// Model is a classifier trained one minibatch at a time.
type Model interface {
	NumClasses() int
	TrainStep(batch Batch) float64
	Predict(x *mat.Dense) *mat.Dense
}
