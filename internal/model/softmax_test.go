package model

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestSoftmaxTrainStepReducesLoss(t *testing.T) {
	model := NewSoftmax(3, 4, 0.1, 1)
	batch := Batch{
		Inputs: [][]float64{
			{0.1, 0.2, 0.3, 0.4},
			{0.4, 0.3, 0.2, 0.1},
		},
		Labels: []int{1, 2},
	}
	loss1 := model.TrainStep(batch)
	loss2 := model.TrainStep(batch)
	if loss2 > loss1 {
		t.Fatalf("expected loss to decrease; loss1=%f loss2=%f", loss1, loss2)
	}
}

func TestSoftmaxSkipsOutOfRangeLabels(t *testing.T) {
	model := NewSoftmax(2, 2, 0.1, 1)
	loss := model.TrainStep(Batch{Inputs: [][]float64{{1, 0}}, Labels: []int{5}})
	if loss != 0 {
		t.Fatalf("expected skipped sample to contribute no loss, got %f", loss)
	}
}

func TestSoftmaxPredictRowsAreDistributions(t *testing.T) {
	model := NewSoftmax(10, 3, 0.1, 2)
	x := mat.NewDense(2, 3, []float64{0.2, 0.4, 0.6, 1, 0, 0})
	if model.NumClasses() != 10 {
		t.Fatalf("NumClasses=%d want 10", model.NumClasses())
	}
	probs := model.Predict(x)
	rows, cols := probs.Dims()
	if rows != 2 || cols != 10 {
		t.Fatalf("expected (2,10), got (%d,%d)", rows, cols)
	}
	for i := 0; i < rows; i++ {
		if sum := floats.Sum(probs.RawRowView(i)); math.Abs(sum-1) > 1e-9 {
			t.Fatalf("row %d sums to %f", i, sum)
		}
	}
}
