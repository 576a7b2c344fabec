package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Softmax is a linear classifier with softmax cross-entropy, used as the
// baseline over preprocessed glyphs.
type Softmax struct {
	numClasses int
	inputSize  int
	weights    []float64
	bias       []float64
	lr         float64
}

// NewSoftmax constructs the model with small random weights. numClasses and
// inputSize must be positive; a non-positive lr selects 0.01.
func NewSoftmax(numClasses, inputSize int, lr float64, seed int64) *Softmax {
	if lr <= 0 {
		lr = 0.01
	}
	rng := rand.New(rand.NewSource(seed))
	weights := make([]float64, numClasses*inputSize)
	for i := range weights {
		weights[i] = (rng.Float64()*2 - 1) * 0.01
	}
	return &Softmax{
		numClasses: numClasses,
		inputSize:  inputSize,
		weights:    weights,
		bias:       make([]float64, numClasses),
		lr:         lr,
	}
}

// NumClasses returns the output width.
func (m *Softmax) NumClasses() int { return m.numClasses }

// TrainStep executes one SGD pass over batch and returns the average loss.
// Inputs of the wrong width and labels outside the class range are skipped.
func (m *Softmax) TrainStep(batch Batch) float64 {
	if len(batch.Inputs) == 0 {
		return 0
	}
	totalLoss := 0.0
	used := 0
	for i, input := range batch.Inputs {
		label := batch.Labels[i]
		if len(input) != m.inputSize || label < 0 || label >= m.numClasses {
			continue
		}
		probs := m.forward(input)
		totalLoss += -math.Log(math.Max(probs[label], 1e-9))
		used++

		probs[label] -= 1
		for c := 0; c < m.numClasses; c++ {
			grad := probs[c]
			m.bias[c] -= m.lr * grad
			wStart := c * m.inputSize
			for j := 0; j < m.inputSize; j++ {
				m.weights[wStart+j] -= m.lr * grad * input[j]
			}
		}
	}
	if used == 0 {
		return 0
	}
	return totalLoss / float64(used)
}

// Predict returns one row of class probabilities per row of x.
func (m *Softmax) Predict(x *mat.Dense) *mat.Dense {
	rows, _ := x.Dims()
	out := mat.NewDense(rows, m.numClasses, nil)
	for i := 0; i < rows; i++ {
		out.SetRow(i, m.forward(x.RawRowView(i)))
	}
	return out
}

func (m *Softmax) forward(input []float64) []float64 {
	logits := make([]float64, m.numClasses)
	for c := 0; c < m.numClasses; c++ {
		sum := m.bias[c]
		wStart := c * m.inputSize
		for j := 0; j < m.inputSize && j < len(input); j++ {
			sum += m.weights[wStart+j] * input[j]
		}
		logits[c] = sum
	}
	return softmax(logits)
}

func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, v := range logits {
		if v > maxLogit {
			maxLogit = v
		}
	}
	sum := 0.0
	out := make([]float64, len(logits))
	for i, v := range logits {
		exp := math.Exp(v - maxLogit)
		out[i] = exp
		sum += exp
	}
	inv := 1.0 / sum
	for i := range out {
		out[i] *= inv
	}
	return out
}
