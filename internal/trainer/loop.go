package trainer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"glyph-forge/internal/metrics"
	"glyph-forge/internal/model"
)

// FitConfig captures the knobs required by the training loop.
type FitConfig struct {
	Epochs    int
	BatchSize int
	LogEvery  int
	Seed      int64
}

// Fit trains mdl on the rows of x for cfg.Epochs epochs of shuffled
// minibatches and returns the average loss of the final epoch.
func Fit(ctx context.Context, mdl model.Model, x *mat.Dense, labels []int, cfg FitConfig) (float64, error) {
	if cfg.Epochs <= 0 {
		return 0, errors.New("trainer: epochs must be > 0")
	}
	if cfg.BatchSize <= 0 {
		return 0, errors.New("trainer: batch size must be > 0")
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 50
	}
	rows, _ := x.Dims()
	if rows != len(labels) {
		return 0, fmt.Errorf("trainer: %d inputs for %d labels", rows, len(labels))
	}
	if rows == 0 {
		return 0, errors.New("trainer: no samples")
	}
	for i, label := range labels {
		if label < 0 || label >= mdl.NumClasses() {
			return 0, fmt.Errorf("trainer: label %d of row %d outside [0, %d)", label, i, mdl.NumClasses())
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}

	var window metrics.Window
	step := 0
	epochLoss := 0.0
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		epochLoss = 0
		batches := 0
		for start := 0; start < rows; start += cfg.BatchSize {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			default:
			}

			startData := time.Now()
			batch := nextBatch(x, labels, order[start:min(start+cfg.BatchSize, rows)])
			dataTime := time.Since(startData)

			startCompute := time.Now()
			loss := mdl.TrainStep(batch)
			computeTime := time.Since(startCompute)

			window.Add(metrics.Timing{Items: len(batch.Inputs), Read: dataTime, Work: computeTime})
			window.SetLoss(loss)
			epochLoss += loss
			batches++
			step++

			if step%cfg.LogEvery == 0 {
				fields := window.Flush().Fields()
				fields["epoch"] = epoch
				fields["step"] = step
				log.WithFields(fields).Info("[Trainer] progress")
			}
		}
		epochLoss /= float64(batches)
		log.WithFields(log.Fields{"epoch": epoch, "loss": fmt.Sprintf("%.4f", epochLoss)}).Debug("[Trainer] epoch done")
	}

	return epochLoss, nil
}

// Accuracy returns the fraction of rows of x whose most probable class
// matches labels.
func Accuracy(mdl model.Model, x *mat.Dense, labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	probs := mdl.Predict(x)
	correct := 0
	for i, label := range labels {
		if floats.MaxIdx(probs.RawRowView(i)) == label {
			correct++
		}
	}
	return float64(correct) / float64(len(labels))
}

func nextBatch(x *mat.Dense, labels []int, idx []int) model.Batch {
	inputs := make([][]float64, 0, len(idx))
	batchLabels := make([]int, 0, len(idx))
	for _, i := range idx {
		inputs = append(inputs, x.RawRowView(i))
		batchLabels = append(batchLabels, labels[i])
	}
	return model.Batch{Inputs: inputs, Labels: batchLabels}
}
