package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrClassOutOfRange indicates a class id outside [0, numClasses).
var ErrClassOutOfRange = errors.New("class id out of range")

// OneHot encodes ids as an len(ids) x numClasses matrix with a single 1 per row.
func OneHot(ids []int, numClasses int) (*mat.Dense, error) {
	if numClasses <= 0 {
		return nil, fmt.Errorf("one-hot: num classes must be > 0 (got %d)", numClasses)
	}
	if len(ids) == 0 {
		return nil, errors.New("one-hot: no ids")
	}
	out := mat.NewDense(len(ids), numClasses, nil)
	for i, id := range ids {
		if id < 0 || id >= numClasses {
			return nil, fmt.Errorf("one-hot: row %d: %w (%d not in [0,%d))", i, ErrClassOutOfRange, id, numClasses)
		}
		out.Set(i, id, 1)
	}
	return out, nil
}

// ClassIDs recovers the class id of every one-hot row.
func ClassIDs(labels *mat.Dense) []int {
	rows, cols := labels.Dims()
	ids := make([]int, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if labels.At(i, j) == 1 {
				ids[i] = j
				break
			}
		}
	}
	return ids
}
