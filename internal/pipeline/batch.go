package pipeline

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"
)

// Batch is an ordered sequence of transformed images.
type Batch []*image.Gray

// Shape returns the batch size and the height and width of the first image.
func (b Batch) Shape() (n, h, w int) {
	if len(b) == 0 {
		return 0, 0, 0
	}
	r := b[0].Bounds()
	return len(b), r.Dy(), r.Dx()
}

// Matrix flattens the batch into an n x (h*w) matrix, row-major per image,
// multiplying every intensity by scale. All images must share one size.
func (b Batch) Matrix(scale float64) (*mat.Dense, error) {
	n, h, w := b.Shape()
	if n == 0 {
		return nil, fmt.Errorf("batch: empty")
	}
	data := make([]float64, 0, n*h*w)
	for i, img := range b {
		r := img.Bounds()
		if r.Dx() != w || r.Dy() != h {
			return nil, fmt.Errorf("batch: image %d is %dx%d, want %dx%d", i, r.Dx(), r.Dy(), w, h)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			row := img.Pix[img.PixOffset(r.Min.X, y):]
			for x := 0; x < w; x++ {
				data = append(data, float64(row[x])*scale)
			}
		}
	}
	return mat.NewDense(n, h*w, data), nil
}
