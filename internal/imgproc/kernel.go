package imgproc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel is a dense correlation kernel with odd width and height.
type Kernel struct {
	Width, Height int
	Weights       []float64 // row-major, len = Width*Height
}

// SharpenKernel boosts the center against its eight neighbours. Its weights
// sum to one, so mean brightness is preserved.
var SharpenKernel = Kernel{
	Width:  3,
	Height: 3,
	Weights: []float64{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	},
}

func (k Kernel) validate() error {
	if k.Width <= 0 || k.Height <= 0 || k.Width%2 == 0 || k.Height%2 == 0 {
		return fmt.Errorf("kernel size must be odd and positive (got %dx%d)", k.Width, k.Height)
	}
	if len(k.Weights) != k.Width*k.Height {
		return fmt.Errorf("kernel has %d weights, want %d", len(k.Weights), k.Width*k.Height)
	}
	return nil
}

// GaussianKernel returns size normalised Gaussian coefficients. A
// non-positive sigma is derived from size as 0.3*((size-1)*0.5-1)+0.8.
func GaussianKernel(size int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.3*((float64(size)-1)*0.5-1) + 0.8
	}
	out := make([]float64, size)
	center := float64(size-1) / 2
	scale := -0.5 / (sigma * sigma)
	for i := range out {
		d := float64(i) - center
		out[i] = math.Exp(scale * d * d)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// reflect101 maps i into [0,n) mirroring around the edge pixels without
// repeating them: -1 -> 1, n -> n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

// saturate rounds half to even and clamps into the 8-bit range.
func saturate(v float64) uint8 {
	v = math.RoundToEven(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
