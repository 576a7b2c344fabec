package imgproc

import (
	"fmt"
	"image"
)

// Transform maps a grayscale image to a new one without modifying its input.
type Transform interface {
	Apply(img *image.Gray) (*image.Gray, error)
	Name() string
}

// Chain applies its transforms in order.
type Chain []Transform

// Apply runs every transform of the chain.
func (c Chain) Apply(img *image.Gray) (*image.Gray, error) {
	out := img
	for _, t := range c {
		next, err := t.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
		out = next
	}
	return out, nil
}

// UnsharpParams configures UnsharpMask.
type UnsharpParams struct {
	KernelSize int     // odd Gaussian window, e.g. 9
	Sigma      float64 // Gaussian sigma; <= 0 derives it from KernelSize
	Amount     float64 // weight of the original; the blur gets 1-Amount
}

// DefaultUnsharp blurs with a 9x9 Gaussian of sigma 10 and combines
// 1.5*original - 0.5*blurred.
var DefaultUnsharp = UnsharpParams{KernelSize: 9, Sigma: 10, Amount: 1.5}

type unsharp struct {
	params UnsharpParams
}

// UnsharpMask returns the weighted original-minus-blur sharpening step.
func UnsharpMask(p UnsharpParams) Transform {
	return unsharp{params: p}
}

func (u unsharp) Name() string { return "unsharp" }

func (u unsharp) Apply(img *image.Gray) (*image.Gray, error) {
	size := u.params.KernelSize
	if size <= 0 || size%2 == 0 {
		return nil, fmt.Errorf("kernel size must be odd and positive (got %d)", size)
	}
	src := ToGray(img)
	blurred := GaussianBlur(src, size, u.params.Sigma)
	alpha := u.params.Amount
	beta := 1 - alpha
	dst := image.NewGray(src.Rect)
	for i := range src.Pix {
		dst.Pix[i] = saturate(alpha*float64(src.Pix[i]) + beta*float64(blurred.Pix[i]))
	}
	return dst, nil
}

type kernelFilter struct {
	name   string
	kernel Kernel
}

// Convolve returns a Transform applying k through Filter2D.
func Convolve(name string, k Kernel) Transform {
	return kernelFilter{name: name, kernel: k}
}

func (f kernelFilter) Name() string { return f.name }

func (f kernelFilter) Apply(img *image.Gray) (*image.Gray, error) {
	return Filter2D(img, f.kernel)
}

// Sharpen3x3 is the second, stronger sharpening pass.
var Sharpen3x3 = Convolve("sharpen3x3", SharpenKernel)

// DefaultChain is unsharp masking followed by the 3x3 sharpening kernel.
func DefaultChain() Chain {
	return Chain{UnsharpMask(DefaultUnsharp), Sharpen3x3}
}
