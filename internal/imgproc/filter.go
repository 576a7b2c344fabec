package imgproc

import (
	"image"
)

// Filter2D correlates img with k. Pixels outside the image are taken from
// the reflect-101 border, results are rounded and saturated.
func Filter2D(img *image.Gray, k Kernel) (*image.Gray, error) {
	if err := k.validate(); err != nil {
		return nil, err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	src := ToGray(img)
	dst := image.NewGray(image.Rect(0, 0, w, h))
	rx, ry := k.Width/2, k.Height/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for ky := 0; ky < k.Height; ky++ {
				sy := reflect101(y+ky-ry, h)
				row := src.Pix[sy*src.Stride : sy*src.Stride+w]
				for kx := 0; kx < k.Width; kx++ {
					sum += k.Weights[ky*k.Width+kx] * float64(row[reflect101(x+kx-rx, w)])
				}
			}
			dst.Pix[y*dst.Stride+x] = saturate(sum)
		}
	}
	return dst, nil
}

// separableBlur convolves img with coeffs along x then y, keeping the
// intermediate in float64 and rounding once.
func separableBlur(img *image.Gray, coeffs []float64) []float64 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	src := ToGray(img)
	r := len(coeffs) / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			sum := 0.0
			for i, c := range coeffs {
				sum += c * float64(row[reflect101(x+i-r, w)])
			}
			tmp[y*w+x] = sum
		}
	}

	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for i, c := range coeffs {
				sum += c * tmp[reflect101(y+i-r, h)*w+x]
			}
			out[y*w+x] = sum
		}
	}
	return out
}

// GaussianBlur smooths img with a size x size Gaussian of the given sigma.
func GaussianBlur(img *image.Gray, size int, sigma float64) *image.Gray {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	blurred := separableBlur(img, GaussianKernel(size, sigma))
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range blurred {
		dst.Pix[(i/w)*dst.Stride+i%w] = saturate(v)
	}
	return dst
}
