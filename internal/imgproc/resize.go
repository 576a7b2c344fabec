package imgproc

import (
	"image"
	"math"
)

// ResizeArea resamples img to a dim x dim square. On an axis that shrinks,
// each output pixel is the mean of the source span it covers, with partly
// covered source pixels weighted by their overlap. On an axis that grows,
// samples are interpolated linearly between pixel centers. A non-positive
// dim returns an unscaled copy.
func ResizeArea(img *image.Gray, dim int) *image.Gray {
	src := ToGray(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if dim <= 0 || (w == dim && h == dim) {
		return src
	}

	xw := axisWeights(w, dim)
	yw := axisWeights(h, dim)

	tmp := make([]float64, dim*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x, taps := range xw {
			sum := 0.0
			for _, t := range taps {
				sum += t.weight * float64(row[t.index])
			}
			tmp[y*dim+x] = sum
		}
	}

	dst := image.NewGray(image.Rect(0, 0, dim, dim))
	for y, taps := range yw {
		for x := 0; x < dim; x++ {
			sum := 0.0
			for _, t := range taps {
				sum += t.weight * tmp[t.index*dim+x]
			}
			dst.Pix[y*dst.Stride+x] = saturate(sum)
		}
	}
	return dst
}

type tap struct {
	index  int
	weight float64
}

// axisWeights returns, for every output position, the source taps and
// weights along one axis of length n resampled to m.
func axisWeights(n, m int) [][]tap {
	out := make([][]tap, m)
	scale := float64(n) / float64(m)
	if m <= n {
		for i := range out {
			lo := float64(i) * scale
			hi := lo + scale
			for j := int(math.Floor(lo)); j < n && float64(j) < hi; j++ {
				cover := math.Min(hi, float64(j+1)) - math.Max(lo, float64(j))
				if cover > 0 {
					out[i] = append(out[i], tap{index: j, weight: cover / scale})
				}
			}
		}
		return out
	}
	for i := range out {
		f := (float64(i)+0.5)*scale - 0.5
		if f < 0 {
			f = 0
		}
		j := int(math.Floor(f))
		t := f - float64(j)
		if j >= n-1 {
			out[i] = []tap{{index: n - 1, weight: 1}}
			continue
		}
		out[i] = []tap{{index: j, weight: 1 - t}, {index: j + 1, weight: t}}
	}
	return out
}
