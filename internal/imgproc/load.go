// Package imgproc loads grayscale images and applies the resize and
// sharpening steps used to prepare glyphs for classification.
package imgproc

import (
	"fmt"
	"image"
	_ "image/gif"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Load decodes the image at path as a single-channel intensity grid. EXIF
// orientation is applied before conversion.
func Load(path string) (*image.Gray, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return ToGray(img), nil
}

// ToGray converts img to an *image.Gray anchored at the origin using
// ITU-R 601 luma weights. Alpha is ignored: a transparent pixel keeps the
// luma of its unpremultiplied color. Gray inputs are copied.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if g, ok := img.(*image.Gray); ok {
		draw.Draw(dst, dst.Bounds(), g, b.Min, draw.Src)
		return dst
	}
	opaque := imaging.Clone(img)
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 0xff
	}
	draw.Draw(dst, dst.Bounds(), opaque, opaque.Bounds().Min, draw.Src)
	return dst
}
