// Package preview renders batches of glyphs into an annotated grid image.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TopN is the number of predictions annotated per image.
const TopN = 3

const lineHeight = 14

// Panel is one grid worth of images with their annotations.
// Probabilities switches the grid to prediction mode.
type Panel struct {
	Images        []*image.Gray
	Truth         []int      // optional, one class id per image
	Probabilities *mat.Dense // optional, one row of class probabilities per image
}

// Grid lays images out PerRow to a row, each scaled to CellSize pixels.
type Grid struct {
	PerRow   int
	CellSize int
}

// Render draws the panel. In processed mode every cell is titled with its
// true label; in prediction mode the top three classes and their confidence
// are written under each image and the true label above it.
func (g Grid) Render(p Panel) (image.Image, error) {
	n := len(p.Images)
	if n == 0 {
		return nil, errors.New("preview: no images")
	}
	if p.Truth != nil && len(p.Truth) != n {
		return nil, fmt.Errorf("preview: %d labels for %d images", len(p.Truth), n)
	}
	if p.Probabilities != nil {
		if rows, _ := p.Probabilities.Dims(); rows != n {
			return nil, fmt.Errorf("preview: %d prediction rows for %d images", rows, n)
		}
	}
	perRow := g.PerRow
	if perRow <= 0 {
		perRow = 10
	}
	if perRow > n {
		perRow = n
	}
	cell := g.CellSize
	if cell <= 0 {
		cell = 96
	}

	top := lineHeight + 4
	bottom := 4
	if p.Probabilities != nil {
		bottom = TopN*lineHeight + 4
	}
	cellW := cell + 8
	cellH := top + cell + bottom
	rows := (n + perRow - 1) / perRow

	canvas := imaging.New(perRow*cellW, rows*cellH, color.White)
	for i, img := range p.Images {
		x0 := (i % perRow) * cellW
		y0 := (i / perRow) * cellH
		scaled := imaging.Resize(img, cell, cell, imaging.NearestNeighbor)
		canvas = imaging.Paste(canvas, scaled, image.Pt(x0+4, y0+top))

		center := x0 + cellW/2
		if p.Probabilities == nil {
			if p.Truth != nil {
				drawCentered(canvas, center, y0+lineHeight, fmt.Sprintf("%d", p.Truth[i]))
			}
			continue
		}
		if p.Truth != nil {
			drawCentered(canvas, center, y0+lineHeight, fmt.Sprintf("true label: %d", p.Truth[i]))
		}
		for k, pred := range TopK(mat.Row(nil, i, p.Probabilities), TopN) {
			line := fmt.Sprintf("pred: %d (%.0f%%)", pred.Class, pred.Prob*100)
			drawCentered(canvas, center, y0+top+cell+(k+1)*lineHeight, line)
		}
	}
	return canvas, nil
}

// Prediction is a class and its probability.
type Prediction struct {
	Class int
	Prob  float64
}

// TopK returns the k most probable classes of probs, highest first.
func TopK(probs []float64, k int) []Prediction {
	sorted := append([]float64(nil), probs...)
	inds := make([]int, len(sorted))
	floats.Argsort(sorted, inds)
	if k > len(inds) {
		k = len(inds)
	}
	out := make([]Prediction, 0, k)
	for i := len(inds) - 1; i >= 0 && len(out) < k; i-- {
		out = append(out, Prediction{Class: inds[i], Prob: sorted[i]})
	}
	return out
}

func drawCentered(dst *image.NRGBA, cx, baseline int, s string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(cx-width/2, baseline),
	}
	d.DrawString(s)
}
