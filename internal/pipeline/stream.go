package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"glyph-forge/internal/dataset"
	"glyph-forge/internal/imgproc"
)

// Sample is one transformed image together with its position in the input.
type Sample struct {
	Index int
	Path  string
	Key   string
	Image *image.Gray
}

// Stream lazily loads and transforms paths in order, one image at a time.
// The sequence is finite and each call starts a fresh pass over paths. The
// first failure is sent on the error channel and ends the stream.
//
// The producer blocks until each sample is received, so a caller that stops
// reading before both channels close must cancel ctx to release it. After
// cancellation the sample channel closes and the error channel yields
// ctx.Err() (or nothing, if the pass had already finished).
func (p *Pipeline) Stream(ctx context.Context, paths []string) (<-chan Sample, <-chan error) {
	out := make(chan Sample)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		for i, path := range paths {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			default:
			}

			startLoad := time.Now()
			img, err := imgproc.Load(path)
			if err != nil {
				errCh <- err
				return
			}
			loadTime := time.Since(startLoad)

			startTransform := time.Now()
			img, err = p.transform(img)
			if err != nil {
				errCh <- fmt.Errorf("transform %s: %w", path, err)
				return
			}
			transformTime := time.Since(startTransform)

			if p.opts.Progress != nil {
				p.opts.Progress.Step(i+1, len(paths), loadTime, transformTime)
			}

			sample := Sample{Index: i, Path: path, Key: dataset.Key(path), Image: img}
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- sample:
			}
		}
	}()

	return out, errCh
}

func (p *Pipeline) transform(img *image.Gray) (*image.Gray, error) {
	if p.opts.ResizeDim > 0 {
		img = imgproc.ResizeArea(img, p.opts.ResizeDim)
	}
	return p.opts.Transforms.Apply(img)
}
