// Package pipeline turns image paths (and optionally a label CSV) into a
// batch of preprocessed grayscale images and a one-hot label matrix.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"glyph-forge/internal/dataset"
	"glyph-forge/internal/imgproc"
)

// ErrNoImages is returned when a batch is requested for zero paths.
var ErrNoImages = errors.New("pipeline: no image paths")

// Options configures a Pipeline.
type Options struct {
	// ResizeDim resamples every image to a ResizeDim square; 0 keeps sizes.
	ResizeDim int
	// NumClasses is the one-hot width. It has no default.
	NumClasses int
	// Transforms run after resizing; nil selects imgproc.DefaultChain.
	Transforms imgproc.Chain
	// Progress is notified after every image; nil disables reporting.
	Progress Progress
}

// Pipeline loads, transforms and labels image batches.
type Pipeline struct {
	opts Options
}

// Result is a prepared batch. Labels is nil when no label CSV was given.
type Result struct {
	Paths  []string
	Keys   []string
	Images Batch
	Labels *mat.Dense
}

// New validates opts once and returns a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.ResizeDim < 0 {
		return nil, fmt.Errorf("pipeline: resize dim must be >= 0 (got %d)", opts.ResizeDim)
	}
	if opts.NumClasses <= 0 {
		return nil, fmt.Errorf("pipeline: num classes must be > 0 (got %d)", opts.NumClasses)
	}
	if opts.Transforms == nil {
		opts.Transforms = imgproc.DefaultChain()
	}
	return &Pipeline{opts: opts}, nil
}

// Load prepares paths as a single batch. When labelsPath is non-empty every
// path's key must be present in the label table. Any failure aborts the
// whole batch and no partial result is returned.
func (p *Pipeline) Load(ctx context.Context, paths []string, labelsPath string) (*Result, error) {
	if len(paths) == 0 {
		return nil, ErrNoImages
	}

	var ids []int
	if labelsPath != "" {
		table, err := dataset.LoadLabels(labelsPath)
		if err != nil {
			return nil, err
		}
		ids, err = table.Resolve(paths)
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	images := make(Batch, len(paths))
	samples, errCh := p.Stream(ctx, paths)
	for samples != nil || errCh != nil {
		select {
		case sample, ok := <-samples:
			if !ok {
				samples = nil
				continue
			}
			images[sample.Index] = sample.Image
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}
	for i, img := range images {
		if img == nil {
			return nil, fmt.Errorf("pipeline: image %d (%s) missing from stream", i, paths[i])
		}
	}

	res := &Result{
		Paths:  append([]string(nil), paths...),
		Keys:   dataset.Keys(paths),
		Images: images,
	}
	if ids != nil {
		labels, err := dataset.OneHot(ids, p.opts.NumClasses)
		if err != nil {
			return nil, err
		}
		res.Labels = labels
	}
	return res, nil
}
