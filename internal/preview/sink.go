package preview

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
)

// Sink displays or stores a rendered grid.
type Sink interface {
	Show(img image.Image) error
}

// PNGSink writes each grid to Path, creating parent directories.
type PNGSink struct {
	Path string
}

// Show implements Sink.
func (s PNGSink) Show(img image.Image) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}
	if err := imaging.Save(img, s.Path); err != nil {
		return fmt.Errorf("preview: save %s: %w", s.Path, err)
	}
	log.WithField("path", s.Path).Debug("[Preview] wrote grid")
	return nil
}

// Show renders p with g and hands the result to sink.
func Show(sink Sink, g Grid, p Panel) error {
	img, err := g.Render(p)
	if err != nil {
		return err
	}
	return sink.Show(img)
}
