package pipeline

import (
	"time"

	log "github.com/sirupsen/logrus"

	"glyph-forge/internal/metrics"
)

// Progress observes each processed image. Reporting is observational only.
type Progress interface {
	Step(done, total int, loadTime, transformTime time.Duration)
}

// LogProgress logs "processed done/total" every Every images and on the last one.
type LogProgress struct {
	Name   string
	Every  int
	Logger log.FieldLogger

	window metrics.Window
}

// Step implements Progress.
func (l *LogProgress) Step(done, total int, loadTime, transformTime time.Duration) {
	l.window.Add(metrics.Timing{Items: 1, Read: loadTime, Work: transformTime})
	every := l.Every
	if every <= 0 {
		every = 1
	}
	if done%every != 0 && done != total {
		return
	}
	logger := l.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	fields := l.window.Flush().Fields()
	fields["set"] = l.Name
	logger.WithFields(fields).Infof("[Pipeline] processed %d/%d", done, total)
}
