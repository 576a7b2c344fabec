package metrics

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Timing is one unit of measured work: Items images (or samples) that took
// Read to fetch and Work to process.
type Timing struct {
	Items int
	Read  time.Duration
	Work  time.Duration
}

// Window sums Timings until Flush. The zero value is ready to use.
type Window struct {
	count int
	total Timing
	loss  float64
	lossy bool
}

// Add accumulates t.
func (w *Window) Add(t Timing) {
	w.count++
	w.total.Items += t.Items
	w.total.Read += t.Read
	w.total.Work += t.Work
}

// SetLoss remembers the most recent training loss for the next Flush.
func (w *Window) SetLoss(loss float64) {
	w.loss = loss
	w.lossy = true
}

// Len reports how many Timings were added since the last Flush.
func (w *Window) Len() int { return w.count }

// Flush returns the rates over everything added so far and empties w.
func (w *Window) Flush() Rates {
	r := Rates{Count: w.count, Items: w.total.Items, Loss: w.loss, HasLoss: w.lossy}
	if busy := w.total.Read + w.total.Work; busy > 0 {
		r.PerSec = float64(w.total.Items) / busy.Seconds()
	}
	if w.count > 0 {
		r.ReadMS = ms(w.total.Read) / float64(w.count)
		r.WorkMS = ms(w.total.Work) / float64(w.count)
	}
	*w = Window{}
	return r
}

// Rates summarises a flushed Window. ReadMS and WorkMS are per Timing.
type Rates struct {
	Count   int
	Items   int
	PerSec  float64
	ReadMS  float64
	WorkMS  float64
	Loss    float64
	HasLoss bool
}

// Fields renders r for a logrus entry. Loss is only included when one was set.
func (r Rates) Fields() log.Fields {
	f := log.Fields{
		"items_per_sec": fmt.Sprintf("%.1f", r.PerSec),
		"read_ms":       fmt.Sprintf("%.2f", r.ReadMS),
		"work_ms":       fmt.Sprintf("%.2f", r.WorkMS),
	}
	if r.HasLoss {
		f["loss"] = fmt.Sprintf("%.4f", r.Loss)
	}
	return f
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
