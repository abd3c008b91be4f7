package hotspot

import (
	"context"
	"errors"
	"time"

	"github.com/civic-data/hotspot.report/internal/monitoring"
	"github.com/civic-data/hotspot.report/internal/timeutil"
)

// Worker periodically regenerates hotspots from the current report set.
// Each tick is a full recompute: cluster identity is not carried across
// runs. Designed to run on a coarse interval (minutes); a tick that finds
// a run already in flight is skipped and retried on the next tick.
type Worker struct {
	Generator *Generator
	Interval  time.Duration
	// Clock defaults to the real clock; tests inject a mock.
	Clock    timeutil.Clock
	StopChan chan struct{}
}

// NewWorker creates a periodic worker around the generator.
func NewWorker(g *Generator, interval time.Duration) *Worker {
	return &Worker{
		Generator: g,
		Interval:  interval,
		StopChan:  make(chan struct{}),
	}
}

// Start runs the periodic loop in a goroutine until Stop is called or the
// context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	if w.Clock == nil {
		w.Clock = timeutil.RealClock{}
	}
	if w.StopChan == nil {
		w.StopChan = make(chan struct{})
	}
	go func() {
		ticker := w.Clock.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				if _, err := w.Generator.Run(ctx); err != nil {
					if errors.Is(err, ErrRunInFlight) {
						monitoring.Logf("hotspot worker: previous run still in flight, skipping tick")
						continue
					}
					monitoring.Logf("hotspot worker run error: %v", err)
				}
			case <-w.StopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RunOnce triggers a single generation pass outside the periodic loop.
func (w *Worker) RunOnce(ctx context.Context) (*Summary, error) {
	return w.Generator.Run(ctx)
}

// Stop requests the worker to stop. Safe to call once.
func (w *Worker) Stop() {
	close(w.StopChan)
}
