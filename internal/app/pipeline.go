package app

import (
	"errors"

	"github.com/benbjohnson/clock"

	"github.com/ayusman/folio/internal/capture"
	"github.com/ayusman/folio/internal/detector"
	"github.com/ayusman/folio/internal/gesture"
	"github.com/ayusman/folio/internal/store"
)

// runPipeline is the detection loop. Every interval it samples one frame,
// estimates the hand centroid and feeds it to the swipe classifier.
//
// Pipeline logic:
// 1. Skip the tick when disabled, when a pass is still running, or when the
// camera surface is gone
// 2. Copy the frame into the RGBA buffer
// 3. Scan for skin-like pixels; no centroid means no hand this tick
// 4. Classify the centroid; a fired swipe is published and journalled
func (a *App) runPipeline(ticker *clock.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.tick()
		}
	}
}

// tick runs one sampling and classification pass.
func (a *App) tick() {
	defer a.ticks.Add(1)

	if !a.IsEnabled() {
		a.skipped.Add(1)
		return
	}

	err := a.sampler.Sample(a.process)
	switch {
	case err == nil:
	case errors.Is(err, capture.ErrBusy), errors.Is(err, capture.ErrSurfaceNotReady):
		a.skipped.Add(1)
		a.logger.Debugw("sampling tick skipped", "reason", err)
	default:
		a.skipped.Add(1)
		a.logger.Warnw("sampling tick failed", "error", err)
	}
}

// process classifies one sampled frame.
func (a *App) process(p capture.Pass) error {
	var overlay detector.Overlay
	if a.config.Overlay {
		overlay = capture.NewMatOverlay(p.Frame, detector.DefaultStride)
	}

	res := a.detector.Detect(p.Pixels, overlay)

	if a.config.Overlay {
		a.storePreview(p)
	}

	if !res.Found {
		return nil
	}

	swipe, fired := a.classifier.Observe(res.Centroid)
	if fired {
		a.handleSwipe(swipe)
	}

	return nil
}

func (a *App) storePreview(p capture.Pass) {
	data, err := capture.EncodeJPEG(p.Frame)
	if err != nil {
		a.logger.Debugw("encoding preview failed", "error", err)
		return
	}

	a.statusMu.Lock()
	a.preview = data
	a.statusMu.Unlock()
}

// handleSwipe publishes, journals and reports a fired swipe.
func (a *App) handleSwipe(s gesture.Swipe) {
	ev := gesture.NewEvent(s, a.clock.Now())

	a.fired.Add(1)
	a.statusMu.Lock()
	a.lastGesture = s.Direction
	a.statusMu.Unlock()

	section := -1
	if a.config.Section != nil {
		section = a.config.Section()
	}

	a.logger.Infow("gesture detected",
		"direction", s.Direction,
		"delta", s.Delta,
		"x", s.To.X,
		"y", s.To.Y,
		"section", section,
	)

	if a.config.Bus != nil {
		a.config.Bus.Publish(ev)
	}

	if a.config.Store != nil {
		err := a.config.Store.Events().Record(&store.Event{
			ID:         ev.ID.String(),
			Direction:  string(ev.Direction),
			FromX:      ev.From.X,
			FromY:      ev.From.Y,
			ToX:        ev.To.X,
			ToY:        ev.To.Y,
			Delta:      ev.Delta,
			Section:    section,
			OccurredAt: ev.At,
		})
		if err != nil {
			a.logger.Warnw("journalling gesture failed", "error", err)
		}
	}

	a.callbacksMu.RLock()
	callbacks := append([]func(gesture.Event){}, a.callbacks...)
	a.callbacksMu.RUnlock()

	for _, fn := range callbacks {
		fn(ev)
	}
}
