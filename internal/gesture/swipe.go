// Package gesture turns a stream of hand positions into discrete swipe gestures.
package gesture

import (
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/ayusman/folio/internal/detector"
)

// Classifier defaults.
const (
	// DefaultThreshold is the horizontal displacement in pixels that fires a swipe.
	DefaultThreshold = 50.0
	// DefaultDebounce is how long tracking stays suspended after a swipe.
	DefaultDebounce = time.Second
)

// Direction is the horizontal direction of a swipe.
type Direction string

const (
	// Left is a swipe toward negative X.
	Left Direction = "left"
	// Right is a swipe toward positive X.
	Right Direction = "right"
)

// State is the tracking state of a Classifier.
type State int

const (
	// Idle has no reference position yet.
	Idle State = iota
	// Tracking holds a reference position.
	Tracking
	// Suspended is the idle debounce window that follows a swipe.
	Suspended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	case Suspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// Swipe describes one fired gesture.
type Swipe struct {
	Direction Direction
	From      detector.Centroid
	To        detector.Centroid
	Delta     float64
}

// Callbacks are invoked synchronously when a swipe fires. Either may be nil.
type Callbacks struct {
	OnLeft  func()
	OnRight func()
}

// Config holds classifier options.
type Config struct {
	// Threshold is the minimum |dx| that fires a swipe, inclusive.
	Threshold float64
	// Debounce is the suspension window after a swipe.
	Debounce time.Duration
}

// DefaultConfig returns the standard threshold and debounce window.
func DefaultConfig() Config {
	return Config{
		Threshold: DefaultThreshold,
		Debounce:  DefaultDebounce,
	}
}

// Classifier compares each new centroid to a reference and fires a swipe when
// the horizontal displacement reaches the threshold.
type Classifier struct {
	config    Config
	clock     clock.Clock
	callbacks Callbacks

	mu        sync.Mutex
	reference *detector.Centroid
	suspended bool
	resumeAt  time.Time
	// pending becomes the reference once the debounce window closes.
	pending detector.Centroid
}

// NewClassifier creates a Classifier. A nil clock uses the wall clock and
// non-positive config values fall back to the defaults.
func NewClassifier(config Config, clk clock.Clock, callbacks Callbacks) *Classifier {
	if config.Threshold <= 0 {
		config.Threshold = DefaultThreshold
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if clk == nil {
		clk = clock.New()
	}

	return &Classifier{
		config:    config,
		clock:     clk,
		callbacks: callbacks,
	}
}

// Observe feeds the centroid found in one frame and returns the swipe it
// fired, if any. Centroids arriving inside the debounce window are dropped.
func (c *Classifier) Observe(pt detector.Centroid) (Swipe, bool) {
	c.mu.Lock()

	now := c.clock.Now()
	c.advance(now)

	if c.suspended {
		c.mu.Unlock()
		return Swipe{}, false
	}

	if c.reference == nil {
		ref := pt
		c.reference = &ref
		c.mu.Unlock()
		return Swipe{}, false
	}

	delta := pt.X - c.reference.X
	if math.Abs(delta) < c.config.Threshold {
		*c.reference = pt
		c.mu.Unlock()
		return Swipe{}, false
	}

	swipe := Swipe{
		Direction: Right,
		From:      *c.reference,
		To:        pt,
		Delta:     delta,
	}
	if delta < 0 {
		swipe.Direction = Left
	}

	c.reference = nil
	c.suspended = true
	c.pending = pt
	c.resumeAt = now.Add(c.config.Debounce)

	callback := c.callbacks.OnRight
	if swipe.Direction == Left {
		callback = c.callbacks.OnLeft
	}
	c.mu.Unlock()

	// Call the callback outside the lock so it may query the classifier
	if callback != nil {
		callback()
	}

	return swipe, true
}

// advance closes an expired debounce window. Caller must hold c.mu.
func (c *Classifier) advance(now time.Time) {
	if !c.suspended || now.Before(c.resumeAt) {
		return
	}
	ref := c.pending
	c.reference = &ref
	c.suspended = false
}

// State returns the current tracking state.
func (c *Classifier) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advance(c.clock.Now())

	switch {
	case c.suspended:
		return Suspended
	case c.reference != nil:
		return Tracking
	default:
		return Idle
	}
}

// Reference returns the current reference centroid, if tracking.
func (c *Classifier) Reference() (detector.Centroid, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advance(c.clock.Now())

	if c.reference == nil {
		return detector.Centroid{}, false
	}
	return *c.reference, true
}

// Reset drops the reference and any pending debounce window.
func (c *Classifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reference = nil
	c.suspended = false
	c.pending = detector.Centroid{}
	c.resumeAt = time.Time{}
}
