// Package app wires camera sampling, hand detection and swipe classification
// into the gesture control loop behind a single enable toggle.
package app

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/ayusman/folio/internal/capture"
	"github.com/ayusman/folio/internal/detector"
	"github.com/ayusman/folio/internal/gesture"
	"github.com/ayusman/folio/internal/store"
)

// DefaultInterval is the sampling period of the detection loop.
const DefaultInterval = time.Second

// PermissionState reports the outcome of the last camera acquisition.
type PermissionState string

const (
	// PermissionUnknown means the camera has not been requested yet.
	PermissionUnknown PermissionState = "unknown"
	// PermissionGranted means the camera was acquired.
	PermissionGranted PermissionState = "granted"
	// PermissionDenied means the OS refused camera access.
	PermissionDenied PermissionState = "denied"
	// PermissionUnavailable means no usable camera was found.
	PermissionUnavailable PermissionState = "unavailable"
)

// Config holds configuration options for the application.
type Config struct {
	// Camera is required.
	Camera capture.Camera
	// Detector defaults to a SkinDetector with the default rule.
	Detector detector.Detector
	// Store journals fired gestures when set.
	Store *store.Store
	// Bus receives every fired gesture when set.
	Bus *gesture.Bus
	// Callbacks are the left/right gesture sinks.
	Callbacks gesture.Callbacks
	// Section reports the showcase section after a gesture, for the journal.
	Section func() int
	Gesture gesture.Config
	// Interval defaults to DefaultInterval.
	Interval time.Duration
	// Overlay draws detection feedback and keeps the latest preview frame.
	Overlay bool
	Clock   clock.Clock
	Logger  *zap.SugaredLogger
}

// Status is a snapshot of the detector state.
type Status struct {
	Enabled     bool            `json:"enabled"`
	Active      bool            `json:"active"`
	Permission  PermissionState `json:"permission"`
	Tracking    string          `json:"tracking"`
	LastGesture string          `json:"last_gesture,omitempty"`
	Gestures    uint64          `json:"gestures"`
	Ticks       uint64          `json:"ticks"`
	Skipped     uint64          `json:"skipped"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
}

// App is the gesture control loop: it acquires the camera while enabled and
// turns sampled frames into swipe gestures.
type App struct {
	config     Config
	camera     capture.Camera
	sampler    *capture.Sampler
	detector   detector.Detector
	classifier *gesture.Classifier
	clock      clock.Clock
	logger     *zap.SugaredLogger

	// mu serialises enable/disable transitions.
	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}

	enabled atomic.Bool
	active  atomic.Bool
	ticks   atomic.Uint64
	skipped atomic.Uint64
	fired   atomic.Uint64

	statusMu    sync.RWMutex
	permission  PermissionState
	lastGesture gesture.Direction
	preview     []byte

	callbacksMu sync.RWMutex
	callbacks   []func(gesture.Event)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.Clock == nil {
		config.Clock = clock.New()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop().Sugar()
	}
	if config.Detector == nil {
		config.Detector = detector.NewSkinDetector(detector.DefaultConfig(), nil)
	}

	a := &App{
		config:     config,
		camera:     config.Camera,
		sampler:    capture.NewSampler(config.Camera),
		detector:   config.Detector,
		clock:      config.Clock,
		logger:     config.Logger,
		permission: PermissionUnknown,
	}
	a.classifier = gesture.NewClassifier(config.Gesture, config.Clock, config.Callbacks)

	return a
}

// RegisterGestureCallback adds a function called after every fired gesture.
func (a *App) RegisterGestureCallback(fn func(gesture.Event)) {
	a.callbacksMu.Lock()
	defer a.callbacksMu.Unlock()
	a.callbacks = append(a.callbacks, fn)
}

// SetEnabled turns gesture control on or off. Enabling acquires the camera
// and starts the loop; a failed acquisition leaves the detector inactive and
// is reported through Status. Disabling stops the loop and releases the
// camera before returning.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if enabled {
		a.enabled.Store(true)
		if a.stopCh == nil {
			a.start()
		}
		return
	}

	a.enabled.Store(false)
	a.stop()
}

// IsEnabled returns whether gesture control is switched on.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// Active returns whether the camera is acquired and the loop is running.
func (a *App) Active() bool {
	return a.active.Load()
}

// Permission returns the outcome of the last camera acquisition.
func (a *App) Permission() PermissionState {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.permission
}

// start acquires the camera and launches the pipeline. Caller must hold a.mu.
func (a *App) start() {
	if err := a.camera.Open(); err != nil {
		// Release anything a partial open may hold.
		if cerr := a.camera.Close(); cerr != nil {
			a.logger.Warnw("closing camera after failed open", "error", cerr)
		}

		state := PermissionUnavailable
		if errors.Is(err, capture.ErrPermissionDenied) {
			state = PermissionDenied
		}
		a.setPermission(state)
		a.active.Store(false)
		a.logger.Warnw("gesture control inactive", "permission", state, "error", err)
		return
	}

	a.setPermission(PermissionGranted)
	a.classifier.Reset()

	// The ticker is created before the goroutine so no tick is lost.
	ticker := a.clock.Ticker(a.config.Interval)
	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	a.active.Store(true)
	go a.runPipeline(ticker, a.stopCh, a.done)

	width, height := a.camera.Resolution()
	a.logger.Infow("gesture control activated", "width", width, "height", height, "interval", a.config.Interval)
}

// stop halts the pipeline and releases the camera. Caller must hold a.mu.
func (a *App) stop() {
	wasRunning := a.stopCh != nil
	if wasRunning {
		close(a.stopCh)
		<-a.done
		a.stopCh = nil
		a.done = nil
	}

	if err := a.camera.Close(); err != nil {
		a.logger.Warnw("error closing camera", "error", err)
	}

	a.active.Store(false)
	a.classifier.Reset()
	a.statusMu.Lock()
	a.preview = nil
	a.statusMu.Unlock()

	if wasRunning {
		a.logger.Info("gesture control deactivated")
	}
}

// Close disables gesture control and releases the camera.
func (a *App) Close() error {
	a.SetEnabled(false)
	return nil
}

func (a *App) setPermission(p PermissionState) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.permission = p
}

// Status returns a snapshot of the detector state.
func (a *App) Status() Status {
	width, height := a.camera.Resolution()

	a.statusMu.RLock()
	defer a.statusMu.RUnlock()

	return Status{
		Enabled:     a.enabled.Load(),
		Active:      a.active.Load(),
		Permission:  a.permission,
		Tracking:    a.classifier.State().String(),
		LastGesture: string(a.lastGesture),
		Gestures:    a.fired.Load(),
		Ticks:       a.ticks.Load(),
		Skipped:     a.skipped.Load(),
		Width:       width,
		Height:      height,
	}
}

// Preview returns the latest overlaid frame as JPEG, if any.
func (a *App) Preview() ([]byte, bool) {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.preview, a.preview != nil
}

// Classifier returns the swipe classifier.
func (a *App) Classifier() *gesture.Classifier {
	return a.classifier
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}
