package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// ErrFramesExhausted is returned by MockCamera once a non-looping sequence
// has been played back completely, or when it holds no frames at all.
var ErrFramesExhausted = errors.New("mock camera has no more frames")

// MockCamera is a Camera that plays back a fixed sequence of frames and
// counts acquisitions, so tests can check that every Open is released.
type MockCamera struct {
	mu sync.Mutex

	frames []*gocv.Mat
	next   int
	loop   bool

	open     bool
	openErr  error
	acquired int
	released int
}

// NewMockCamera returns a closed camera over frames. With loop set the
// sequence restarts after the last frame instead of running dry.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{frames: frames, loop: loop}
}

// SetOpenError makes subsequent Open calls fail with err. A nil err
// lets Open succeed again.
func (c *MockCamera) SetOpenError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openErr = err
}

// Open acquires the camera and rewinds playback. Opening an already open
// camera is not a second acquisition.
func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.openErr != nil {
		return c.openErr
	}
	if !c.open {
		c.acquired++
		c.open = true
	}
	c.next = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		c.released++
		c.open = false
	}
	return nil
}

// ReadFrame returns a clone of the next frame; the caller closes it.
func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil, ErrCameraNotOpen
	}
	if len(c.frames) == 0 {
		return nil, ErrFramesExhausted
	}
	if c.next == len(c.frames) {
		if !c.loop {
			return nil, ErrFramesExhausted
		}
		c.next = 0
	}

	frame := c.frames[c.next].Clone()
	c.next++
	return &frame, nil
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Resolution reports the size of the first frame while open.
func (c *MockCamera) Resolution() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open || len(c.frames) == 0 {
		return 0, 0
	}
	return c.frames[0].Cols(), c.frames[0].Rows()
}

// ActiveTracks returns how many acquisitions are still unreleased.
func (c *MockCamera) ActiveTracks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquired - c.released
}

// SetFrames replaces the sequence and rewinds playback.
func (c *MockCamera) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.next = 0
}

// Reset rewinds playback to the first frame.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = 0
}
