// Package capture provides camera capture and frame sampling using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings. 320x240 keeps the per-tick pixel scan cheap.
const (
	DefaultWidth  = 320
	DefaultHeight = 240
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrPermissionDenied is returned when the OS refuses access to the camera.
	ErrPermissionDenied = errors.New("camera permission denied")

	// ErrUnavailable is returned when no usable camera device exists.
	ErrUnavailable = errors.New("camera unavailable")
)

// Facing is the preferred camera orientation.
type Facing string

const (
	// FacingUser selects a camera pointing at the user.
	FacingUser Facing = "user"
	// FacingEnvironment selects a camera pointing away from the user.
	FacingEnvironment Facing = "environment"
)

// Constraints describes the stream requested from a camera.
// Width and Height are preferences; the device may negotiate another size.
type Constraints struct {
	Width  int
	Height int
	Facing Facing
}

// DefaultConstraints returns the 320x240 user-facing request.
func DefaultConstraints() Constraints {
	return Constraints{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Facing: FacingUser,
	}
}

// Camera defines the interface for camera capture implementations.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
	// Resolution reports the negotiated frame size, or zeros when closed.
	Resolution() (width, height int)
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	deviceID    int
	constraints Constraints
	capture     *gocv.VideoCapture
	mu          sync.Mutex
	running     bool
	width       int
	height      int
}

// NewCamera creates a new Camera for the given device ID.
// Zero width or height in c falls back to the defaults.
func NewCamera(deviceID int, c Constraints) Camera {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Facing == "" {
		c.Facing = FacingUser
	}

	return &cameraImpl{
		deviceID:    deviceID,
		constraints: c,
	}
}

// Open acquires the camera device and requests the configured resolution.
// Failures are reported as ErrPermissionDenied or ErrUnavailable.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return classifyOpenError(err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("device %d: %w", c.deviceID, ErrUnavailable)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.constraints.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.constraints.Height))

	c.width = int(capture.Get(gocv.VideoCaptureFrameWidth))
	c.height = int(capture.Get(gocv.VideoCaptureFrameHeight))
	c.capture = capture
	c.running = true

	return nil
}

// classifyOpenError maps an OpenCV open failure to a capture sentinel.
// OpenCV only reports strings, so permission problems are recognised by text.
func classifyOpenError(err error) error {
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"permission", "not authorized", "denied"} {
		if strings.Contains(msg, hint) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Close stops the capture and releases the device.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false
	c.width, c.height = 0, 0

	return err
}

// ReadFrame reads a single BGR frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// Resolution returns the negotiated frame size.
func (c *cameraImpl) Resolution() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.width, c.height
}
