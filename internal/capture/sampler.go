package capture

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"gocv.io/x/gocv"
)

var (
	// ErrBusy is returned when a previous sampling pass has not finished yet.
	ErrBusy = errors.New("sampling pass already in progress")

	// ErrSurfaceNotReady is returned when there is no open camera to sample from.
	ErrSurfaceNotReady = errors.New("capture surface not ready")
)

// Pass is one sampled frame handed to a classification callback.
// Pixels is an RGBA copy of Frame. Frame stays in BGR and may be drawn on.
// Neither value may be retained after the callback returns.
type Pass struct {
	Pixels *image.RGBA
	Frame  *gocv.Mat
}

// Sampler copies the current camera frame into an offscreen RGBA buffer.
// At most one pass runs at a time; overlapping calls return ErrBusy.
type Sampler struct {
	camera Camera
	busy   atomic.Bool
	buf    *image.RGBA
}

// NewSampler creates a Sampler reading from camera.
func NewSampler(camera Camera) *Sampler {
	return &Sampler{camera: camera}
}

// Busy reports whether a pass is currently running.
func (s *Sampler) Busy() bool {
	return s.busy.Load()
}

// Sample grabs one frame and runs fn on it while holding the pass guard.
// It returns ErrBusy or ErrSurfaceNotReady without reading when the tick
// must be skipped, and fn's error otherwise.
func (s *Sampler) Sample(fn func(p Pass) error) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	if s.camera == nil || !s.camera.IsOpen() {
		return ErrSurfaceNotReady
	}

	mat, err := s.camera.ReadFrame()
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	defer mat.Close()

	if err := s.copyPixels(mat); err != nil {
		return err
	}

	return fn(Pass{Pixels: s.buf, Frame: mat})
}

// copyPixels converts mat to RGBA and copies it into the reusable buffer,
// reallocating when the native resolution changes.
func (s *Sampler) copyPixels(mat *gocv.Mat) error {
	rgba := gocv.NewMat()
	defer rgba.Close()

	switch mat.Channels() {
	case 3:
		gocv.CvtColor(*mat, &rgba, gocv.ColorBGRToRGBA)
	case 4:
		gocv.CvtColor(*mat, &rgba, gocv.ColorBGRAToRGBA)
	default:
		return fmt.Errorf("unsupported frame with %d channels", mat.Channels())
	}

	width, height := rgba.Cols(), rgba.Rows()
	if s.buf == nil || s.buf.Rect.Dx() != width || s.buf.Rect.Dy() != height {
		s.buf = image.NewRGBA(image.Rect(0, 0, width, height))
	}

	data := rgba.ToBytes()
	if len(data) != len(s.buf.Pix) {
		return fmt.Errorf("frame size mismatch: got %d bytes, want %d", len(data), len(s.buf.Pix))
	}
	copy(s.buf.Pix, data)

	return nil
}
