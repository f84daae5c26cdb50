package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_Playback(t *testing.T) {
	frame1 := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Fatalf("ReadFrame() before Open error = %v, want ErrCameraNotOpen", err)
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	if w, h := cam.Resolution(); w != 320 || h != 240 {
		t.Errorf("Resolution() = %dx%d, want 320x240", w, h)
	}

	for i := 0; i < 2; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrFramesExhausted) {
		t.Errorf("ReadFrame() after last frame error = %v, want ErrFramesExhausted", err)
	}

	cam.Reset()
	f, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after Reset error = %v", err)
	}
	f.Close()
}

func TestMockCamera_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockCamera_ActiveTracks(t *testing.T) {
	cam := NewMockCamera(nil, false)

	cam.Open()
	cam.Open()
	if n := cam.ActiveTracks(); n != 1 {
		t.Errorf("ActiveTracks() after double Open = %d, want 1", n)
	}

	cam.Close()
	cam.Close()
	if n := cam.ActiveTracks(); n != 0 {
		t.Errorf("ActiveTracks() after Close = %d, want 0", n)
	}

	cam.SetOpenError(ErrPermissionDenied)
	if err := cam.Open(); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Open() error = %v, want ErrPermissionDenied", err)
	}
	if cam.IsOpen() || cam.ActiveTracks() != 0 {
		t.Error("failed Open should not acquire the camera")
	}
}

func TestMockCamera_NoFrames(t *testing.T) {
	cam := NewMockCamera(nil, true)
	cam.Open()
	defer cam.Close()

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrFramesExhausted) {
		t.Errorf("ReadFrame() error = %v, want ErrFramesExhausted", err)
	}
	if w, h := cam.Resolution(); w != 0 || h != 0 {
		t.Errorf("Resolution() = %dx%d, want 0x0 without frames", w, h)
	}
}

func TestMockCamera_SetFrames(t *testing.T) {
	small := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer small.Close()

	cam := NewMockCamera(nil, false)
	cam.Open()
	defer cam.Close()

	cam.SetFrames([]*gocv.Mat{&small})
	if w, h := cam.Resolution(); w != 160 || h != 120 {
		t.Errorf("Resolution() = %dx%d, want 160x120", w, h)
	}

	f, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	f.Close()
}
