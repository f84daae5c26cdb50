package capture

import (
	"errors"
	"testing"
)

func TestNewCamera_Constraints(t *testing.T) {
	tests := []struct {
		name string
		in   Constraints
		want Constraints
	}{
		{
			name: "zero value uses defaults",
			in:   Constraints{},
			want: DefaultConstraints(),
		},
		{
			name: "explicit size kept",
			in:   Constraints{Width: 640, Height: 480, Facing: FacingEnvironment},
			want: Constraints{Width: 640, Height: 480, Facing: FacingEnvironment},
		},
		{
			name: "negative size falls back",
			in:   Constraints{Width: -1, Height: 120},
			want: Constraints{Width: DefaultWidth, Height: 120, Facing: FacingUser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam, ok := NewCamera(0, tt.in).(*cameraImpl)
			if !ok {
				t.Fatal("NewCamera did not return a cameraImpl")
			}
			if cam.constraints != tt.want {
				t.Errorf("constraints = %+v, want %+v", cam.constraints, tt.want)
			}
		})
	}
}

func TestCamera_NotOpened(t *testing.T) {
	cam := NewCamera(0, DefaultConstraints())

	if cam.IsOpen() {
		t.Error("IsOpen() should return false before Open() is called")
	}
	if w, h := cam.Resolution(); w != 0 || h != 0 {
		t.Errorf("Resolution() = %dx%d, want 0x0 while closed", w, h)
	}
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	// Close on a camera that was never opened is a no-op
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}

func TestClassifyOpenError(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{msg: "Permission denied", want: ErrPermissionDenied},
		{msg: "camera access not authorized", want: ErrPermissionDenied},
		{msg: "VIDEOIO ERROR: V4L: can't open camera by index", want: ErrUnavailable},
		{msg: "", want: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if err := classifyOpenError(errors.New(tt.msg)); !errors.Is(err, tt.want) {
				t.Errorf("classifyOpenError(%q) = %v, want %v", tt.msg, err, tt.want)
			}
		})
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0, DefaultConstraints())

	err := cam.Open()
	if err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	w, h := cam.Resolution()
	if w == 0 || h == 0 {
		t.Error("Resolution() should report the negotiated size")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Cols() != w || mat.Rows() != h {
			t.Logf("frame is %dx%d, negotiated %dx%d", mat.Cols(), mat.Rows(), w, h)
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}
