package server

import (
	"fmt"
	"net/http"
	"time"
)

// DefaultPreviewInterval is how often the preview stream polls for a new frame.
const DefaultPreviewInterval = 200 * time.Millisecond

// PreviewSource provides the latest overlaid frame as JPEG.
type PreviewSource interface {
	Preview() ([]byte, bool)
}

// PreviewHandler serves the detector preview as MJPEG. Frames only change
// once per sampling tick, so unchanged frames are not resent.
type PreviewHandler struct {
	source   PreviewSource
	interval time.Duration
}

// NewPreviewHandler creates a new PreviewHandler reading from source.
func NewPreviewHandler(source PreviewSource) *PreviewHandler {
	return &PreviewHandler{source: source, interval: DefaultPreviewInterval}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last []byte
	for {
		frame, ok := h.source.Preview()
		if ok && !sameFrame(frame, last) {
			if err := writePart(w, frame); err != nil {
				return
			}
			last = frame
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// sameFrame reports whether a and b are the same stored preview.
// Each tick stores a fresh slice, so identity is enough.
func sameFrame(a, b []byte) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

func writePart(w http.ResponseWriter, frame []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame)); err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\r\n"); err != nil {
		return err
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
