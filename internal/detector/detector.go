// Package detector estimates a hand position from skin-like pixels in a frame.
package detector

import "image"

// Default scan settings.
const (
	// DefaultStride samples every 4th pixel on both axes.
	DefaultStride = 4
	// DefaultMinMatches is the match count a frame must exceed to yield a centroid.
	DefaultMinMatches = 100
)

// Detector defines the interface for hand position estimators.
type Detector interface {
	// Detect scans frame and returns the estimated hand position.
	// overlay may be nil; it never influences the result.
	Detect(frame *image.RGBA, overlay Overlay) Result
}

// Result is the outcome of one detection pass.
type Result struct {
	Centroid Centroid
	Matches  int
	// Found is false when too few pixels matched to trust a centroid.
	Found bool
}

// Config holds configuration options for skin detection.
type Config struct {
	// Stride is the sampling step in pixels on each axis.
	Stride int

	// MinMatches is the number of matches a frame must exceed.
	MinMatches int
}

// DefaultConfig returns a Config with the standard scan settings.
func DefaultConfig() Config {
	return Config{
		Stride:     DefaultStride,
		MinMatches: DefaultMinMatches,
	}
}

// Overlay receives visual feedback about a detection pass.
type Overlay interface {
	// MarkPixel is called for each matched sample at frame coordinates (x, y).
	MarkPixel(x, y int)
	// MarkCentroid is called once when a centroid is produced.
	MarkCentroid(c Centroid)
}
