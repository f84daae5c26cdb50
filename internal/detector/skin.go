package detector

import "image"

// SkinDetector locates a hand as the centroid of skin-like pixels.
type SkinDetector struct {
	config     Config
	classifier PixelClassifier
}

// NewSkinDetector creates a SkinDetector. A nil classifier uses DefaultSkinRule.
// A zero stride or negative MinMatches falls back to the defaults.
func NewSkinDetector(config Config, classifier PixelClassifier) *SkinDetector {
	if config.Stride <= 0 {
		config.Stride = DefaultStride
	}
	if config.MinMatches < 0 {
		config.MinMatches = DefaultMinMatches
	}
	if classifier == nil {
		classifier = DefaultSkinRule()
	}

	return &SkinDetector{
		config:     config,
		classifier: classifier,
	}
}

// Detect scans a stride-spaced grid of frame and averages the positions of
// pixels the classifier accepts. Coordinates are relative to frame.Rect.Min.
func (d *SkinDetector) Detect(frame *image.RGBA, overlay Overlay) Result {
	if frame == nil {
		return Result{}
	}

	bounds := frame.Rect
	width, height := bounds.Dx(), bounds.Dy()
	step := d.config.Stride

	var sumX, sumY float64
	count := 0

	for y := 0; y < height; y += step {
		row := frame.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < width; x += step {
			i := row + x*4
			r, g, b := frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2]

			if !d.classifier.IsSkin(r, g, b) {
				continue
			}

			sumX += float64(x)
			sumY += float64(y)
			count++

			if overlay != nil {
				overlay.MarkPixel(x, y)
			}
		}
	}

	// A sparse match is treated as background noise.
	if count <= d.config.MinMatches {
		return Result{Matches: count}
	}

	c := Centroid{X: sumX / float64(count), Y: sumY / float64(count)}
	if overlay != nil {
		overlay.MarkCentroid(c)
	}

	return Result{Centroid: c, Matches: count, Found: true}
}
