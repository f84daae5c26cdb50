package capture

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/folio/internal/detector"
)

// Overlay colours follow the preview convention: matched pixels green, centroid red.
var (
	matchColor    = color.RGBA{R: 0, G: 255, B: 0, A: 128}
	centroidColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// CentroidRadius is the radius in pixels of the centroid marker.
const CentroidRadius = 10

// MatOverlay draws detector feedback onto a BGR frame.
type MatOverlay struct {
	mat  *gocv.Mat
	cell int
}

// NewMatOverlay returns an overlay drawing cell-sized squares onto mat.
func NewMatOverlay(mat *gocv.Mat, cell int) *MatOverlay {
	if cell <= 0 {
		cell = detector.DefaultStride
	}
	return &MatOverlay{mat: mat, cell: cell}
}

// MarkPixel fills the sampling cell starting at (x, y).
func (o *MatOverlay) MarkPixel(x, y int) {
	if o.mat == nil || o.mat.Empty() {
		return
	}
	gocv.Rectangle(o.mat, image.Rect(x, y, x+o.cell, y+o.cell), matchColor, -1)
}

// MarkCentroid draws a filled disc at c.
func (o *MatOverlay) MarkCentroid(c detector.Centroid) {
	if o.mat == nil || o.mat.Empty() {
		return
	}
	gocv.Circle(o.mat, c.Point(), CentroidRadius, centroidColor, -1)
}

// EncodeJPEG encodes mat for the preview stream.
func EncodeJPEG(mat *gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", *mat)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	// GetBytes aliases native memory, so copy before Close.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}
