package detector

import (
	"image"
	"math"
)

// Centroid is the mean position of matched pixels in frame-buffer space.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point rounds the centroid to the nearest pixel.
func (c Centroid) Point() image.Point {
	return image.Point{X: int(math.Round(c.X)), Y: int(math.Round(c.Y))}
}

// In reports whether c lies inside r, inclusive of the max edge.
func (c Centroid) In(r image.Rectangle) bool {
	return c.X >= float64(r.Min.X) && c.X <= float64(r.Max.X) &&
		c.Y >= float64(r.Min.Y) && c.Y <= float64(r.Max.Y)
}
