// Package testdata builds synthetic camera frames for tests.
package testdata

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"gocv.io/x/gocv"
)

// Frame dimensions matching the default camera request.
const (
	FrameWidth  = 320
	FrameHeight = 240
)

var (
	// Skin is a mid skin tone accepted by the default skin rule.
	Skin = color.RGBA{R: 200, G: 120, B: 90, A: 255}
	// Background is a bluish backdrop the rule rejects.
	Background = color.RGBA{R: 30, G: 60, B: 120, A: 255}
)

// HandAt returns a 60x60 square whose stride-4 samples average to (cx, cy).
// cx and cy should be multiples of 4 and at least 28.
func HandAt(cx, cy int) image.Rectangle {
	return image.Rect(cx-28, cy-28, cx+32, cy+32)
}

// BlankFrame returns a frame filled with Background.
func BlankFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
	return img
}

// SkinFrame returns a Background frame with each cluster filled with Skin.
func SkinFrame(clusters ...image.Rectangle) *image.RGBA {
	img := BlankFrame()
	for _, r := range clusters {
		draw.Draw(img, r, &image.Uniform{C: Skin}, image.Point{}, draw.Src)
	}
	return img
}

// SkinMat returns SkinFrame(clusters...) as a BGR Mat.
// The caller is responsible for closing it.
func SkinMat(clusters ...image.Rectangle) (*gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(SkinFrame(clusters...))
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	return &mat, nil
}

// SwipeSequence returns one Mat per hand centre, for camera playback.
func SwipeSequence(centres ...image.Point) ([]*gocv.Mat, error) {
	var frames []*gocv.Mat
	for _, c := range centres {
		mat, err := SkinMat(HandAt(c.X, c.Y))
		if err != nil {
			// Clean up already built frames
			for _, f := range frames {
				f.Close()
			}
			return nil, err
		}
		frames = append(frames, mat)
	}
	return frames, nil
}
