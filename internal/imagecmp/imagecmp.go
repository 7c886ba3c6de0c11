// Package imagecmp decodes, fits and compares images with pixelmatch.
package imagecmp

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	// decoders used by the back office image pipeline
	_ "image/gif"
	_ "image/jpeg"

	"github.com/orisano/pixelmatch"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultThreshold is the per-pixel color tolerance (0 strict, 1 lax).
const DefaultThreshold = 0.2

// MismatchError is returned when two images differ.
type MismatchError struct {
	Mismatched int
	Total      int
	// Diff marks mismatched pixels red over a faded copy of the
	// expected image. Nil when the comparison wrote no output.
	Diff *image.RGBA
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("images differ: %d of %d pixels mismatch (%.3f%%)",
		e.Mismatched, e.Total, 100*e.Ratio())
}

// Ratio is the share of mismatched pixels.
func (e *MismatchError) Ratio() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Mismatched) / float64(e.Total)
}

// Decode reads a PNG, JPEG, GIF or WebP image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Load decodes the image file at path.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return Decode(data)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Fit scales img to fit into w x h keeping its aspect ratio and centers
// it on a canvas of that size filled with bg.
func Fit(img image.Image, w, h int, bg color.Color) *image.RGBA {
	b := img.Bounds()
	aspect := float64(b.Dx()) / float64(b.Dy())

	nw, nh := w, h
	switch {
	case aspect > 1:
		nh = int(math.Round(float64(h) / aspect))
	case aspect < 1:
		nw = int(math.Round(float64(w) * aspect))
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	x := (w - nw) / 2
	y := (h - nh) / 2
	draw.CatmullRom.Scale(canvas, image.Rect(x, y, x+nw, y+nh), img, b, draw.Over, nil)
	return canvas
}

// Compare runs pixelmatch over expected and actual and returns a
// *MismatchError when any pixel differs by more than threshold.
func Compare(expected, actual image.Image, threshold float64) error {
	eb, ab := expected.Bounds(), actual.Bounds()
	if eb.Dx() != ab.Dx() || eb.Dy() != ab.Dy() {
		return fmt.Errorf("image sizes differ: %dx%d vs %dx%d", eb.Dx(), eb.Dy(), ab.Dx(), ab.Dy())
	}
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("threshold must be within [0, 1], got %v", threshold)
	}

	var out image.Image
	mismatched, err := pixelmatch.MatchPixel(expected, actual,
		pixelmatch.Threshold(threshold),
		pixelmatch.WriteTo(&out))
	if err != nil {
		return fmt.Errorf("failed to compare images: %w", err)
	}
	if mismatched == 0 {
		return nil
	}
	return &MismatchError{Mismatched: mismatched, Total: eb.Dx() * eb.Dy(), Diff: toRGBA(out)}
}

func toRGBA(img image.Image) *image.RGBA {
	if img == nil {
		return nil
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// FitAndCompare fits the original image into the size of the
// server-processed one on a white canvas and compares them.
func FitAndCompare(original, processed image.Image, threshold float64) (*image.RGBA, error) {
	b := processed.Bounds()
	fitted := Fit(original, b.Dx(), b.Dy(), color.White)
	return fitted, Compare(fitted, processed, threshold)
}
