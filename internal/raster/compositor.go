// Package raster turns decoded artwork and QR bitmaps into the final
// print-ready PNG. It only does "contain" fits: the uploaded pet photo's
// aspect ratio varies per upload and must never be cropped or stretched on a
// physical product.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

var (
	// ErrUnsupportedImageFormat indicates the source bytes could not be
	// decoded as a raster image.
	ErrUnsupportedImageFormat = errors.New("raster: unsupported image format")
	// ErrOutOfBounds indicates a layer placement outside the canvas. The
	// geometry resolver guarantees this never happens, so hitting it is a
	// programming error and must fail the request instead of clipping.
	ErrOutOfBounds = errors.New("raster: layer out of canvas bounds")
)

// Layer is one image placed on the canvas at an absolute offset. Layers are
// painted in slice order.
type Layer struct {
	Image []byte
	Left  int
	Top   int
}

// ResizeContain scales the source image so it fits entirely inside a
// width x height box, preserving aspect ratio, and centers it on a
// transparent canvas of exactly that size. The output is PNG with alpha.
func ResizeContain(src []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: non-positive target box %dx%d", width, height)
	}
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImageFormat, err)
	}
	fitted := imaging.Fit(img, width, height, imaging.Lanczos)

	out := imaging.New(width, height, color.NRGBA{})
	bounds := fitted.Bounds()
	offset := image.Pt((width-bounds.Dx())/2, (height-bounds.Dy())/2)
	out = imaging.Paste(out, fitted, offset)

	return encodePNG(out)
}

// Composite paints the layers onto a fully transparent square canvas of
// canvasSize pixels and returns the PNG bytes.
func Composite(canvasSize int, layers []Layer) ([]byte, error) {
	if canvasSize <= 0 {
		return nil, fmt.Errorf("raster: non-positive canvas size %d", canvasSize)
	}
	canvas := imaging.New(canvasSize, canvasSize, color.NRGBA{})
	for i, layer := range layers {
		img, err := imaging.Decode(bytes.NewReader(layer.Image))
		if err != nil {
			return nil, fmt.Errorf("%w: layer %d: %v", ErrUnsupportedImageFormat, i, err)
		}
		b := img.Bounds()
		if layer.Left < 0 || layer.Top < 0 ||
			layer.Left+b.Dx() > canvasSize || layer.Top+b.Dy() > canvasSize {
			return nil, fmt.Errorf("%w: layer %d (%dx%d at %d,%d) on %dpx canvas",
				ErrOutOfBounds, i, b.Dx(), b.Dy(), layer.Left, layer.Top, canvasSize)
		}
		canvas = imaging.Paste(canvas, img, image.Pt(layer.Left, layer.Top))
	}
	return encodePNG(canvas)
}

func encodePNG(img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("raster: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
