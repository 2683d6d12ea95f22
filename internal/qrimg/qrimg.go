// Package qrimg encodes target URLs into PNG QR bitmaps for print
// compositing. Callers should encode short redirect identifiers rather than
// full artwork URLs: long payloads raise the module density and measurably
// reduce scan reliability at small print sizes.
package qrimg

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrPayloadTooLong indicates the target URL exceeds the QR capacity for the
// chosen error-correction level. The caller must shorten the payload; the
// encoder never truncates.
var ErrPayloadTooLong = errors.New("qrimg: payload too long for qr encoding")

// ErrEncodeFailed wraps any other encoder failure.
var ErrEncodeFailed = errors.New("qrimg: encode failed")

// Options controls the rendered bitmap.
type Options struct {
	// PixelWidth is the output edge length in pixels.
	PixelWidth int
	// Margin toggles the quiet zone around the modules. Zero disables the
	// border entirely for compositing onto artwork; any positive value keeps
	// the standard quiet zone for standalone assets.
	Margin int
	// Dark is the module color. Defaults to opaque black.
	Dark color.Color
	// Light is the background color. Fully transparent for compositing,
	// opaque white for a standalone scannable asset.
	Light color.Color
}

// Transparent returns the options used for QR codes composited onto artwork:
// no quiet zone, black modules on a fully transparent background.
func Transparent(pixelWidth int) Options {
	return Options{
		PixelWidth: pixelWidth,
		Margin:     0,
		Dark:       color.NRGBA{A: 255},
		Light:      color.NRGBA{},
	}
}

// Standalone returns the options used for separately stored QR assets:
// quiet zone kept, black on opaque white.
func Standalone(pixelWidth int) Options {
	return Options{
		PixelWidth: pixelWidth,
		Margin:     4,
		Dark:       color.NRGBA{A: 255},
		Light:      color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Encode renders targetURL as a PNG QR bitmap at medium error correction.
func Encode(targetURL string, opts Options) ([]byte, error) {
	if strings.TrimSpace(targetURL) == "" {
		return nil, fmt.Errorf("%w: empty target url", ErrEncodeFailed)
	}
	if opts.PixelWidth <= 0 {
		opts.PixelWidth = 400
	}
	q, err := qrcode.New(targetURL, qrcode.Medium)
	if err != nil {
		if strings.Contains(err.Error(), "content too long") {
			return nil, fmt.Errorf("%w: %d characters", ErrPayloadTooLong, len(targetURL))
		}
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	if opts.Dark != nil {
		q.ForegroundColor = opts.Dark
	}
	if opts.Light != nil {
		q.BackgroundColor = opts.Light
	}
	q.DisableBorder = opts.Margin <= 0

	png, err := q.PNG(opts.PixelWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return png, nil
}
