// Package printlayout computes the pixel geometry of a print-ready canvas.
// All functions are pure; the same inputs always produce the same rectangles,
// which keeps the server-side raster output and the client preview in sync.
package printlayout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLayoutParams indicates a configuration error in geometry inputs.
var ErrInvalidLayoutParams = errors.New("printlayout: invalid layout parameters")

// Variant selects how the print area is subdivided between artwork and QR code.
type Variant string

const (
	// VariantCombined splits the print area into an upper artwork band and a
	// lower band holding a centered square QR code.
	VariantCombined Variant = "combined"
	// VariantArtOnly reserves the whole print area for artwork; the QR code
	// becomes a separate standalone asset.
	VariantArtOnly Variant = "art_only"
)

// ParseVariant normalizes a configuration string into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantCombined, VariantArtOnly:
		return Variant(s), nil
	case "":
		return VariantCombined, nil
	}
	return "", fmt.Errorf("%w: unknown layout variant %q", ErrInvalidLayoutParams, s)
}

// Rect is a pixel-aligned rectangle on the canvas.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Params holds the layout constants for one product. The defaults are the
// canonical set shared with the client preview.
type Params struct {
	CanvasSize      int
	WidthPercent    float64
	HeightPercent   float64
	ArtBandFraction float64
	QRSizeFraction  float64
	QRMinPixels     int
	Variant         Variant
}

// DefaultParams is the canonical layout for the stainless steel flask.
func DefaultParams() Params {
	return Params{
		CanvasSize:      5000,
		WidthPercent:    44,
		HeightPercent:   33,
		ArtBandFraction: 0.8,
		QRSizeFraction:  0.55,
		QRMinPixels:     0,
		Variant:         VariantCombined,
	}
}

// Validate reports whether the parameters describe a usable layout.
func (p Params) Validate() error {
	if p.CanvasSize <= 0 {
		return fmt.Errorf("%w: canvas size %d", ErrInvalidLayoutParams, p.CanvasSize)
	}
	if p.WidthPercent <= 0 || p.WidthPercent > 100 {
		return fmt.Errorf("%w: width percent %v", ErrInvalidLayoutParams, p.WidthPercent)
	}
	if p.HeightPercent <= 0 || p.HeightPercent > 100 {
		return fmt.Errorf("%w: height percent %v", ErrInvalidLayoutParams, p.HeightPercent)
	}
	if p.ArtBandFraction <= 0 || p.ArtBandFraction >= 1 {
		return fmt.Errorf("%w: art band fraction %v", ErrInvalidLayoutParams, p.ArtBandFraction)
	}
	if p.QRSizeFraction <= 0 || p.QRSizeFraction > 1 {
		return fmt.Errorf("%w: qr size fraction %v", ErrInvalidLayoutParams, p.QRSizeFraction)
	}
	if p.QRMinPixels < 0 {
		return fmt.Errorf("%w: qr min pixels %d", ErrInvalidLayoutParams, p.QRMinPixels)
	}
	if _, err := ParseVariant(string(p.Variant)); err != nil {
		return err
	}
	return nil
}

// round applies round-half-up once. Derived values are never re-rounded.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// PrintAreaRect returns the centered print area for a square canvas of
// canvasSize pixels, sized by percentages of the canvas dimension.
func PrintAreaRect(canvasSize int, widthPct, heightPct float64) (Rect, error) {
	if canvasSize <= 0 {
		return Rect{}, fmt.Errorf("%w: canvas size %d", ErrInvalidLayoutParams, canvasSize)
	}
	if widthPct <= 0 || widthPct > 100 {
		return Rect{}, fmt.Errorf("%w: width percent %v", ErrInvalidLayoutParams, widthPct)
	}
	if heightPct <= 0 || heightPct > 100 {
		return Rect{}, fmt.Errorf("%w: height percent %v", ErrInvalidLayoutParams, heightPct)
	}
	width := round(float64(canvasSize) * widthPct / 100)
	height := round(float64(canvasSize) * heightPct / 100)
	return Rect{
		Left:   round(float64(canvasSize-width) / 2),
		Top:    round(float64(canvasSize-height) / 2),
		Width:  width,
		Height: height,
	}, nil
}

// CombinedRects subdivides the print area into an artwork band and a square
// QR slot. The artwork band spans the full print-area width at
// artBandFraction of its height, anchored at the print area's top-left. The
// QR slot is horizontally centered in the print area and vertically centered
// in the band below the artwork.
//
// When qrMinPixels exceeds the proportional QR size the floor wins: scan
// reliability at high canvas resolutions is worth breaking strict
// proportionality with the preview.
func CombinedRects(printArea Rect, artBandFraction, qrSizeFraction float64, qrMinPixels int) (art, qr Rect, err error) {
	if artBandFraction <= 0 || artBandFraction >= 1 {
		return Rect{}, Rect{}, fmt.Errorf("%w: art band fraction %v", ErrInvalidLayoutParams, artBandFraction)
	}
	if qrSizeFraction <= 0 || qrSizeFraction > 1 {
		return Rect{}, Rect{}, fmt.Errorf("%w: qr size fraction %v", ErrInvalidLayoutParams, qrSizeFraction)
	}
	if qrMinPixels < 0 {
		return Rect{}, Rect{}, fmt.Errorf("%w: qr min pixels %d", ErrInvalidLayoutParams, qrMinPixels)
	}

	artHeight := round(float64(printArea.Height) * artBandFraction)
	qrBandHeight := printArea.Height - artHeight

	art = Rect{
		Left:   printArea.Left,
		Top:    printArea.Top,
		Width:  printArea.Width,
		Height: artHeight,
	}

	qrSize := round(float64(min(printArea.Width, qrBandHeight)) * qrSizeFraction)
	if qrSize < qrMinPixels {
		qrSize = qrMinPixels
	}
	qr = Rect{
		Left:   printArea.Left + round(float64(printArea.Width-qrSize)/2),
		Top:    printArea.Top + artHeight + round(float64(qrBandHeight-qrSize)/2),
		Width:  qrSize,
		Height: qrSize,
	}
	return art, qr, nil
}

// ArtOnlyRect returns the artwork slot for the art-only variant: the entire
// print area.
func ArtOnlyRect(printArea Rect) Rect {
	return printArea
}

// RectSet carries the rectangles used for one print-file generation. It is
// returned for observability; downstream consumers only need the URLs.
type RectSet struct {
	PrintArea Rect  `json:"print_area"`
	Art       Rect  `json:"art"`
	QR        *Rect `json:"qr,omitempty"`
}

// Resolve computes the full rectangle set for the configured variant.
func (p Params) Resolve() (RectSet, error) {
	if err := p.Validate(); err != nil {
		return RectSet{}, err
	}
	printArea, err := PrintAreaRect(p.CanvasSize, p.WidthPercent, p.HeightPercent)
	if err != nil {
		return RectSet{}, err
	}
	set := RectSet{PrintArea: printArea}
	switch p.Variant {
	case VariantArtOnly:
		set.Art = ArtOnlyRect(printArea)
	default:
		art, qr, err := CombinedRects(printArea, p.ArtBandFraction, p.QRSizeFraction, p.QRMinPixels)
		if err != nil {
			return RectSet{}, err
		}
		set.Art = art
		set.QR = &qr
	}
	return set, nil
}
