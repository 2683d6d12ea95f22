package printlayout

// PreviewSpec is the percentage-based layout served to the client preview.
// The preview positions the artwork and QR placeholder with CSS percentages
// derived from these numbers, so they must come from the same Params the
// raster pipeline uses. Any drift between the two mispositions the physical
// print.
type PreviewSpec struct {
	CanvasSize         int     `json:"canvas_size"`
	PrintWidthPercent  float64 `json:"print_width_percent"`
	PrintHeightPercent float64 `json:"print_height_percent"`
	ArtBandPercent     float64 `json:"art_band_percent"`
	QRBandPercent      float64 `json:"qr_band_percent"`
	QRSizePercent      float64 `json:"qr_size_percent"`
	Variant            Variant `json:"variant"`
}

// Preview derives the client-facing percentage set from the layout params.
func (p Params) Preview() PreviewSpec {
	return PreviewSpec{
		CanvasSize:         p.CanvasSize,
		PrintWidthPercent:  p.WidthPercent,
		PrintHeightPercent: p.HeightPercent,
		ArtBandPercent:     p.ArtBandFraction * 100,
		QRBandPercent:      (1 - p.ArtBandFraction) * 100,
		QRSizePercent:      p.QRSizeFraction * 100,
		Variant:            p.Variant,
	}
}
