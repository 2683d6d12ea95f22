package printlayout

import (
	"errors"
	"testing"
)

func TestPrintAreaRectCanonicalFlask(t *testing.T) {
	rect, err := PrintAreaRect(3000, 44, 33)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Rect{Left: 840, Top: 1005, Width: 1320, Height: 990}
	if rect != want {
		t.Fatalf("print area = %+v, want %+v", rect, want)
	}
}

func TestPrintAreaRectIsCentered(t *testing.T) {
	cases := []struct {
		canvas   int
		wPct     float64
		hPct     float64
	}{
		{3000, 44, 33},
		{5000, 44, 33},
		{5000, 47, 36},
		{1000, 99.5, 0.5},
		{4096, 33.3, 66.6},
	}
	for _, tc := range cases {
		rect, err := PrintAreaRect(tc.canvas, tc.wPct, tc.hPct)
		if err != nil {
			t.Fatalf("PrintAreaRect(%d, %v, %v): %v", tc.canvas, tc.wPct, tc.hPct, err)
		}
		rightGap := tc.canvas - rect.Left - rect.Width
		if diff := rect.Left - rightGap; diff < -1 || diff > 1 {
			t.Errorf("canvas %d: horizontal gaps %d vs %d not centered", tc.canvas, rect.Left, rightGap)
		}
		bottomGap := tc.canvas - rect.Top - rect.Height
		if diff := rect.Top - bottomGap; diff < -1 || diff > 1 {
			t.Errorf("canvas %d: vertical gaps %d vs %d not centered", tc.canvas, rect.Top, bottomGap)
		}
		if rect.Left+rect.Width > tc.canvas || rect.Top+rect.Height > tc.canvas {
			t.Errorf("canvas %d: rect %+v exceeds canvas", tc.canvas, rect)
		}
	}
}

func TestPrintAreaRectRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		canvas int
		wPct   float64
		hPct   float64
	}{
		{"zero canvas", 0, 44, 33},
		{"negative canvas", -1, 44, 33},
		{"zero width", 3000, 0, 33},
		{"width over 100", 3000, 100.1, 33},
		{"negative height", 3000, 44, -5},
	}
	for _, tc := range cases {
		if _, err := PrintAreaRect(tc.canvas, tc.wPct, tc.hPct); !errors.Is(err, ErrInvalidLayoutParams) {
			t.Errorf("%s: err = %v, want ErrInvalidLayoutParams", tc.name, err)
		}
	}
}

func TestCombinedRectsCanonicalFlask(t *testing.T) {
	printArea := Rect{Left: 840, Top: 1005, Width: 1320, Height: 990}

	art, qr, err := CombinedRects(printArea, 0.8, 0.55, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantArt := Rect{Left: 840, Top: 1005, Width: 1320, Height: 792}
	if art != wantArt {
		t.Fatalf("art = %+v, want %+v", art, wantArt)
	}

	// qrBandHeight = 990-792 = 198; qrSize = round(198*0.55) = 109.
	wantQR := Rect{Left: 1446, Top: 1842, Width: 109, Height: 109}
	if qr != wantQR {
		t.Fatalf("qr = %+v, want %+v", qr, wantQR)
	}
}

func TestCombinedRectsBandsCoverPrintArea(t *testing.T) {
	printArea := Rect{Left: 100, Top: 200, Width: 700, Height: 501}
	art, qr, err := CombinedRects(printArea, 0.8, 0.55, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	qrBand := printArea.Height - art.Height
	if art.Height+qrBand != printArea.Height {
		t.Fatalf("bands %d+%d do not cover print area height %d", art.Height, qrBand, printArea.Height)
	}
	if qr.Width != qr.Height {
		t.Fatalf("qr slot %dx%d is not square", qr.Width, qr.Height)
	}
	if qr.Top < printArea.Top+art.Height {
		t.Fatalf("qr top %d overlaps art band ending at %d", qr.Top, printArea.Top+art.Height)
	}
	if bottom := printArea.Top + printArea.Height; qr.Top+qr.Height > bottom {
		t.Fatalf("qr bottom %d exceeds print area bottom %d", qr.Top+qr.Height, bottom)
	}
}

func TestCombinedRectsMinPixelFloorWins(t *testing.T) {
	printArea := Rect{Left: 0, Top: 0, Width: 1320, Height: 990}
	_, qr, err := CombinedRects(printArea, 0.8, 0.55, 140)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qr.Width != 140 || qr.Height != 140 {
		t.Fatalf("qr = %dx%d, want 140x140 floor", qr.Width, qr.Height)
	}
}

func TestArtOnlyRectIsIdentity(t *testing.T) {
	printArea := Rect{Left: 840, Top: 1005, Width: 1320, Height: 990}
	if got := ArtOnlyRect(printArea); got != printArea {
		t.Fatalf("art-only rect = %+v, want %+v", got, printArea)
	}
}

func TestParamsResolveCombined(t *testing.T) {
	p := DefaultParams()
	p.CanvasSize = 3000

	set, err := p.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.PrintArea != (Rect{Left: 840, Top: 1005, Width: 1320, Height: 990}) {
		t.Fatalf("print area = %+v", set.PrintArea)
	}
	if set.QR == nil {
		t.Fatalf("combined variant must produce a qr rect")
	}
}

func TestParamsResolveArtOnly(t *testing.T) {
	p := DefaultParams()
	p.Variant = VariantArtOnly

	set, err := p.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.QR != nil {
		t.Fatalf("art-only variant must not produce a qr rect, got %+v", *set.QR)
	}
	if set.Art != set.PrintArea {
		t.Fatalf("art slot %+v should equal the print area %+v", set.Art, set.PrintArea)
	}
}

func TestParamsValidate(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params should validate: %v", err)
	}
	p.ArtBandFraction = 1
	if err := p.Validate(); !errors.Is(err, ErrInvalidLayoutParams) {
		t.Fatalf("err = %v, want ErrInvalidLayoutParams", err)
	}
}

func TestParseVariant(t *testing.T) {
	if v, err := ParseVariant(""); err != nil || v != VariantCombined {
		t.Fatalf("empty variant: got %q, %v", v, err)
	}
	if v, err := ParseVariant("art_only"); err != nil || v != VariantArtOnly {
		t.Fatalf("art_only: got %q, %v", v, err)
	}
	if _, err := ParseVariant("mixed"); !errors.Is(err, ErrInvalidLayoutParams) {
		t.Fatalf("unknown variant: err = %v", err)
	}
}

func TestPreviewMatchesParams(t *testing.T) {
	p := DefaultParams()
	spec := p.Preview()
	if spec.PrintWidthPercent != p.WidthPercent || spec.PrintHeightPercent != p.HeightPercent {
		t.Fatalf("preview percentages %v/%v diverge from params %v/%v",
			spec.PrintWidthPercent, spec.PrintHeightPercent, p.WidthPercent, p.HeightPercent)
	}
	if spec.ArtBandPercent+spec.QRBandPercent != 100 {
		t.Fatalf("bands %v+%v should sum to 100", spec.ArtBandPercent, spec.QRBandPercent)
	}
}
