// Package printfile sequences one print-file generation: fetch the styled
// artwork, resolve the layout geometry, encode the QR code, composite the
// print canvas and upload the resulting asset(s). Each invocation is
// self-contained and stateless, so many orders can generate concurrently.
package printfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pawprint/internal/domain"
	"pawprint/internal/printlayout"
	"pawprint/internal/qrimg"
	"pawprint/internal/raster"
	"pawprint/internal/storage"
)

// ErrArtworkUnavailable indicates the source artwork could not be fetched.
// Retry policy belongs to the caller (the webhook handler or the worker).
var ErrArtworkUnavailable = errors.New("printfile: artwork unavailable")

const (
	defaultFetchTimeout = 20 * time.Second
	defaultQRPixels     = 400
)

// Options wires the generator's collaborators. Store and BaseURL are
// required; everything else has defaults.
type Options struct {
	Store        storage.BlobStore
	Layout       printlayout.Params
	HTTPClient   *http.Client
	Recorder     domain.PrintFileRecorder
	Logger       zerolog.Logger
	BaseURL      string
	FetchTimeout time.Duration
	QRPixelWidth int
}

// Generator produces print-ready assets for paid orders.
type Generator struct {
	store        storage.BlobStore
	layout       printlayout.Params
	httpClient   *http.Client
	recorder     domain.PrintFileRecorder
	logger       zerolog.Logger
	baseURL      string
	fetchTimeout time.Duration
	qrPixels     int
}

// Request identifies the artwork (and optionally order) to generate for.
type Request struct {
	ArtworkID  string
	ArtworkURL string
	// OrderID, when present, keys the storage path so regeneration
	// overwrites instead of duplicating, and triggers ledger recording.
	OrderID string
}

// Result reports the uploaded URLs plus the geometry used, the latter for
// diagnostics only.
type Result struct {
	PrintFileURL string              `json:"print_file_url"`
	QRURL        string              `json:"qr_url,omitempty"`
	QRTargetURL  string              `json:"qr_target_url"`
	CanvasSize   int                 `json:"canvas_size"`
	Rects        printlayout.RectSet `json:"rects_used"`
	Variant      printlayout.Variant `json:"variant"`
}

// New validates the layout up front so misconfiguration fails at startup,
// not on the first paid order.
func New(opts Options) (*Generator, error) {
	if opts.Store == nil {
		return nil, errors.New("printfile: blob store is required")
	}
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("printfile: base url is required")
	}
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	qrPixels := opts.QRPixelWidth
	if qrPixels <= 0 {
		qrPixels = defaultQRPixels
	}
	return &Generator{
		store:        opts.Store,
		layout:       opts.Layout,
		httpClient:   httpClient,
		recorder:     opts.Recorder,
		logger:       opts.Logger,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		fetchTimeout: fetchTimeout,
		qrPixels:     qrPixels,
	}, nil
}

// QRTargetURL builds the short redirect URL encoded into the QR code. The
// artwork id is resolved server-side; embedding the full artwork URL would
// bloat the payload and hurt scan reliability at print size.
func (g *Generator) QRTargetURL(artworkID string) string {
	return g.baseURL + "/p/" + artworkID
}

// Generate runs the full pipeline for one request.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.ArtworkID == "" || req.ArtworkURL == "" {
		return nil, fmt.Errorf("%w: artwork id and url are required", domain.ErrInvalidInput)
	}
	log := g.logger.With().
		Str("artwork_id", req.ArtworkID).
		Str("order_id", req.OrderID).
		Logger()

	rects, err := g.layout.Resolve()
	if err != nil {
		return nil, err
	}
	qrTargetURL := g.QRTargetURL(req.ArtworkID)

	artBytes, err := g.fetchArtwork(ctx, req.ArtworkURL)
	if err != nil {
		log.Error().Err(err).Msg("printfile: artwork fetch failed")
		return nil, err
	}

	fileID := req.OrderID
	if fileID == "" {
		fileID = req.ArtworkID
	}

	result := &Result{
		QRTargetURL: qrTargetURL,
		CanvasSize:  g.layout.CanvasSize,
		Rects:       rects,
		Variant:     g.layout.Variant,
	}

	switch g.layout.Variant {
	case printlayout.VariantArtOnly:
		err = g.generateArtOnly(ctx, artBytes, rects, fileID, qrTargetURL, result)
	default:
		err = g.generateCombined(ctx, artBytes, rects, fileID, qrTargetURL, result)
	}
	if err != nil {
		log.Error().Err(err).Msg("printfile: generation failed")
		return nil, err
	}

	if req.OrderID != "" && g.recorder != nil {
		if err := g.recorder.RecordPrintFile(ctx, req.OrderID, result.PrintFileURL, result.QRURL, qrTargetURL); err != nil {
			log.Error().Err(err).Msg("printfile: ledger record failed")
			return nil, err
		}
	}

	log.Info().
		Str("print_file_url", result.PrintFileURL).
		Str("variant", string(g.layout.Variant)).
		Msg("printfile: generated")
	return result, nil
}

// generateCombined composites artwork and QR onto one canvas.
func (g *Generator) generateCombined(ctx context.Context, artBytes []byte, rects printlayout.RectSet, fileID, qrTargetURL string, result *Result) error {
	qrBytes, err := qrimg.Encode(qrTargetURL, qrimg.Transparent(g.qrPixels))
	if err != nil {
		return err
	}

	resizedArt, err := raster.ResizeContain(artBytes, rects.Art.Width, rects.Art.Height)
	if err != nil {
		return fmt.Errorf("artwork: %w", err)
	}
	resizedQR, err := raster.ResizeContain(qrBytes, rects.QR.Width, rects.QR.Height)
	if err != nil {
		return fmt.Errorf("qr: %w", err)
	}

	finalPNG, err := raster.Composite(g.layout.CanvasSize, []raster.Layer{
		{Image: resizedArt, Left: rects.Art.Left, Top: rects.Art.Top},
		{Image: resizedQR, Left: rects.QR.Left, Top: rects.QR.Top},
	})
	if err != nil {
		return err
	}

	url, err := g.store.Upload(ctx, printFileKey(fileID), finalPNG, "image/png")
	if err != nil {
		return err
	}
	result.PrintFileURL = url
	return nil
}

// generateArtOnly produces an art-only print file plus a standalone QR
// asset, uploaded concurrently since neither depends on the other.
func (g *Generator) generateArtOnly(ctx context.Context, artBytes []byte, rects printlayout.RectSet, fileID, qrTargetURL string, result *Result) error {
	resizedArt, err := raster.ResizeContain(artBytes, rects.Art.Width, rects.Art.Height)
	if err != nil {
		return fmt.Errorf("artwork: %w", err)
	}
	finalPNG, err := raster.Composite(g.layout.CanvasSize, []raster.Layer{
		{Image: resizedArt, Left: rects.Art.Left, Top: rects.Art.Top},
	})
	if err != nil {
		return err
	}
	qrPNG, err := qrimg.Encode(qrTargetURL, qrimg.Standalone(g.qrPixels))
	if err != nil {
		return err
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		url, err := g.store.Upload(grpCtx, printFileKey(fileID), finalPNG, "image/png")
		if err != nil {
			return err
		}
		result.PrintFileURL = url
		return nil
	})
	grp.Go(func() error {
		url, err := g.store.Upload(grpCtx, qrFileKey(fileID), qrPNG, "image/png")
		if err != nil {
			return err
		}
		result.QRURL = url
		return nil
	})
	return grp.Wait()
}

func (g *Generator) fetchArtwork(ctx context.Context, artworkURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtworkUnavailable, err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d from %s", ErrArtworkUnavailable, resp.StatusCode, artworkURL)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtworkUnavailable, err)
	}
	return data, nil
}

func printFileKey(fileID string) string {
	return "print-files/" + fileID + ".png"
}

func qrFileKey(fileID string) string {
	return "qr-codes/" + fileID + ".png"
}
