package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"pawprint/internal/domain"
	"pawprint/internal/printfile"
	"pawprint/internal/printlayout"
	pkgzip "pawprint/pkg/zip"
)

type generatePrintFileRequest struct {
	OrderID    string `json:"orderId"`
	ArtworkID  string `json:"artworkId"`
	ArtworkURL string `json:"artworkUrl"`
}

// GeneratePrintFile produces the print-ready PNG for an artwork, keyed by
// order when one is supplied so regeneration overwrites in place.
func (a *App) GeneratePrintFile(w http.ResponseWriter, r *http.Request) {
	var req generatePrintFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.ArtworkID) == "" || strings.TrimSpace(req.ArtworkURL) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "artworkId and artworkUrl are required")
		return
	}

	result, err := a.Generator.Generate(r.Context(), printfile.Request{
		ArtworkID:  req.ArtworkID,
		ArtworkURL: req.ArtworkURL,
		OrderID:    strings.TrimSpace(req.OrderID),
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("artwork_id", req.ArtworkID).Msg("printfile: generation failed")
		if errors.Is(err, printfile.ErrArtworkUnavailable) {
			a.error(w, http.StatusBadGateway, "artwork_unavailable", "could not fetch the artwork image")
			return
		}
		a.domainError(w, err, "failed to generate print file")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"success":      true,
		"orderId":      orEmptyNull(req.OrderID),
		"artworkId":    req.ArtworkID,
		"targetUrl":    result.QRTargetURL,
		"printFileUrl": result.PrintFileURL,
		"qrUrl":        result.QRURL,
		"canvasSize":   result.CanvasSize,
		"rectsUsed":    result.Rects,
		"variant":      result.Variant,
	})
}

// PrintLayout exposes the resolved geometry so the on-screen preview can
// share one source of truth with the compositor.
func (a *App) PrintLayout(w http.ResponseWriter, r *http.Request) {
	params := a.Layout
	if v := r.URL.Query().Get("variant"); v != "" {
		variant, err := printlayout.ParseVariant(v)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown layout variant")
			return
		}
		params.Variant = variant
	}
	rects, err := params.Resolve()
	if err != nil {
		a.domainError(w, err, "failed to resolve layout")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"preview": params.Preview(),
		"rects":   rects,
	})
}

// OrderBundle streams a zip of the order's print assets for the print shop.
func (a *App) OrderBundle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	order, err := a.Orders.GetByID(r.Context(), id)
	if err != nil {
		a.domainError(w, err, "failed to load order")
		return
	}
	if order.Status != domain.OrderStatusFulfilled || order.PrintFileURL == "" {
		a.error(w, http.StatusConflict, "not_fulfilled", "order has no print assets yet")
		return
	}

	assets := []pkgzip.Asset{{Filename: order.ID + "_print.png", MIME: "image/png"}}
	urls := []string{order.PrintFileURL}
	if order.QRURL != "" {
		assets = append(assets, pkgzip.Asset{Filename: order.ID + "_qr.png", MIME: "image/png"})
		urls = append(urls, order.QRURL)
	}

	g, ctx := errgroup.WithContext(r.Context())
	for i := range assets {
		g.Go(func() error {
			data, err := fetchBytes(ctx, urls[i])
			if err != nil {
				return err
			}
			assets[i].Data = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.Logger.Error().Err(err).Str("order_id", order.ID).Msg("orders: bundle fetch failed")
		a.error(w, http.StatusBadGateway, "asset_unavailable", "could not fetch the print assets")
		return
	}

	archive := pkgzip.ArchiveAssets(assets)
	if len(archive) == 0 {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build bundle")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+order.ID+`_bundle.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func orEmptyNull(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
