package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pawprint/internal/domain"
	"pawprint/internal/infra"
	"pawprint/internal/payments"
	"pawprint/internal/printfile"
	"pawprint/internal/printlayout"
	"pawprint/internal/providers/art"
	"pawprint/internal/providers/matting"
	"pawprint/internal/providers/quality"
	"pawprint/internal/storage"
)

// App carries the wired dependencies shared by all HTTP handlers.
type App struct {
	Logger    infra.Logger
	Artworks  domain.ArtworkRepository
	Orders    domain.OrderRepository
	Store     storage.BlobStore
	Generator *printfile.Generator
	Layout    printlayout.Params

	Art     *art.Client
	Quality *quality.Client
	Matting *matting.Client

	Checkout *payments.Checkout
	Webhook  payments.WebhookVerifier

	// BaseURL is the public URL of this API, used for QR redirect targets.
	BaseURL string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{
		"error":   slug,
		"message": message,
	})
}

// domainError maps sentinel domain errors onto HTTP responses; anything
// unrecognized becomes a 500 with the fallback message.
func (a *App) domainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, printlayout.ErrInvalidLayoutParams):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrOrderNotPaid):
		a.error(w, http.StatusConflict, "order_not_paid", "order has not been paid")
	case errors.Is(err, domain.ErrProviderFailure):
		a.error(w, http.StatusBadGateway, "provider_failure", fallback)
	default:
		a.error(w, http.StatusInternalServerError, "internal", fallback)
	}
}

// decodeImagePayload accepts both raw base64 and data-URL payloads, the two
// shapes the storefront has historically sent.
func decodeImagePayload(imageBase64 string) ([]byte, error) {
	payload := strings.TrimSpace(imageBase64)
	if payload == "" {
		return nil, errors.New("imageBase64 is required")
	}
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.New("imageBase64 is not valid base64")
	}
	if len(data) == 0 {
		return nil, errors.New("imageBase64 decodes to an empty image")
	}
	return data, nil
}

func dataURL(image []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
}

func fetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
