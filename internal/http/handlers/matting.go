package handlers

import (
	"encoding/json"
	"net/http"
)

type removeBackgroundRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

// RemoveBackground mats the uploaded photo and returns the cut-out as a
// data URL, matching the contract the storefront expects.
func (a *App) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	if a.Matting == nil || !a.Matting.HasCredentials() {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "background removal is not configured")
		return
	}
	var req removeBackgroundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	image, err := decodeImagePayload(req.ImageBase64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	matted, err := a.Matting.RemoveBackground(r.Context(), image)
	if err != nil {
		a.Logger.Error().Err(err).Msg("matting: removal failed")
		a.domainError(w, err, "background removal failed")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"imageBase64": dataURL(matted)})
}
