package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pawprint/internal/providers/quality"
)

type photoQualityRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

// PhotoQuality grades an uploaded pet photo against the generation rubric.
func (a *App) PhotoQuality(w http.ResponseWriter, r *http.Request) {
	var req photoQualityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	image, err := decodeImagePayload(req.ImageBase64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	report, err := a.Quality.Score(r.Context(), image)
	if err != nil {
		a.Logger.Error().Err(err).Msg("quality: scoring failed")
		if errors.Is(err, quality.ErrInvalidReport) {
			a.error(w, http.StatusBadGateway, "provider_failure", "model returned an invalid report")
			return
		}
		a.domainError(w, err, "failed to score image")
		return
	}
	a.json(w, http.StatusOK, report)
}
