package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pawprint/internal/domain"
	"pawprint/internal/providers/art"
)

type saveArtworkRequest struct {
	ImageBase64 string                `json:"imageBase64"`
	PetName     string                `json:"petName"`
	PetType     string                `json:"petType"`
	StyleID     string                `json:"styleId"`
	Quality     *domain.QualityReport `json:"qualityResult"`
}

type generateArtworkRequest struct {
	ImageBase64      string `json:"imageBase64"`
	PetName          string `json:"petName"`
	PetType          string `json:"petType"`
	StyleID          string `json:"styleId"`
	RemoveBackground bool   `json:"removeBackground"`
}

type artworkResponse struct {
	ArtworkID string                `json:"artworkId"`
	ImageURL  string                `json:"imageUrl"`
	PetName   string                `json:"petName,omitempty"`
	PetType   string                `json:"petType,omitempty"`
	StyleID   domain.StyleID        `json:"styleId"`
	Quality   *domain.QualityReport `json:"qualityResult,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

// ArtworksCreate persists an already-stylised artwork supplied by the
// storefront and returns its id and public URL.
func (a *App) ArtworksCreate(w http.ResponseWriter, r *http.Request) {
	var req saveArtworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.StyleID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "imageBase64 and styleId are required")
		return
	}
	image, err := decodeImagePayload(req.ImageBase64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.storeArtwork(w, r, image, req.PetName, req.PetType, domain.NormalizeStyle(req.StyleID), req.Quality)
}

// ArtworksGenerate runs the full stylisation flow server-side: optional
// background removal, the image-edit provider, then storage and the ledger.
func (a *App) ArtworksGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateArtworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	image, err := decodeImagePayload(req.ImageBase64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	style := domain.NormalizeStyle(req.StyleID)

	if req.RemoveBackground && a.Matting != nil && a.Matting.HasCredentials() {
		matted, err := a.Matting.RemoveBackground(r.Context(), image)
		if err != nil {
			// Matting is cosmetic; continue with the original photo.
			a.Logger.Warn().Err(err).Msg("artworks: background removal failed, using original photo")
		} else {
			image = matted
		}
	}

	portrait, err := a.Art.Stylize(r.Context(), art.StylizeRequest{
		Image:   image,
		Style:   style,
		PetName: req.PetName,
		PetType: req.PetType,
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("style", string(style)).Msg("artworks: stylise failed")
		a.domainError(w, err, "failed to generate artwork")
		return
	}
	a.storeArtwork(w, r, portrait, req.PetName, req.PetType, style, nil)
}

func (a *App) storeArtwork(w http.ResponseWriter, r *http.Request, image []byte, petName, petType string, style domain.StyleID, report *domain.QualityReport) {
	artworkID := domain.NewArtworkID()
	key := "artworks/" + artworkID + ".png"
	url, err := a.Store.Upload(r.Context(), key, image, "image/png")
	if err != nil {
		a.Logger.Error().Err(err).Str("key", key).Msg("artworks: upload failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store artwork")
		return
	}

	record := &domain.Artwork{
		ID:         artworkID,
		StyleID:    style,
		PetName:    petName,
		PetType:    petType,
		StorageKey: key,
		URL:        url,
		Quality:    report,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.Artworks.Create(r.Context(), record); err != nil {
		a.Logger.Error().Err(err).Str("artwork_id", artworkID).Msg("artworks: ledger insert failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save artwork")
		return
	}

	a.Logger.Info().Str("artwork_id", artworkID).Str("style", string(style)).Msg("artworks: saved")
	a.json(w, http.StatusCreated, artworkResponse{
		ArtworkID: artworkID,
		ImageURL:  url,
		PetName:   petName,
		PetType:   petType,
		StyleID:   style,
		Quality:   report,
		CreatedAt: record.CreatedAt,
	})
}

// ArtworksGet returns the stored artwork record.
func (a *App) ArtworksGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "artworkID")
	artwork, err := a.Artworks.GetByID(r.Context(), id)
	if err != nil {
		a.domainError(w, err, "failed to load artwork")
		return
	}
	a.json(w, http.StatusOK, artworkResponse{
		ArtworkID: artwork.ID,
		ImageURL:  artwork.URL,
		PetName:   artwork.PetName,
		PetType:   artwork.PetType,
		StyleID:   artwork.StyleID,
		Quality:   artwork.Quality,
		CreatedAt: artwork.CreatedAt,
	})
}

// PublicRedirect serves the short URL printed inside the QR code: it looks
// the artwork up and redirects the scanner to the public image.
func (a *App) PublicRedirect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "artworkID")
	artwork, err := a.Artworks.GetByID(r.Context(), id)
	if err != nil {
		a.domainError(w, err, "failed to resolve artwork")
		return
	}
	http.Redirect(w, r, artwork.URL, http.StatusFound)
}
