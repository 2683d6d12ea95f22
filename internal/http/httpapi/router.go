package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pawprint/internal/http/handlers"
	"pawprint/internal/middleware"
)

// NewRouter wires all public routes. CORS only applies to the storefront
// API; the webhook and the QR redirect are origin-less.
func NewRouter(app *handlers.App, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(allowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/artworks", func(r chi.Router) {
		r.Post("/", app.ArtworksCreate)
		r.Post("/generate", app.ArtworksGenerate)
		r.Get("/{artworkID}", app.ArtworksGet)
	})

	r.Post("/v1/photo-quality", app.PhotoQuality)
	r.Post("/v1/remove-background", app.RemoveBackground)

	r.Route("/v1/orders", func(r chi.Router) {
		r.Post("/", app.OrdersCreate)
		r.Post("/generate-print-file", app.GeneratePrintFile)
		r.Get("/{orderID}", app.OrdersGet)
		r.Get("/{orderID}/bundle", app.OrderBundle)
	})

	r.Post("/v1/stripe/webhook", app.StripeWebhook)
	r.Get("/v1/print-layout", app.PrintLayout)

	// Short URL baked into every printed QR code.
	r.Get("/p/{artworkID}", app.PublicRedirect)

	return r
}
