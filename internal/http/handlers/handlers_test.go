package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"

	"pawprint/internal/domain"
	"pawprint/internal/infra"
	"pawprint/internal/payments"
	"pawprint/internal/printfile"
	"pawprint/internal/printlayout"
	"pawprint/internal/providers/quality"
	"pawprint/internal/storage"
)

type memArtworks struct {
	mu    sync.Mutex
	items map[string]*domain.Artwork
}

func newMemArtworks() *memArtworks {
	return &memArtworks{items: map[string]*domain.Artwork{}}
}

func (m *memArtworks) Create(_ context.Context, artwork *domain.Artwork) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[artwork.ID] = artwork
	return nil
}

func (m *memArtworks) GetByID(_ context.Context, id string) (*domain.Artwork, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.items[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

type memOrders struct {
	mu    sync.Mutex
	items map[string]*domain.Order
}

func newMemOrders() *memOrders {
	return &memOrders{items: map[string]*domain.Order{}}
}

func (m *memOrders) Create(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *order
	m.items[order.ID] = &clone
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.items[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memOrders) MarkPaid(_ context.Context, orderID, sessionID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.items[orderID]
	if !ok || o.Status != domain.OrderStatusPending {
		return domain.ErrNotFound
	}
	o.Status = domain.OrderStatusPaid
	o.StripeSessionID = sessionID
	if email != "" {
		o.Email = email
	}
	return nil
}

func (m *memOrders) MarkFailed(_ context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.items[orderID]; ok {
		o.Status = domain.OrderStatusFailed
	}
	return nil
}

func (m *memOrders) RecordPrintFile(_ context.Context, orderID, printFileURL, qrURL, qrTargetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.items[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = domain.OrderStatusFulfilled
	o.PrintFileURL = printFileURL
	o.QRURL = qrURL
	o.QRTargetURL = qrTargetURL
	return nil
}

func testLayout() printlayout.Params {
	return printlayout.Params{
		CanvasSize:      600,
		WidthPercent:    44,
		HeightPercent:   33,
		ArtBandFraction: 0.8,
		QRSizeFraction:  0.55,
		QRMinPixels:     32,
		Variant:         printlayout.VariantCombined,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 180, G: 90, B: 40, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestApp(t *testing.T) (*App, *memArtworks, *memOrders) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir(), "http://cdn.test/static")
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	artworks := newMemArtworks()
	orders := newMemOrders()
	gen, err := printfile.New(printfile.Options{
		Store:    store,
		Layout:   testLayout(),
		Recorder: orders,
		Logger:   zerolog.New(io.Discard),
		BaseURL:  "https://pawprint.example.com",
	})
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	app := &App{
		Logger:    infra.Logger(zerolog.New(io.Discard)),
		Artworks:  artworks,
		Orders:    orders,
		Store:     store,
		Generator: gen,
		Layout:    testLayout(),
		Webhook:   payments.WebhookVerifier{SkipVerification: true},
		BaseURL:   "https://pawprint.example.com",
	}
	return app, artworks, orders
}

func artworkServer(t *testing.T, png []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPrintLayoutEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t)

	rec := httptest.NewRecorder()
	app.PrintLayout(rec, httptest.NewRequest(http.MethodGet, "/v1/print-layout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Preview printlayout.PreviewSpec `json:"preview"`
		Rects   printlayout.RectSet     `json:"rects"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Preview.CanvasSize != 600 {
		t.Fatalf("canvas = %d, want 600", body.Preview.CanvasSize)
	}
	if body.Rects.QR == nil {
		t.Fatalf("combined layout must include a qr rect")
	}
	if body.Rects.Art.Top != body.Rects.PrintArea.Top {
		t.Fatalf("art band must anchor at the print area top")
	}

	rec = httptest.NewRecorder()
	app.PrintLayout(rec, httptest.NewRequest(http.MethodGet, "/v1/print-layout?variant=art_only", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("art_only status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Rects.QR != nil {
		t.Fatalf("art_only layout must not include a qr rect")
	}

	rec = httptest.NewRecorder()
	app.PrintLayout(rec, httptest.NewRequest(http.MethodGet, "/v1/print-layout?variant=poster", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown variant status = %d, want 400", rec.Code)
	}
}

func TestGeneratePrintFileEndpoint(t *testing.T) {
	app, _, orders := newTestApp(t)
	_ = orders.Create(context.Background(), &domain.Order{ID: "ord_1", Status: domain.OrderStatusPaid})
	server := artworkServer(t, pngBytes(t, 320, 240))

	payload := `{"orderId":"ord_1","artworkId":"art_1","artworkUrl":"` + server.URL + `/art_1.png"}`
	rec := httptest.NewRecorder()
	app.GeneratePrintFile(rec, httptest.NewRequest(http.MethodPost, "/v1/orders/generate-print-file", strings.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["printFileUrl"] == "" {
		t.Fatalf("missing printFileUrl: %v", body)
	}
	if target, _ := body["targetUrl"].(string); target != "https://pawprint.example.com/p/art_1" {
		t.Fatalf("targetUrl = %q", target)
	}

	order, err := orders.GetByID(context.Background(), "ord_1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Status != domain.OrderStatusFulfilled || order.PrintFileURL == "" {
		t.Fatalf("order not fulfilled: %+v", order)
	}
}

func TestGeneratePrintFileValidation(t *testing.T) {
	app, _, _ := newTestApp(t)

	rec := httptest.NewRecorder()
	app.GeneratePrintFile(rec, httptest.NewRequest(http.MethodPost, "/v1/orders/generate-print-file", strings.NewReader(`{"orderId":"ord_1"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStripeWebhookFulfillsOrder(t *testing.T) {
	app, _, orders := newTestApp(t)
	server := artworkServer(t, pngBytes(t, 320, 240))
	_ = orders.Create(context.Background(), &domain.Order{ID: "ord_9", Status: domain.OrderStatusPending})

	event, _ := json.Marshal(map[string]any{
		"id":   "evt_1",
		"type": "checkout.session.completed",
		"data": map[string]any{"object": map[string]any{
			"id": "cs_test_9",
			"metadata": map[string]any{
				"orderId":    "ord_9",
				"artworkId":  "art_9",
				"artworkUrl": server.URL + "/art_9.png",
			},
			"customer_details": map[string]any{"email": "owner@example.com"},
		}},
	})

	rec := httptest.NewRecorder()
	app.StripeWebhook(rec, httptest.NewRequest(http.MethodPost, "/v1/stripe/webhook", bytes.NewReader(event)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	order, err := orders.GetByID(context.Background(), "ord_9")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Status != domain.OrderStatusFulfilled {
		t.Fatalf("status = %s, want fulfilled", order.Status)
	}
	if order.StripeSessionID != "cs_test_9" || order.Email != "owner@example.com" {
		t.Fatalf("payment details not recorded: %+v", order)
	}
	if order.QRTargetURL != "https://pawprint.example.com/p/art_9" {
		t.Fatalf("qr target = %q", order.QRTargetURL)
	}
}

func TestStripeWebhookIgnoresOtherEvents(t *testing.T) {
	app, _, _ := newTestApp(t)
	event, _ := json.Marshal(map[string]any{
		"id":   "evt_2",
		"type": "payment_intent.created",
		"data": map[string]any{"object": map[string]any{}},
	})

	rec := httptest.NewRecorder()
	app.StripeWebhook(rec, httptest.NewRequest(http.MethodPost, "/v1/stripe/webhook", bytes.NewReader(event)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestArtworksCreateAndRedirect(t *testing.T) {
	app, _, _ := newTestApp(t)

	payload, _ := json.Marshal(map[string]any{
		"imageBase64": "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 64, 64)),
		"styleId":     "disney",
		"petName":     "Biscuit",
	})
	rec := httptest.NewRecorder()
	app.ArtworksCreate(rec, httptest.NewRequest(http.MethodPost, "/v1/artworks", bytes.NewReader(payload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var created artworkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.StyleID != domain.StyleCartoon {
		t.Fatalf("styleId = %s, want cartoon (disney alias)", created.StyleID)
	}
	if !strings.HasPrefix(created.ArtworkID, "art_") || created.ImageURL == "" {
		t.Fatalf("unexpected artwork: %+v", created)
	}

	router := chi.NewRouter()
	router.Get("/p/{artworkID}", app.PublicRedirect)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p/"+created.ArtworkID, nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("redirect status = %d, want 302", rec.Code)
	}
	if rec.Header().Get("Location") != created.ImageURL {
		t.Fatalf("redirect location = %q, want %q", rec.Header().Get("Location"), created.ImageURL)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p/art_missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing artwork status = %d, want 404", rec.Code)
	}
}

func TestPhotoQualityEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t)
	scorer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []any{map[string]any{"content": []any{map[string]any{
				"type": "output_text",
				"text": `{"face":8,"sharpness":8,"lighting":8,"background":8,"score":8,"status":"good"}`,
			}}}},
		})
	}))
	t.Cleanup(scorer.Close)
	client, err := quality.NewClient(quality.Options{APIKey: "test", BaseURL: scorer.URL})
	if err != nil {
		t.Fatalf("quality client: %v", err)
	}
	app.Quality = client

	payload, _ := json.Marshal(map[string]any{
		"imageBase64": base64.StdEncoding.EncodeToString(pngBytes(t, 32, 32)),
	})
	rec := httptest.NewRecorder()
	app.PhotoQuality(rec, httptest.NewRequest(http.MethodPost, "/v1/photo-quality", bytes.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var report domain.QualityReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != domain.QualityGood || report.Score != 8 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestRemoveBackgroundUnconfigured(t *testing.T) {
	app, _, _ := newTestApp(t)

	rec := httptest.NewRecorder()
	app.RemoveBackground(rec, httptest.NewRequest(http.MethodPost, "/v1/remove-background", strings.NewReader(`{"imageBase64":"aGk="}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestOrdersCreateOpensCheckout(t *testing.T) {
	app, artworks, orders := newTestApp(t)
	_ = artworks.Create(context.Background(), &domain.Artwork{
		ID:      "art_7",
		StyleID: domain.StyleGirlboss,
		URL:     "http://cdn.test/static/artworks/art_7.png",
	})

	stripeServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":  "cs_test_7",
			"url": "https://checkout.stripe.com/c/pay/cs_test_7",
		})
	}))
	t.Cleanup(stripeServer.Close)
	checkout, err := payments.NewCheckout(payments.CheckoutOptions{
		SecretKey: "sk_test_x",
		SiteURL:   "https://pawprint.example.com",
		Backend:   stripeBackend(stripeServer),
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	app.Checkout = checkout

	payload := `{"artworkId":"art_7","email":"owner@example.com"}`
	rec := httptest.NewRecorder()
	app.OrdersCreate(rec, httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(payload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["checkoutUrl"] != "https://checkout.stripe.com/c/pay/cs_test_7" {
		t.Fatalf("checkoutUrl = %v", body["checkoutUrl"])
	}
	if body["styleId"] != "girlboss" {
		t.Fatalf("styleId should come from the ledger, got %v", body["styleId"])
	}

	orderID, _ := body["orderId"].(string)
	order, err := orders.GetByID(context.Background(), orderID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if order.Status != domain.OrderStatusPending || order.AmountPence != payments.DefaultAmountPence {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func stripeBackend(server *httptest.Server) stripe.Backend {
	return stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:        stripe.String(server.URL),
		HTTPClient: server.Client(),
	})
}

func TestOrdersGetNotFound(t *testing.T) {
	app, _, _ := newTestApp(t)
	router := chi.NewRouter()
	router.Get("/v1/orders/{orderID}", app.OrdersGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders/ord_missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
