package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pawprint/internal/domain"
	"pawprint/internal/payments"
)

type createOrderRequest struct {
	OrderID    string `json:"orderId"`
	ID         string `json:"id"` // some storefront builds send `id`
	ArtworkID  string `json:"artworkId"`
	ArtworkURL string `json:"artworkUrl"`
	StyleID    string `json:"styleId"`
	Email      string `json:"email"`
}

type orderResponse struct {
	OrderID      string             `json:"orderId"`
	ArtworkID    string             `json:"artworkId"`
	ArtworkURL   string             `json:"artworkUrl"`
	StyleID      domain.StyleID     `json:"styleId"`
	Status       domain.OrderStatus `json:"status"`
	AmountPence  int64              `json:"amountPence"`
	Currency     string             `json:"currency"`
	Price        string             `json:"price"`
	PrintFileURL string             `json:"printFileUrl,omitempty"`
	QRURL        string             `json:"qrUrl,omitempty"`
	QRTargetURL  string             `json:"qrTargetUrl,omitempty"`
}

// OrdersCreate opens a Stripe checkout session for one flask and records the
// pending order. The artwork URL is resolved from the ledger when the
// storefront only sends the id.
func (a *App) OrdersCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		orderID = strings.TrimSpace(req.ID)
	}
	if orderID == "" {
		orderID = domain.NewOrderID()
	}
	artworkID := strings.TrimSpace(req.ArtworkID)
	if artworkID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "artworkId is required")
		return
	}

	artworkURL := strings.TrimSpace(req.ArtworkURL)
	style := domain.NormalizeStyle(req.StyleID)
	if artworkURL == "" {
		artwork, err := a.Artworks.GetByID(r.Context(), artworkID)
		if err != nil {
			a.domainError(w, err, "failed to resolve artwork")
			return
		}
		artworkURL = artwork.URL
		if req.StyleID == "" {
			style = artwork.StyleID
		}
	}

	session, err := a.Checkout.CreateSession(payments.CheckoutInput{
		OrderID:    orderID,
		ArtworkID:  artworkID,
		ArtworkURL: artworkURL,
		StyleID:    string(style),
		Email:      req.Email,
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("order_id", orderID).Msg("orders: checkout session failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "failed to create checkout session")
		return
	}

	order := &domain.Order{
		ID:              orderID,
		ArtworkID:       artworkID,
		ArtworkURL:      artworkURL,
		StyleID:         style,
		Email:           strings.TrimSpace(req.Email),
		Status:          domain.OrderStatusPending,
		AmountPence:     a.Checkout.AmountPence(),
		Currency:        a.Checkout.Currency(),
		StripeSessionID: session.SessionID,
	}
	if err := a.Orders.Create(r.Context(), order); err != nil {
		a.Logger.Error().Err(err).Str("order_id", orderID).Msg("orders: ledger insert failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create order")
		return
	}

	a.Logger.Info().Str("order_id", orderID).Str("session_id", session.SessionID).Msg("orders: created")
	a.json(w, http.StatusCreated, map[string]any{
		"ok":          true,
		"orderId":     orderID,
		"artworkId":   artworkID,
		"artworkUrl":  artworkURL,
		"styleId":     style,
		"price":       payments.FormatAmount(order.AmountPence, order.Currency),
		"checkoutUrl": session.CheckoutURL,
		"url":         session.CheckoutURL,
		"sessionId":   session.SessionID,
	})
}

// OrdersGet returns the order ledger row.
func (a *App) OrdersGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	order, err := a.Orders.GetByID(r.Context(), id)
	if err != nil {
		a.domainError(w, err, "failed to load order")
		return
	}
	a.json(w, http.StatusOK, orderResponse{
		OrderID:      order.ID,
		ArtworkID:    order.ArtworkID,
		ArtworkURL:   order.ArtworkURL,
		StyleID:      order.StyleID,
		Status:       order.Status,
		AmountPence:  order.AmountPence,
		Currency:     order.Currency,
		Price:        payments.FormatAmount(order.AmountPence, order.Currency),
		PrintFileURL: order.PrintFileURL,
		QRURL:        order.QRURL,
		QRTargetURL:  order.QRTargetURL,
	})
}
