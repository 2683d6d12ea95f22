package handlers

import (
	"errors"
	"io"
	"net/http"

	"pawprint/internal/domain"
	"pawprint/internal/payments"
	"pawprint/internal/printfile"
)

// StripeWebhook handles checkout.session.completed: it marks the order paid
// and attempts print-file generation inline. A generation failure is logged
// but not surfaced to Stripe; the order stays paid so the worker retries it.
func (a *App) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "could not read payload")
		return
	}

	completed, err := a.Webhook.ParseEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payments.ErrBadSignature) || errors.Is(err, payments.ErrMissingWebhookSecret) {
			a.Logger.Warn().Err(err).Msg("webhook: rejected event")
			a.error(w, http.StatusBadRequest, "bad_signature", "webhook signature verification failed")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "bad event payload")
		return
	}
	if completed == nil {
		// Unhandled event type; acknowledge so Stripe stops retrying.
		a.json(w, http.StatusOK, map[string]any{"received": true})
		return
	}

	log := a.Logger.With().
		Str("order_id", completed.OrderID).
		Str("artwork_id", completed.ArtworkID).
		Str("session_id", completed.SessionID).
		Logger()

	if completed.OrderID == "" || completed.ArtworkID == "" || completed.ArtworkURL == "" {
		log.Warn().Msg("webhook: completed session missing fulfilment metadata")
		a.json(w, http.StatusOK, map[string]any{"received": true})
		return
	}

	if err := a.Orders.MarkPaid(r.Context(), completed.OrderID, completed.SessionID, completed.Email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Already paid, or the order predates the ledger. Generation
			// below is idempotent either way.
			log.Warn().Msg("webhook: no pending order row to mark paid")
		} else {
			log.Error().Err(err).Msg("webhook: mark paid failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to update order")
			return
		}
	}

	if _, err := a.Generator.Generate(r.Context(), printfile.Request{
		ArtworkID:  completed.ArtworkID,
		ArtworkURL: completed.ArtworkURL,
		OrderID:    completed.OrderID,
	}); err != nil {
		log.Error().Err(err).Msg("webhook: inline print-file generation failed, leaving order for the worker")
	} else {
		log.Info().Msg("webhook: order fulfilled")
	}

	a.json(w, http.StatusOK, map[string]any{"received": true})
}
