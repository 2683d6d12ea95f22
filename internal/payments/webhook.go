package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// ErrMissingWebhookSecret indicates the verifier was configured without a
// signing secret.
var ErrMissingWebhookSecret = errors.New("payments: stripe webhook secret is required")

// ErrBadSignature wraps Stripe signature verification failures.
var ErrBadSignature = errors.New("payments: webhook signature verification failed")

// CheckoutCompleted is the fulfilment trigger extracted from a
// checkout.session.completed event.
type CheckoutCompleted struct {
	OrderID    string
	ArtworkID  string
	ArtworkURL string
	StyleID    string
	Email      string
	SessionID  string
}

// WebhookVerifier checks event signatures and extracts completed checkouts.
// With SkipVerification set the raw payload is trusted, which mirrors how
// local development runs without the Stripe CLI.
type WebhookVerifier struct {
	Secret           string
	SkipVerification bool
}

// ParseEvent verifies the payload and returns the completed checkout, or
// (nil, nil) for event types fulfilment does not care about.
func (v WebhookVerifier) ParseEvent(payload []byte, sigHeader string) (*CheckoutCompleted, error) {
	var event stripe.Event
	if v.SkipVerification {
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("payments: parse event: %w", err)
		}
	} else {
		if strings.TrimSpace(v.Secret) == "" {
			return nil, ErrMissingWebhookSecret
		}
		verified, err := webhook.ConstructEvent(payload, sigHeader, v.Secret)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
		}
		event = verified
	}

	if event.Type != "checkout.session.completed" {
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("payments: parse session: %w", err)
	}

	meta := session.Metadata
	completed := &CheckoutCompleted{
		OrderID:    firstNonEmpty(meta["orderId"], meta["order_id"], session.ClientReferenceID),
		ArtworkID:  firstNonEmpty(meta["artworkId"], meta["artwork_id"]),
		ArtworkURL: firstNonEmpty(meta["artworkUrl"], meta["artwork_url"]),
		StyleID:    firstNonEmpty(meta["styleId"], meta["style_id"]),
		SessionID:  session.ID,
	}
	if session.CustomerDetails != nil {
		completed.Email = session.CustomerDetails.Email
	}
	if completed.Email == "" {
		completed.Email = session.CustomerEmail
	}
	return completed, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
