// Package payments wraps Stripe checkout and webhook handling for flask
// orders. Pricing is inline on the session rather than a Stripe price object
// so the catalogue stays in one place.
package payments

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"pawprint/internal/infra"
)

// ErrMissingSecretKey indicates the checkout client was configured without
// a Stripe secret key.
var ErrMissingSecretKey = errors.New("payments: stripe secret key is required")

const (
	// DefaultAmountPence is the launch price of a flask in GBP pence.
	DefaultAmountPence int64 = 1999
	// DefaultCurrency is the ISO 4217 code Stripe charges in.
	DefaultCurrency = "gbp"

	defaultProductName        = "Custom Pet Flask"
	defaultProductDescription = "AI-generated pet artwork on a premium stainless steel flask"
)

// CheckoutOptions configures the Stripe checkout client.
type CheckoutOptions struct {
	SecretKey          string
	SiteURL            string
	ProductName        string
	ProductDescription string
	AmountPence        int64
	Currency           string
	Backend            stripe.Backend
	Logger             *infra.Logger
}

// Checkout creates Stripe checkout sessions for flask orders.
type Checkout struct {
	sessions           *session.Client
	siteURL            string
	productName        string
	productDescription string
	amountPence        int64
	currency           string
	logger             *infra.Logger
}

// CheckoutInput carries everything the session needs to fulfil the order
// later from the webhook alone.
type CheckoutInput struct {
	OrderID    string
	ArtworkID  string
	ArtworkURL string
	StyleID    string
	Email      string
}

// CheckoutSession is the subset of the Stripe session the API returns to
// the frontend.
type CheckoutSession struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// NewCheckout constructs the checkout client.
func NewCheckout(opts CheckoutOptions) (*Checkout, error) {
	key := strings.TrimSpace(opts.SecretKey)
	if key == "" {
		return nil, ErrMissingSecretKey
	}
	backend := opts.Backend
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}
	siteURL := strings.TrimRight(opts.SiteURL, "/")
	if siteURL == "" {
		siteURL = "http://localhost:3000"
	}
	name := strings.TrimSpace(opts.ProductName)
	if name == "" {
		name = defaultProductName
	}
	description := strings.TrimSpace(opts.ProductDescription)
	if description == "" {
		description = defaultProductDescription
	}
	amount := opts.AmountPence
	if amount <= 0 {
		amount = DefaultAmountPence
	}
	cur := strings.ToLower(strings.TrimSpace(opts.Currency))
	if cur == "" {
		cur = DefaultCurrency
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Checkout{
		sessions:           &session.Client{B: backend, Key: key},
		siteURL:            siteURL,
		productName:        name,
		productDescription: description,
		amountPence:        amount,
		currency:           cur,
		logger:             logger,
	}, nil
}

// AmountPence returns the configured unit price.
func (c *Checkout) AmountPence() int64 { return c.amountPence }

// Currency returns the configured ISO 4217 code.
func (c *Checkout) Currency() string { return c.currency }

// CreateSession opens a payment-mode checkout session for one flask.
// Metadata is written in both camelCase and snake_case so older consumers
// of the webhook keep working.
func (c *Checkout) CreateSession(in CheckoutInput) (*CheckoutSession, error) {
	if strings.TrimSpace(in.OrderID) == "" {
		return nil, errors.New("payments: order id is required")
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(in.OrderID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(c.currency),
				UnitAmount: stripe.Int64(c.amountPence),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(c.productName),
					Description: stripe.String(c.productDescription),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(c.siteURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(c.siteURL + "/cancel"),
	}
	metadata := map[string]string{
		"orderId":     in.OrderID,
		"artworkId":   in.ArtworkID,
		"artworkUrl":  in.ArtworkURL,
		"styleId":     in.StyleID,
		"order_id":    in.OrderID,
		"artwork_id":  in.ArtworkID,
		"artwork_url": in.ArtworkURL,
		"style_id":    in.StyleID,
	}
	for k, v := range metadata {
		if v != "" {
			params.AddMetadata(k, v)
		}
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		params.CustomerEmail = stripe.String(email)
	}

	s, err := c.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("payments: create session: %w", err)
	}
	if s.URL == "" {
		return nil, errors.New("payments: session created without url")
	}
	c.logger.Info().
		Str("session_id", s.ID).
		Str("order_id", in.OrderID).
		Msg("payments: created checkout session")
	return &CheckoutSession{SessionID: s.ID, CheckoutURL: s.URL}, nil
}
