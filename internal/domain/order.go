package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// OrderStatus enumerates the order lifecycle states. A print file is only
// generated once the order is paid.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusPrinting  OrderStatus = "printing"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusFailed    OrderStatus = "failed"
)

// Order ties a paid checkout to an artwork and, once fulfilled, to the
// print-ready assets.
type Order struct {
	ID              string
	ArtworkID       string
	ArtworkURL      string
	StyleID         StyleID
	Email           string
	Status          OrderStatus
	AmountPence     int64
	Currency        string
	StripeSessionID string
	PrintFileURL    string
	QRURL           string
	QRTargetURL     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrderID returns a fresh identifier in the form ord_<16 hex chars>.
func NewOrderID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "ord_" + hex.EncodeToString(buf)
}
