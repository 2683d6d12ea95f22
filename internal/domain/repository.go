package domain

import "context"

// ArtworkRepository defines persistence for styled artworks.
type ArtworkRepository interface {
	Create(ctx context.Context, artwork *Artwork) error
	GetByID(ctx context.Context, id string) (*Artwork, error)
}

// OrderRepository defines persistence for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	MarkPaid(ctx context.Context, orderID, stripeSessionID, email string) error
	MarkFailed(ctx context.Context, orderID string) error
	RecordPrintFile(ctx context.Context, orderID, printFileURL, qrURL, qrTargetURL string) error
}

// PrintFileRecorder is the narrow slice of OrderRepository the print-file
// generator needs: it stores the produced URLs and flips the order to
// fulfilled. The generator stays free of persistence-layer specifics.
type PrintFileRecorder interface {
	RecordPrintFile(ctx context.Context, orderID, printFileURL, qrURL, qrTargetURL string) error
}
