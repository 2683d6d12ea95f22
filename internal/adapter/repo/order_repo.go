package repo

import (
	"context"

	"pawprint/internal/domain"
	"pawprint/internal/infra"
	"pawprint/internal/sqlinline"
)

// OrderRepositoryPG implements domain.OrderRepository backed by PostgreSQL.
type OrderRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewOrderRepository creates a new OrderRepositoryPG.
func NewOrderRepository(sql infra.SQLExecutor) *OrderRepositoryPG {
	return &OrderRepositoryPG{sql: sql}
}

// Create persists a pending order.
func (r *OrderRepositoryPG) Create(ctx context.Context, order *domain.Order) error {
	var id string
	row := r.sql.QueryRow(ctx, sqlinline.QCreateOrder,
		order.ID,
		order.ArtworkID,
		order.ArtworkURL,
		order.StyleID,
		order.Email,
		order.AmountPence,
		order.Currency,
		order.StripeSessionID,
	)
	return row.Scan(&id)
}

// GetByID fetches an order by its public identifier.
func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	row := r.sql.QueryRow(ctx, sqlinline.QGetOrder, id)
	err := row.Scan(
		&o.ID,
		&o.ArtworkID,
		&o.ArtworkURL,
		&o.StyleID,
		&o.Email,
		&o.Status,
		&o.AmountPence,
		&o.Currency,
		&o.StripeSessionID,
		&o.PrintFileURL,
		&o.QRURL,
		&o.QRTargetURL,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// MarkPaid flips a pending order to paid after the checkout completes.
// The email is only written when Stripe supplied one.
func (r *OrderRepositoryPG) MarkPaid(ctx context.Context, orderID, stripeSessionID, email string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QMarkOrderPaid, orderID, stripeSessionID, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkFailed records a terminal fulfilment failure.
func (r *OrderRepositoryPG) MarkFailed(ctx context.Context, orderID string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkOrderFailed, orderID)
	return err
}

// RecordPrintFile stores the generated asset URLs and marks the order
// fulfilled.
func (r *OrderRepositoryPG) RecordPrintFile(ctx context.Context, orderID, printFileURL, qrURL, qrTargetURL string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QRecordPrintFile, orderID, printFileURL, qrURL, qrTargetURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.OrderRepository = (*OrderRepositoryPG)(nil)
