package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pawprint/internal/domain"
	"pawprint/internal/sqlinline"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type stubExecutor struct {
	lastQuery string
	lastArgs  []any
	row       simpleRow
	execTag   pgconn.CommandTag
	execErr   error
}

func (s *stubExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.lastQuery = query
	s.lastArgs = args
	return s.execTag, s.execErr
}

func (s *stubExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.lastQuery = query
	s.lastArgs = args
	return s.row
}

func (s *stubExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	s.lastQuery = query
	s.lastArgs = args
	return nil, errors.New("query not supported in stub")
}

func TestOrderRepositoryGetByIDNotFound(t *testing.T) {
	stub := &stubExecutor{}
	r := NewOrderRepository(stub)

	_, err := r.GetByID(context.Background(), "ord_missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if stub.lastQuery != sqlinline.QGetOrder {
		t.Fatalf("unexpected query executed")
	}
}

func TestOrderRepositoryGetByIDScansAllColumns(t *testing.T) {
	now := time.Now()
	stub := &stubExecutor{row: simpleRow{scan: func(dest ...any) error {
		if len(dest) != 14 {
			t.Fatalf("expected 14 scan targets, got %d", len(dest))
		}
		*dest[0].(*string) = "ord_1234"
		*dest[1].(*string) = "art_abcd"
		*dest[2].(*string) = "https://cdn.example.com/artworks/art_abcd.png"
		*dest[3].(*domain.StyleID) = domain.StyleGangster
		*dest[4].(*string) = "owner@example.com"
		*dest[5].(*domain.OrderStatus) = domain.OrderStatusPaid
		*dest[6].(*int64) = 1999
		*dest[7].(*string) = "gbp"
		*dest[8].(*string) = "cs_test_1"
		*dest[12].(*time.Time) = now
		*dest[13].(*time.Time) = now
		return nil
	}}}
	r := NewOrderRepository(stub)

	order, err := r.GetByID(context.Background(), "ord_1234")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if order.Status != domain.OrderStatusPaid {
		t.Fatalf("expected paid status, got %s", order.Status)
	}
	if order.AmountPence != 1999 || order.Currency != "gbp" {
		t.Fatalf("unexpected amount %d %s", order.AmountPence, order.Currency)
	}
}

func TestOrderRepositoryMarkPaidRequiresPendingRow(t *testing.T) {
	stub := &stubExecutor{execTag: pgconn.NewCommandTag("UPDATE 0")}
	r := NewOrderRepository(stub)

	err := r.MarkPaid(context.Background(), "ord_1234", "cs_test_1", "owner@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for zero rows, got %v", err)
	}

	stub.execTag = pgconn.NewCommandTag("UPDATE 1")
	if err := r.MarkPaid(context.Background(), "ord_1234", "cs_test_1", ""); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if stub.lastQuery != sqlinline.QMarkOrderPaid {
		t.Fatalf("unexpected query executed")
	}
}

func TestOrderRepositoryRecordPrintFile(t *testing.T) {
	stub := &stubExecutor{execTag: pgconn.NewCommandTag("UPDATE 1")}
	r := NewOrderRepository(stub)

	err := r.RecordPrintFile(context.Background(), "ord_1234",
		"https://cdn.example.com/print-files/ord_1234.png",
		"https://cdn.example.com/qr-codes/ord_1234.png",
		"https://pawprint.example.com/p/art_abcd")
	if err != nil {
		t.Fatalf("RecordPrintFile: %v", err)
	}
	if len(stub.lastArgs) != 4 {
		t.Fatalf("expected 4 args, got %d", len(stub.lastArgs))
	}
}

func TestArtworkRepositoryRoundTrip(t *testing.T) {
	stub := &stubExecutor{row: simpleRow{scan: func(dest ...any) error {
		*dest[0].(*string) = "art_abcd"
		return nil
	}}}
	r := NewArtworkRepository(stub)

	art := &domain.Artwork{
		ID:         "art_abcd",
		StyleID:    domain.StyleCartoon,
		PetName:    "Biscuit",
		PetType:    "dog",
		StorageKey: "artworks/art_abcd.png",
		URL:        "https://cdn.example.com/artworks/art_abcd.png",
	}
	if err := r.Create(context.Background(), art); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if stub.lastQuery != sqlinline.QCreateArtwork {
		t.Fatalf("unexpected query executed")
	}
	if len(stub.lastArgs) != 6 {
		t.Fatalf("expected 6 args, got %d", len(stub.lastArgs))
	}
}

func TestArtworkRepositoryGetByIDNotFound(t *testing.T) {
	stub := &stubExecutor{}
	r := NewArtworkRepository(stub)

	_, err := r.GetByID(context.Background(), "art_missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
