package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

type Lead struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Source        string          `json:"source"`
	Status        PaymentStatus   `json:"status"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	InvoiceRef    string          `json:"invoice_ref,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (l *Lead) IsPaid() bool {
	return l.Status == PaymentPaid
}

type LeadRepositoryInterface interface {
	// FindByName runs an exact case-insensitive equality query on the
	// store's name field. Hits come back in the store's native order.
	FindByName(ctx context.Context, name string) ([]*Lead, error)

	// List returns up to limit leads for fuzzy candidate scoring.
	List(ctx context.Context, limit int) ([]*Lead, error)

	Create(ctx context.Context, lead *Lead) error

	// MarkPaid sets the payment fields exactly once. Payment amount is
	// assigned, not accumulated.
	MarkPaid(ctx context.Context, id string, amount decimal.Decimal, invoiceRef string, paidAt time.Time) (*Lead, error)
}
