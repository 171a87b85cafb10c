package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReviewReasonNoMatch     = "no_match"
	ReviewReasonAlreadyPaid = "already_paid"
)

// ReviewEntry is a durable record of a payment that could not be
// applied automatically and needs manual reconciliation. It replaces
// the old log-line-only trail.
type ReviewEntry struct {
	ID           string          `json:"id"`
	Reason       string          `json:"reason"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentDate  time.Time       `json:"payment_date"`
	InvoiceNo    string          `json:"invoice_no,omitempty"`
	Resolved     bool            `json:"resolved"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ReviewRepositoryInterface interface {
	Save(ctx context.Context, entry *ReviewEntry) error
	ListOpen(ctx context.Context, limit int) ([]*ReviewEntry, error)
	Resolve(ctx context.Context, id string) error
}
