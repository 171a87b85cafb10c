package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentEvent is the transient payload extracted from an accounting
// webhook. It is never persisted; the only link back to a lead is the
// free-text customer name.
type PaymentEvent struct {
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	InvoiceNo    string          `json:"invoice_no,omitempty"`
	Method       string          `json:"method,omitempty"`
}

// Expense is one categorized expense line fetched from the accounting
// platform during an ad-spend refresh.
type Expense struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}
