package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldline/lead-relay/internal/entity"
)

type RollupInterface interface {
	ApplyPayment(ctx context.Context, period, leadSource string, amount decimal.Decimal) (*entity.MonthlySummary, error)
	ApplyAdSpend(ctx context.Context, period string, spendByCategory map[string]decimal.Decimal) (*entity.MonthlySummary, error)
}

// ExpenseLister is the slice of the accounting client the refresh needs.
type ExpenseLister interface {
	ListExpenses(ctx context.Context, from, to time.Time) ([]entity.Expense, error)
}
