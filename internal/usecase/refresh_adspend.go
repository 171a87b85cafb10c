package usecase

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldline/lead-relay/internal/entity"
)

// refreshDay is the one day of the month the refresh runs on. The
// figures it pulls cover the previous calendar month, by which point
// the accounting platform has the month's expenses booked.
const refreshDay = 3

// RefreshAdSpendUseCase pulls categorized expense totals from the
// accounting platform and replaces the previous month's spend figures
// on its rollup record.
type RefreshAdSpendUseCase struct {
	Books  ExpenseLister
	Rollup RollupInterface

	// Now is injectable for the day-of-month gate.
	Now func() time.Time
}

func NewRefreshAdSpendUseCase(books ExpenseLister, rollup RollupInterface) *RefreshAdSpendUseCase {
	return &RefreshAdSpendUseCase{
		Books:  books,
		Rollup: rollup,
		Now:    time.Now,
	}
}

// Execute runs the refresh when today is the eligible day (or force is
// set). Outside the window it performs no reads or writes and reports
// the next eligible date.
func (uc *RefreshAdSpendUseCase) Execute(ctx context.Context, force bool) (*RefreshAdSpendOutput, error) {
	now := uc.Now()

	if !force && now.Day() != refreshDay {
		next := nextEligible(now)
		log.Printf("⏭️ Ad-spend refresh skipped, next eligible %s", next.Format("2006-01-02"))
		return &RefreshAdSpendOutput{Executed: false, NextEligible: &next}, nil
	}

	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	to := from.AddDate(0, 1, 0).Add(-time.Second)
	period := entity.PeriodKey(from)

	expenses, err := uc.Books.ListExpenses(ctx, from, to)
	if err != nil {
		return nil, err
	}

	spendByCategory := make(map[string]decimal.Decimal)
	for _, expense := range expenses {
		if expense.Category == "" || !expense.Amount.IsPositive() {
			continue
		}
		spendByCategory[expense.Category] = spendByCategory[expense.Category].Add(expense.Amount)
	}

	summary, err := uc.Rollup.ApplyAdSpend(ctx, period, spendByCategory)
	if err != nil {
		return nil, err
	}

	log.Printf("📊 Ad spend refreshed for %s: %d categories, total %s",
		period, len(spendByCategory), summary.TotalAdSpend.Add(summary.TotalPromoSpend))

	return &RefreshAdSpendOutput{Executed: true, Period: period, Summary: summary}, nil
}

func nextEligible(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), refreshDay, 0, 0, 0, 0, now.Location())
	if now.Day() >= refreshDay {
		next = next.AddDate(0, 1, 0)
	}
	return next
}
