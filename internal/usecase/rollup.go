package usecase

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fieldline/lead-relay/internal/entity"
)

// RollupUseCase folds payments and ad-spend refreshes into the
// per-period summary records. The store has no transactions, so every
// read-modify-write for a period runs under that period's lock —
// concurrent payments for the same month cannot lose updates.
type RollupUseCase struct {
	Summaries entity.SummaryRepositoryInterface

	mu      sync.Mutex
	periods map[string]*sync.Mutex
}

func NewRollupUseCase(summaries entity.SummaryRepositoryInterface) *RollupUseCase {
	return &RollupUseCase{
		Summaries: summaries,
		periods:   make(map[string]*sync.Mutex),
	}
}

func (uc *RollupUseCase) periodLock(period string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	lock, ok := uc.periods[period]
	if !ok {
		lock = &sync.Mutex{}
		uc.periods[period] = lock
	}
	return lock
}

// ApplyPayment accumulates one payment into the period's summary,
// creating it lazily on the first event.
func (uc *RollupUseCase) ApplyPayment(ctx context.Context, period, leadSource string, amount decimal.Decimal) (*entity.MonthlySummary, error) {
	lock := uc.periodLock(period)
	lock.Lock()
	defer lock.Unlock()

	summary, err := uc.Summaries.FindByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = entity.NewMonthlySummary(period)
	}

	summary.FoldPayment(leadSource, amount)

	if err := uc.Summaries.Upsert(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// ApplyAdSpend replaces the period's spend figures wholesale. Calling
// it twice with the same input is a no-op the second time, and
// categories missing from the refresh are zeroed rather than left
// stale.
func (uc *RollupUseCase) ApplyAdSpend(ctx context.Context, period string, spendByCategory map[string]decimal.Decimal) (*entity.MonthlySummary, error) {
	lock := uc.periodLock(period)
	lock.Lock()
	defer lock.Unlock()

	summary, err := uc.Summaries.FindByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = entity.NewMonthlySummary(period)
	}

	summary.ReplaceSpend(spendByCategory)

	if err := uc.Summaries.Upsert(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}
