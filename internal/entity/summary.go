package entity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type SourceRevenue struct {
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"average"`
}

// MonthlySummary is the per-period rollup record. One record exists per
// period key; revenue accumulates, ad spend is replaced wholesale on
// each refresh.
type MonthlySummary struct {
	ID              string                     `json:"id"`
	Period          string                     `json:"period"`
	TotalRevenue    decimal.Decimal            `json:"total_revenue"`
	CustomerCount   int                        `json:"customer_count"`
	AverageRevenue  decimal.Decimal            `json:"average_revenue"`
	RevenueBySource map[string]*SourceRevenue  `json:"revenue_by_source"`
	SpendByCategory map[string]decimal.Decimal `json:"spend_by_category"`
	TotalAdSpend    decimal.Decimal            `json:"total_ad_spend"`
	TotalPromoSpend decimal.Decimal            `json:"total_promo_spend"`
	NetRevenue      decimal.Decimal            `json:"net_revenue"`

	// ROI is (revenue - ad spend) / ad spend as a percentage. Nil means
	// not applicable (zero ad spend).
	ROI *decimal.Decimal `json:"roi,omitempty"`
}

// PeriodKey formats a timestamp as the "{year}-{zero-padded month}"
// summary key, e.g. "2026-04".
func PeriodKey(t time.Time) string {
	return fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
}

func NewMonthlySummary(period string) *MonthlySummary {
	return &MonthlySummary{
		Period:          period,
		RevenueBySource: make(map[string]*SourceRevenue),
		SpendByCategory: make(map[string]decimal.Decimal),
	}
}

// FoldPayment accumulates one payment into the summary and recomputes
// every derived figure.
func (s *MonthlySummary) FoldPayment(source string, amount decimal.Decimal) {
	s.TotalRevenue = s.TotalRevenue.Add(amount)
	s.CustomerCount++

	if s.RevenueBySource == nil {
		s.RevenueBySource = make(map[string]*SourceRevenue)
	}
	rev, ok := s.RevenueBySource[source]
	if !ok {
		rev = &SourceRevenue{}
		s.RevenueBySource[source] = rev
	}
	rev.Total = rev.Total.Add(amount)
	rev.Count++
	rev.Average = rev.Total.Div(decimal.NewFromInt(int64(rev.Count)))

	s.recalculate()
}

// ReplaceSpend swaps in the current refresh's category figures. Every
// category previously on record but absent from the refresh is zeroed
// so no stale spend survives.
func (s *MonthlySummary) ReplaceSpend(spendByCategory map[string]decimal.Decimal) {
	if s.SpendByCategory == nil {
		s.SpendByCategory = make(map[string]decimal.Decimal)
	}
	for category := range s.SpendByCategory {
		if _, ok := spendByCategory[category]; !ok {
			s.SpendByCategory[category] = decimal.Zero
		}
	}
	for category, amount := range spendByCategory {
		s.SpendByCategory[category] = amount
	}

	adSpend, promoSpend := decimal.Zero, decimal.Zero
	for category, amount := range s.SpendByCategory {
		if isPromoCategory(category) {
			promoSpend = promoSpend.Add(amount)
		} else {
			adSpend = adSpend.Add(amount)
		}
	}
	s.TotalAdSpend = adSpend
	s.TotalPromoSpend = promoSpend

	s.recalculate()
}

func (s *MonthlySummary) recalculate() {
	if s.CustomerCount > 0 {
		s.AverageRevenue = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.CustomerCount)))
	} else {
		s.AverageRevenue = decimal.Zero
	}

	s.NetRevenue = s.TotalRevenue.Sub(s.TotalAdSpend).Sub(s.TotalPromoSpend)

	if s.TotalAdSpend.IsZero() {
		s.ROI = nil
		return
	}
	roi := s.TotalRevenue.Sub(s.TotalAdSpend).
		Div(s.TotalAdSpend).
		Mul(decimal.NewFromInt(100))
	s.ROI = &roi
}

func isPromoCategory(category string) bool {
	return strings.Contains(strings.ToLower(category), "promo")
}

type SummaryRepositoryInterface interface {
	// FindByPeriod returns (nil, nil) when no summary exists yet.
	FindByPeriod(ctx context.Context, period string) (*MonthlySummary, error)

	// Upsert creates the record when ID is empty, updates it otherwise,
	// and fills in the assigned ID on create.
	Upsert(ctx context.Context, summary *MonthlySummary) error
}
