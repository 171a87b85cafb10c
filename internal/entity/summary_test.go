package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "2026-04", PeriodKey(time.Date(2026, 4, 17, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-12", PeriodKey(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFoldPayment(t *testing.T) {
	s := NewMonthlySummary("2026-04")

	s.FoldPayment("X", d("100"))
	s.FoldPayment("X", d("50"))
	s.FoldPayment("Y", d("30"))

	assert.True(t, s.TotalRevenue.Equal(d("180")), "total revenue = %s", s.TotalRevenue)
	assert.Equal(t, 3, s.CustomerCount)
	assert.True(t, s.AverageRevenue.Equal(d("60")))

	require.Contains(t, s.RevenueBySource, "X")
	x := s.RevenueBySource["X"]
	assert.True(t, x.Total.Equal(d("150")))
	assert.Equal(t, 2, x.Count)
	assert.True(t, x.Average.Equal(d("75")))

	require.Contains(t, s.RevenueBySource, "Y")
	y := s.RevenueBySource["Y"]
	assert.True(t, y.Total.Equal(d("30")))
	assert.Equal(t, 1, y.Count)
	assert.True(t, y.Average.Equal(d("30")))
}

func TestFoldPaymentROINotApplicableWithoutSpend(t *testing.T) {
	s := NewMonthlySummary("2026-04")

	s.FoldPayment("X", d("100"))

	assert.Nil(t, s.ROI, "zero ad spend must report ROI as not applicable")
	assert.True(t, s.NetRevenue.Equal(d("100")))
}

func TestReplaceSpend(t *testing.T) {
	t.Run("derives totals and ROI", func(t *testing.T) {
		s := NewMonthlySummary("2026-04")
		s.FoldPayment("X", d("300"))

		s.ReplaceSpend(map[string]decimal.Decimal{
			"Google Ads":  d("100"),
			"Promo Items": d("50"),
		})

		assert.True(t, s.TotalAdSpend.Equal(d("100")))
		assert.True(t, s.TotalPromoSpend.Equal(d("50")))
		assert.True(t, s.NetRevenue.Equal(d("150")))
		require.NotNil(t, s.ROI)
		assert.True(t, s.ROI.Equal(d("200")), "ROI = %s", s.ROI)
	})

	t.Run("zeroes stale categories", func(t *testing.T) {
		s := NewMonthlySummary("2026-04")
		s.ReplaceSpend(map[string]decimal.Decimal{"Google Ads": d("100")})
		s.ReplaceSpend(map[string]decimal.Decimal{})

		assert.True(t, s.SpendByCategory["Google Ads"].IsZero(),
			"category absent from the refresh must be zeroed, got %s", s.SpendByCategory["Google Ads"])
		assert.True(t, s.TotalAdSpend.IsZero())
		assert.Nil(t, s.ROI)
	})

	t.Run("replaces rather than accumulates", func(t *testing.T) {
		s := NewMonthlySummary("2026-04")
		s.ReplaceSpend(map[string]decimal.Decimal{"Google Ads": d("100")})
		s.ReplaceSpend(map[string]decimal.Decimal{"Google Ads": d("100")})

		assert.True(t, s.TotalAdSpend.Equal(d("100")), "second identical refresh must not double")
	})
}
