package recordstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fieldline/lead-relay/internal/entity"
	"github.com/fieldline/lead-relay/internal/usecase"
)

const tableSummaries = "Monthly Summaries"

// SummaryRepository stores one row per period. The per-source revenue
// and per-category spend maps are kept as JSON text fields because the
// store has no nested column type.
type SummaryRepository struct {
	Client *Client
}

func NewSummaryRepository(client *Client) *SummaryRepository {
	return &SummaryRepository{Client: client}
}

func (r *SummaryRepository) FindByPeriod(ctx context.Context, period string) (*entity.MonthlySummary, error) {
	filter := fmt.Sprintf("{Period} = '%s'", escapeFormula(period))

	records, err := r.Client.List(ctx, tableSummaries, ListOptions{Filter: filter, MaxRecords: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return summaryFromRecord(&records[0])
}

func (r *SummaryRepository) Upsert(ctx context.Context, summary *entity.MonthlySummary) error {
	bySource, err := json.Marshal(summary.RevenueBySource)
	if err != nil {
		return fmt.Errorf("marshal source breakdown: %w", err)
	}
	byCategory, err := json.Marshal(summary.SpendByCategory)
	if err != nil {
		return fmt.Errorf("marshal spend breakdown: %w", err)
	}

	fields := map[string]any{
		"Period":           summary.Period,
		"Total Revenue":    summary.TotalRevenue.InexactFloat64(),
		"Customer Count":   summary.CustomerCount,
		"Average Revenue":  summary.AverageRevenue.InexactFloat64(),
		"Ad Spend":         summary.TotalAdSpend.InexactFloat64(),
		"Promo Spend":      summary.TotalPromoSpend.InexactFloat64(),
		"Net Revenue":      summary.NetRevenue.InexactFloat64(),
		"Source Breakdown": string(bySource),
		"Spend Breakdown":  string(byCategory),
	}
	if summary.ROI != nil {
		fields["ROI"] = summary.ROI.InexactFloat64()
	} else {
		fields["ROI"] = nil
	}

	if summary.ID == "" {
		record, err := r.Client.Create(ctx, tableSummaries, fields)
		if err != nil {
			return err
		}
		summary.ID = record.ID
		return nil
	}

	_, err = r.Client.Update(ctx, tableSummaries, summary.ID, fields)
	return err
}

func summaryFromRecord(record *Record) (*entity.MonthlySummary, error) {
	summary := entity.NewMonthlySummary(record.stringField("Period"))
	summary.ID = record.ID
	summary.TotalRevenue = record.decimalField("Total Revenue")
	summary.CustomerCount = record.intField("Customer Count")
	summary.AverageRevenue = record.decimalField("Average Revenue")
	summary.TotalAdSpend = record.decimalField("Ad Spend")
	summary.TotalPromoSpend = record.decimalField("Promo Spend")
	summary.NetRevenue = record.decimalField("Net Revenue")

	if raw, ok := record.Fields["ROI"].(float64); ok {
		roi := decimal.NewFromFloat(raw)
		summary.ROI = &roi
	}

	if raw := record.stringField("Source Breakdown"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &summary.RevenueBySource); err != nil {
			return nil, usecase.NewUpstreamError(serviceName, "corrupt source breakdown on "+record.ID, err)
		}
	}
	if raw := record.stringField("Spend Breakdown"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &summary.SpendByCategory); err != nil {
			return nil, usecase.NewUpstreamError(serviceName, "corrupt spend breakdown on "+record.ID, err)
		}
	}

	return summary, nil
}

var _ entity.SummaryRepositoryInterface = (*SummaryRepository)(nil)
