package recordstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldline/lead-relay/internal/entity"
)

const tableLeads = "Leads"

type LeadRepository struct {
	Client *Client
}

func NewLeadRepository(client *Client) *LeadRepository {
	return &LeadRepository{Client: client}
}

func (r *LeadRepository) FindByName(ctx context.Context, name string) ([]*entity.Lead, error) {
	filter := fmt.Sprintf("LOWER(TRIM({Name})) = '%s'", escapeFormula(strings.ToLower(strings.TrimSpace(name))))

	records, err := r.Client.List(ctx, tableLeads, ListOptions{Filter: filter})
	if err != nil {
		return nil, err
	}

	leads := make([]*entity.Lead, 0, len(records))
	for i := range records {
		leads = append(leads, leadFromRecord(&records[i]))
	}
	return leads, nil
}

func (r *LeadRepository) List(ctx context.Context, limit int) ([]*entity.Lead, error) {
	records, err := r.Client.List(ctx, tableLeads, ListOptions{MaxRecords: limit})
	if err != nil {
		return nil, err
	}

	leads := make([]*entity.Lead, 0, len(records))
	for i := range records {
		leads = append(leads, leadFromRecord(&records[i]))
	}
	return leads, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	fields := map[string]any{
		"Name":           lead.Name,
		"Lead Source":    lead.Source,
		"Payment Status": string(lead.Status),
		"Payment Amount": lead.PaymentAmount.InexactFloat64(),
	}

	record, err := r.Client.Create(ctx, tableLeads, fields)
	if err != nil {
		return err
	}

	lead.ID = record.ID
	lead.CreatedAt = record.CreatedTime
	return nil
}

func (r *LeadRepository) MarkPaid(ctx context.Context, id string, amount decimal.Decimal, invoiceRef string, paidAt time.Time) (*entity.Lead, error) {
	fields := map[string]any{
		"Payment Status": string(entity.PaymentPaid),
		"Payment Amount": amount.InexactFloat64(),
		"Paid At":        paidAt.Format("2006-01-02"),
	}
	if invoiceRef != "" {
		fields["Invoice"] = invoiceRef
	}

	record, err := r.Client.Update(ctx, tableLeads, id, fields)
	if err != nil {
		return nil, err
	}
	return leadFromRecord(record), nil
}

func leadFromRecord(record *Record) *entity.Lead {
	lead := &entity.Lead{
		ID:            record.ID,
		Name:          record.stringField("Name"),
		Source:        record.stringField("Lead Source"),
		Status:        entity.PaymentStatus(record.stringField("Payment Status")),
		PaymentAmount: record.decimalField("Payment Amount"),
		InvoiceRef:    record.stringField("Invoice"),
		CreatedAt:     record.CreatedTime,
	}
	if lead.Status == "" {
		lead.Status = entity.PaymentPending
	}
	if paidAt := record.timeField("Paid At"); !paidAt.IsZero() {
		lead.PaidAt = &paidAt
	}
	return lead
}

// escapeFormula keeps user-supplied names from breaking out of the
// quoted literal in a filter formula.
func escapeFormula(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

var _ entity.LeadRepositoryInterface = (*LeadRepository)(nil)
