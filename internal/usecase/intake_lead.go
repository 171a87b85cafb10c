package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldline/lead-relay/internal/entity"
)

// DefaultPlaceholders are source values the marketing platform fills in
// when no real attribution exists; they are treated as absent.
var DefaultPlaceholders = []string{"Manual", "CRM Workflows"}

var (
	namePaths = []string{
		"customer_name", "customerName", "full_name", "name",
		"contact.name", "contact.full_name",
	}
	sourcePaths = []string{
		"lead_source", "leadSource", "source", "utm_source", "channel",
		"attribution.source",
	}
)

const unknownSource = "Unknown"

// IntakeLeadUseCase creates a lead record from a loosely-typed intake
// webhook payload.
type IntakeLeadUseCase struct {
	Leads        entity.LeadRepositoryInterface
	Placeholders []string
	Now          func() time.Time
}

func NewIntakeLeadUseCase(leads entity.LeadRepositoryInterface) *IntakeLeadUseCase {
	return &IntakeLeadUseCase{
		Leads:        leads,
		Placeholders: DefaultPlaceholders,
		Now:          time.Now,
	}
}

func (uc *IntakeLeadUseCase) Execute(ctx context.Context, payload map[string]any) (*entity.Lead, error) {
	name := ProbeField(payload, namePaths, uc.Placeholders)
	if name == "" {
		return nil, fmt.Errorf("no usable customer name in intake payload")
	}

	source := ProbeField(payload, sourcePaths, uc.Placeholders)
	if source == "" {
		source = unknownSource
	}

	lead := &entity.Lead{
		Name:          name,
		Source:        source,
		Status:        entity.PaymentPending,
		PaymentAmount: decimal.Zero,
		CreatedAt:     uc.Now(),
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, err
	}

	log.Printf("📥 Lead created: %s (%s) source=%s", lead.ID, lead.Name, lead.Source)
	return lead, nil
}
