package usecase

import (
	"time"

	"github.com/fieldline/lead-relay/internal/entity"
)

type ProcessPaymentOutput struct {
	Matched bool   `json:"matched"`
	LeadID  string `json:"lead_id,omitempty"`
	Period  string `json:"period,omitempty"`

	// Review carries the reason when the payment was queued for manual
	// reconciliation instead of being applied.
	Review string `json:"review,omitempty"`
}

type RefreshAdSpendOutput struct {
	Executed     bool                   `json:"executed"`
	Period       string                 `json:"period,omitempty"`
	NextEligible *time.Time             `json:"next_eligible,omitempty"`
	Summary      *entity.MonthlySummary `json:"summary,omitempty"`
}
