package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/fieldline/lead-relay/internal/entity"
	"github.com/fieldline/lead-relay/internal/infra/queue"
	"github.com/fieldline/lead-relay/internal/match"
)

// ProcessPaymentUseCase reconciles an inbound payment event against the
// stored leads: resolve the lead by customer name, mark it paid, then
// fold the amount into the payment month's rollup. Unmatched payments
// are routed to the review queue and never mutate a lead.
type ProcessPaymentUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Rollup    RollupInterface
	Reviews   queue.ReviewPublisherInterface
	Threshold float64
}

func NewProcessPaymentUseCase(
	leads entity.LeadRepositoryInterface,
	rollup RollupInterface,
	reviews queue.ReviewPublisherInterface,
	threshold float64,
) *ProcessPaymentUseCase {
	if threshold <= 0 {
		threshold = match.DefaultThreshold
	}
	return &ProcessPaymentUseCase{
		Leads:     leads,
		Rollup:    rollup,
		Reviews:   reviews,
		Threshold: threshold,
	}
}

func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, event entity.PaymentEvent) (*ProcessPaymentOutput, error) {
	lead, err := match.FindMatch(ctx, event.CustomerName, uc.Leads, uc.Threshold)
	if errors.Is(err, match.ErrNoMatch) {
		log.Printf("🔍 No lead matched payment: name=%q amount=%s date=%s invoice=%q",
			event.CustomerName, event.Amount, event.Date.Format("2006-01-02"), event.InvoiceNo)
		return uc.sendToReview(ctx, event, entity.ReviewReasonNoMatch)
	}
	if err != nil {
		return nil, err
	}

	// Single-payment model: a second payment for a paid lead goes to
	// review instead of overwriting the original figures.
	if lead.IsPaid() {
		log.Printf("⚠️ Lead %s already paid, routing payment %q to review", lead.ID, event.InvoiceNo)
		return uc.sendToReview(ctx, event, entity.ReviewReasonAlreadyPaid)
	}

	updated, err := uc.Leads.MarkPaid(ctx, lead.ID, event.Amount, event.InvoiceNo, event.Date)
	if err != nil {
		return nil, err
	}

	summary, err := uc.Rollup.ApplyPayment(ctx, entity.PeriodKey(event.Date), updated.Source, event.Amount)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Payment of %s applied to lead %s (%s), period %s", event.Amount, updated.ID, updated.Name, summary.Period)

	return &ProcessPaymentOutput{
		Matched: true,
		LeadID:  updated.ID,
		Period:  summary.Period,
	}, nil
}

func (uc *ProcessPaymentUseCase) sendToReview(ctx context.Context, event entity.PaymentEvent, reason string) (*ProcessPaymentOutput, error) {
	payload := queue.ReviewPayload{
		Reason:       reason,
		CustomerName: event.CustomerName,
		Amount:       event.Amount,
		PaymentDate:  event.Date,
		InvoiceNo:    event.InvoiceNo,
	}
	if err := uc.Reviews.PublishReview(ctx, payload); err != nil {
		return nil, err
	}
	return &ProcessPaymentOutput{Matched: false, Review: reason}, nil
}
