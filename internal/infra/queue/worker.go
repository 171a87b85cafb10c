package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/fieldline/lead-relay/internal/entity"
)

// AlertMailer notifies the operations inbox about a queued review entry.
type AlertMailer interface {
	SendReviewAlert(entry *entity.ReviewEntry) error
}

// Worker drains the review queue into the durable Postgres outbox so
// unmatched payments survive even when logs are not retained.
type Worker struct {
	Channel *amqp.Channel
	Reviews entity.ReviewRepositoryInterface
	Mailer  AlertMailer
}

func NewWorker(ch *amqp.Channel, reviews entity.ReviewRepositoryInterface, mailer AlertMailer) *Worker {
	return &Worker{
		Channel: ch,
		Reviews: reviews,
		Mailer:  mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] Failed to register consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload ReviewPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] Malformed review payload: %s", err)
				// Poison message. Reject without requeue so it dead-letters.
				d.Nack(false, false)
				continue
			}

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Failed to persist review entry: %s", err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Review worker waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload ReviewPayload) error {
	entry := &entity.ReviewEntry{
		ID:           uuid.NewString(),
		Reason:       payload.Reason,
		CustomerName: payload.CustomerName,
		Amount:       payload.Amount,
		PaymentDate:  payload.PaymentDate,
		InvoiceNo:    payload.InvoiceNo,
		CreatedAt:    time.Now(),
	}

	if err := w.Reviews.Save(ctx, entry); err != nil {
		return err
	}

	log.Printf("📋 [WORKER] Review entry saved: %s (%s, %s)", entry.ID, entry.CustomerName, entry.Reason)

	if w.Mailer != nil {
		if err := w.Mailer.SendReviewAlert(entry); err != nil {
			// The entry is already durable; a failed alert is only logged.
			log.Printf("⚠️ [WORKER] Review alert mail failed: %s", err)
		}
	}

	return nil
}
