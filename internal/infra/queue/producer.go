package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

// ReviewPayload is the wire form of a payment waiting for manual
// reconciliation.
type ReviewPayload struct {
	Reason       string          `json:"reason"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentDate  time.Time       `json:"payment_date"`
	InvoiceNo    string          `json:"invoice_no,omitempty"`
}

type ReviewPublisherInterface interface {
	PublishReview(ctx context.Context, payload ReviewPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishReview(ctx context.Context, payload ReviewPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal review payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // survives a broker restart
		},
	)
	if err != nil {
		return fmt.Errorf("publish review entry: %w", err)
	}

	return nil
}
