package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/fieldline/lead-relay/internal/entity"
)

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string

	From string
	To   string
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

// SendReviewAlert mails the operations inbox about a payment waiting
// for manual reconciliation.
func (s *EmailSender) SendReviewAlert(entry *entity.ReviewEntry) error {
	body := fmt.Sprintf(
		"A payment needs manual reconciliation.\n\n"+
			"Reason: %s\nCustomer: %s\nAmount: %s\nPayment date: %s\nInvoice: %s\nEntry id: %s\n",
		entry.Reason,
		entry.CustomerName,
		entry.Amount.StringFixed(2),
		entry.PaymentDate.Format("2006-01-02"),
		entry.InvoiceNo,
		entry.ID,
	)

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("⚠️ Unreconciled payment: %s (%s)", entry.CustomerName, entry.Amount.StringFixed(2)))
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send review alert: %w", err)
	}

	return nil
}
