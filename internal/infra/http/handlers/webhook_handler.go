package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldline/lead-relay/internal/entity"
	"github.com/fieldline/lead-relay/internal/infra/http/middleware"
	"github.com/fieldline/lead-relay/internal/usecase"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Relay-Signature"

type ProcessPaymentInterface interface {
	Execute(ctx context.Context, event entity.PaymentEvent) (*usecase.ProcessPaymentOutput, error)
}

type WebhookHandler struct {
	UC     ProcessPaymentInterface
	Secret string
}

func NewWebhookHandler(uc ProcessPaymentInterface, secret string) *WebhookHandler {
	return &WebhookHandler{UC: uc, Secret: secret}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "unreadable body"})
		return
	}

	if !h.verifySignature(body, r.Header.Get(SignatureHeader)) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "invalid_signature"})
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "bad json"})
		return
	}

	event, err := paymentEventFromPayload(payload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	out, err := h.UC.Execute(r.Context(), event)
	if err != nil {
		log.Printf("❌ Payment webhook failed: %v", err)
		middleware.RecordPayment("error")
		if usecase.IsUpstreamError(err) {
			middleware.RecordIntegrationError(upstreamService(err))
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "processing failed"})
		return
	}

	if out.Matched {
		middleware.RecordPayment("matched")
		middleware.RecordRollupUpdate()
	} else {
		middleware.RecordPayment("unmatched")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"matched": out.Matched,
		"lead_id": out.LeadID,
		"review":  out.Review,
	})
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.Secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.Secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	received, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, received)
}

var (
	payerPaths = []string{
		"customer_name", "customerName", "customer.name", "payer_name", "payer",
	}
	invoicePaths = []string{
		"invoice_no", "invoiceNumber", "doc_number", "invoice.number",
	}
	methodPaths = []string{
		"payment_method", "paymentMethod", "method",
	}
	datePaths = []string{
		"payment_date", "txn_date", "date",
	}
)

func paymentEventFromPayload(payload map[string]any) (entity.PaymentEvent, error) {
	event := entity.PaymentEvent{
		CustomerName: usecase.ProbeField(payload, payerPaths, nil),
		InvoiceNo:    usecase.ProbeField(payload, invoicePaths, nil),
		Method:       usecase.ProbeField(payload, methodPaths, nil),
		Date:         time.Now(),
	}

	amount, ok := extractAmount(payload)
	if !ok {
		return event, errAmountMissing
	}
	event.Amount = amount

	if raw := usecase.ProbeField(payload, datePaths, nil); raw != "" {
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, raw); err == nil {
				event.Date = t
				break
			}
		}
	}

	return event, nil
}

var errAmountMissing = jsonError("payment amount missing or invalid")

type jsonError string

func (e jsonError) Error() string { return string(e) }

func extractAmount(payload map[string]any) (decimal.Decimal, bool) {
	for _, path := range []string{"amount", "total", "total_amount"} {
		switch v := payload[path].(type) {
		case float64:
			return decimal.NewFromFloat(v), true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return decimal.NewFromFloat(f), true
			}
		}
	}
	if nested, ok := payload["payment"].(map[string]any); ok {
		return extractAmount(nested)
	}
	return decimal.Zero, false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func upstreamService(err error) string {
	if ue, ok := err.(*usecase.UpstreamError); ok {
		return ue.Service
	}
	return "unknown"
}
