package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/lead-relay/internal/entity"
)

func TestProbeField(t *testing.T) {
	placeholders := []string{"Manual", "CRM Workflows"}

	t.Run("first non-empty wins", func(t *testing.T) {
		payload := map[string]any{"name": "Fallback", "customer_name": "Jane Doe"}
		got := ProbeField(payload, []string{"customer_name", "name"}, placeholders)
		assert.Equal(t, "Jane Doe", got)
	})

	t.Run("skips placeholders", func(t *testing.T) {
		payload := map[string]any{"lead_source": "Manual", "utm_source": "google"}
		got := ProbeField(payload, []string{"lead_source", "utm_source"}, placeholders)
		assert.Equal(t, "google", got)
	})

	t.Run("placeholder check is case-insensitive", func(t *testing.T) {
		payload := map[string]any{"source": "crm workflows"}
		got := ProbeField(payload, []string{"source"}, placeholders)
		assert.Equal(t, "", got)
	})

	t.Run("dotted path reaches nested objects", func(t *testing.T) {
		payload := map[string]any{"contact": map[string]any{"name": "Jane Doe"}}
		got := ProbeField(payload, []string{"customer_name", "contact.name"}, placeholders)
		assert.Equal(t, "Jane Doe", got)
	})

	t.Run("non-string values ignored", func(t *testing.T) {
		payload := map[string]any{"name": 42.0, "full_name": "Jane Doe"}
		got := ProbeField(payload, []string{"name", "full_name"}, placeholders)
		assert.Equal(t, "Jane Doe", got)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		payload := map[string]any{"name": "  Jane Doe  "}
		assert.Equal(t, "Jane Doe", ProbeField(payload, []string{"name"}, placeholders))
	})
}

func TestIntakeLeadCreatesPendingLead(t *testing.T) {
	leads := new(MockLeadRepository)
	var created *entity.Lead
	leads.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*entity.Lead)
			created.ID = "rec42"
		}).
		Return(nil)

	uc := NewIntakeLeadUseCase(leads)
	lead, err := uc.Execute(context.Background(), map[string]any{
		"customerName": "Acme Plumbing",
		"utm_source":   "google",
	})

	require.NoError(t, err)
	assert.Equal(t, "rec42", lead.ID)
	assert.Equal(t, "Acme Plumbing", created.Name)
	assert.Equal(t, "google", created.Source)
	assert.Equal(t, entity.PaymentPending, created.Status)
	assert.True(t, created.PaymentAmount.IsZero())
}

func TestIntakeLeadDefaultsUnknownSource(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := NewIntakeLeadUseCase(leads)
	lead, err := uc.Execute(context.Background(), map[string]any{
		"name":        "Jane Doe",
		"lead_source": "Manual", // placeholder, treated as absent
	})

	require.NoError(t, err)
	assert.Equal(t, "Unknown", lead.Source)
}

func TestIntakeLeadRejectsNamelessPayload(t *testing.T) {
	leads := new(MockLeadRepository)

	uc := NewIntakeLeadUseCase(leads)
	_, err := uc.Execute(context.Background(), map[string]any{"email": "x@y.com"})

	assert.Error(t, err)
	leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
