package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/lead-relay/internal/entity"
)

type fakeReviewStore struct {
	saved []*entity.ReviewEntry
	err   error
}

func (f *fakeReviewStore) Save(ctx context.Context, entry *entity.ReviewEntry) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, entry)
	return nil
}

func (f *fakeReviewStore) ListOpen(ctx context.Context, limit int) ([]*entity.ReviewEntry, error) {
	return f.saved, nil
}

func (f *fakeReviewStore) Resolve(ctx context.Context, id string) error {
	return nil
}

type fakeMailer struct {
	sent []*entity.ReviewEntry
	err  error
}

func (f *fakeMailer) SendReviewAlert(entry *entity.ReviewEntry) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, entry)
	return nil
}

func reviewPayload() ReviewPayload {
	return ReviewPayload{
		Reason:       entity.ReviewReasonNoMatch,
		CustomerName: "Zzqxv Unrelated",
		Amount:       decimal.RequireFromString("99.50"),
		PaymentDate:  time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC),
		InvoiceNo:    "INV-1042",
	}
}

func TestWorkerPersistsReviewEntry(t *testing.T) {
	store := &fakeReviewStore{}
	mailer := &fakeMailer{}
	w := NewWorker(nil, store, mailer)

	err := w.processMessage(context.Background(), reviewPayload())

	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	entry := store.saved[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, entity.ReviewReasonNoMatch, entry.Reason)
	assert.Equal(t, "Zzqxv Unrelated", entry.CustomerName)
	assert.True(t, entry.Amount.Equal(decimal.RequireFromString("99.50")))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, entry.ID, mailer.sent[0].ID)
}

func TestWorkerToleratesMailFailure(t *testing.T) {
	store := &fakeReviewStore{}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	w := NewWorker(nil, store, mailer)

	err := w.processMessage(context.Background(), reviewPayload())

	// The entry is durable; a failed alert must not nack the message.
	assert.NoError(t, err)
	assert.Len(t, store.saved, 1)
}

func TestWorkerFailsWhenStoreFails(t *testing.T) {
	store := &fakeReviewStore{err: errors.New("db down")}
	w := NewWorker(nil, store, nil)

	err := w.processMessage(context.Background(), reviewPayload())

	assert.Error(t, err)
}

func TestWorkerWithoutMailer(t *testing.T) {
	store := &fakeReviewStore{}
	w := NewWorker(nil, store, nil)

	assert.NoError(t, w.processMessage(context.Background(), reviewPayload()))
}
