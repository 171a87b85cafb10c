package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fieldline/lead-relay/internal/entity"
	"github.com/fieldline/lead-relay/internal/infra/queue"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByName(ctx context.Context, name string) ([]*entity.Lead, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) MarkPaid(ctx context.Context, id string, amount decimal.Decimal, invoiceRef string, paidAt time.Time) (*entity.Lead, error) {
	args := m.Called(ctx, id, amount, invoiceRef, paidAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) FindByPeriod(ctx context.Context, period string) (*entity.MonthlySummary, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MonthlySummary), args.Error(1)
}

func (m *MockSummaryRepository) Upsert(ctx context.Context, summary *entity.MonthlySummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

type MockRollup struct {
	mock.Mock
}

func (m *MockRollup) ApplyPayment(ctx context.Context, period, leadSource string, amount decimal.Decimal) (*entity.MonthlySummary, error) {
	args := m.Called(ctx, period, leadSource, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MonthlySummary), args.Error(1)
}

func (m *MockRollup) ApplyAdSpend(ctx context.Context, period string, spendByCategory map[string]decimal.Decimal) (*entity.MonthlySummary, error) {
	args := m.Called(ctx, period, spendByCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MonthlySummary), args.Error(1)
}

type MockReviewPublisher struct {
	mock.Mock
}

func (m *MockReviewPublisher) PublishReview(ctx context.Context, payload queue.ReviewPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockExpenseLister struct {
	mock.Mock
}

func (m *MockExpenseLister) ListExpenses(ctx context.Context, from, to time.Time) ([]entity.Expense, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Expense), args.Error(1)
}
