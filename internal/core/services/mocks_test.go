package services_test

import (
	"context"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock PendingRepository ---
type MockPendingRepository struct {
	mock.Mock
}

func (m *MockPendingRepository) FindPendingByID(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	args := m.Called(ctx, pendingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingTransaction), args.Error(1)
}

func (m *MockPendingRepository) QueryPending(ctx context.Context, filter domain.PendingFilter) ([]domain.PendingTransaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingTransaction), args.Error(1)
}

func (m *MockPendingRepository) CountPending(ctx context.Context, filter domain.PendingFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockPendingRepository) ListBatchSummaries(ctx context.Context) ([]domain.BatchSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchSummary), args.Error(1)
}

func (m *MockPendingRepository) SavePendingBatch(ctx context.Context, records []domain.PendingTransaction) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockPendingRepository) UpdatePending(ctx context.Context, record domain.PendingTransaction) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPendingRepository) TransitionPending(ctx context.Context, req domain.TransitionRequest) (*domain.PendingTransaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingTransaction), args.Error(1)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindEntryBySource(ctx context.Context, sourcePendingID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, sourcePendingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, filter)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), next, args.Error(2)
}

func (m *MockLedgerRepository) ListHoldings(ctx context.Context) ([]domain.Holding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Holding), args.Error(1)
}

func (m *MockLedgerRepository) InsertApproved(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, bool, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Bool(1), args.Error(2)
}

func (m *MockLedgerRepository) RemoveBySource(ctx context.Context, sourcePendingID string) error {
	args := m.Called(ctx, sourcePendingID)
	return args.Error(0)
}
