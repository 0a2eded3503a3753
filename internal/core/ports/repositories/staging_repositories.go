package repositories

import (
	"context"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
)

// PendingReader defines read operations for staged transactions
type PendingReader interface {
	// FindPendingByID retrieves one staged record. Returns apperrors.ErrNotFound when unknown.
	FindPendingByID(ctx context.Context, pendingID string) (*domain.PendingTransaction, error)

	// QueryPending lists records matching the filter, ordered by created_at then pending_id.
	// An empty filter returns pending records across all batches.
	QueryPending(ctx context.Context, filter domain.PendingFilter) ([]domain.PendingTransaction, error)

	// CountPending counts records matching the filter.
	CountPending(ctx context.Context, filter domain.PendingFilter) (int, error)

	// ListBatchSummaries lists batches that still have pending records, oldest first.
	ListBatchSummaries(ctx context.Context) ([]domain.BatchSummary, error)
}

// PendingWriter defines write operations for staged transactions
type PendingWriter interface {
	// SavePendingBatch persists newly staged records in one go.
	SavePendingBatch(ctx context.Context, records []domain.PendingTransaction) error

	// UpdatePending replaces the editable fields of a record that is still pending.
	// Returns apperrors.ErrInvalidState if the record is no longer pending.
	UpdatePending(ctx context.Context, record domain.PendingTransaction) error

	// TransitionPending moves a pending record into a terminal status.
	// Returns apperrors.ErrNotFound or apperrors.ErrInvalidState when the guard fails.
	TransitionPending(ctx context.Context, req domain.TransitionRequest) (*domain.PendingTransaction, error)
}

// PendingRepositoryFacade combines all staging repository interfaces
type PendingRepositoryFacade interface {
	PendingReader
	PendingWriter
}
