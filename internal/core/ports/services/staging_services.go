package services

import (
	"context"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/SscSPs/statement_review_app/internal/dto"
)

// StagingReaderSvc defines read operations on staged transactions
type StagingReaderSvc interface {
	// GetPending retrieves one staged record.
	GetPending(ctx context.Context, pendingID string) (*domain.PendingTransaction, error)

	// QueryPending lists staged records in created_at order. An empty filter lists pending records of every batch.
	QueryPending(ctx context.Context, filter domain.PendingFilter) ([]domain.PendingTransaction, error)

	// CountPending counts staged records matching the filter.
	CountPending(ctx context.Context, filter domain.PendingFilter) (int, error)

	// ListOutstandingBatches lists batches with pending records.
	ListOutstandingBatches(ctx context.Context) ([]domain.BatchSummary, error)

	// ListReviewEvents returns the audit trail of one record.
	ListReviewEvents(ctx context.Context, pendingID string) ([]domain.ReviewEvent, error)
}

// StagingWriterSvc defines write operations on staged transactions
type StagingWriterSvc interface {
	// StageUpload turns extraction output into pending records grouped by batch.
	StageUpload(ctx context.Context, req dto.UploadRequest, userID string) (*dto.UploadResponse, error)

	// UpdatePending validates and persists reviewer edits on a pending record.
	UpdatePending(ctx context.Context, pendingID string, req dto.UpdatePendingRequest, userID string) (*domain.PendingTransaction, error)

	// TransitionPending moves a pending record into a terminal status.
	TransitionPending(ctx context.Context, req domain.TransitionRequest) (*domain.PendingTransaction, error)
}

// StagingSvcFacade combines all staging service interfaces
type StagingSvcFacade interface {
	StagingReaderSvc
	StagingWriterSvc
}
