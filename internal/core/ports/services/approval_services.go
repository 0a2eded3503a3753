package services

import (
	"context"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/SscSPs/statement_review_app/internal/dto"
)

// ApprovalItemSvc defines single-record dispositions
type ApprovalItemSvc interface {
	// Approve inserts the record into the ledger, then marks it approved.
	Approve(ctx context.Context, pendingID string, userID string) (*domain.PendingTransaction, error)

	// Reject marks the record rejected without touching the ledger.
	Reject(ctx context.Context, pendingID string, userID string) (*domain.PendingTransaction, error)

	// Edit revalidates and persists field values of a pending record.
	Edit(ctx context.Context, pendingID string, req dto.UpdatePendingRequest, userID string) (*domain.PendingTransaction, error)
}

// ApprovalBatchSvc defines best-effort batch dispositions
type ApprovalBatchSvc interface {
	// ApproveAll approves every pending record of the batch and reports per-item outcomes.
	ApproveAll(ctx context.Context, batchID string, userID string) (*domain.BatchResult, error)

	// RejectAll rejects every pending record of the batch and reports per-item outcomes.
	RejectAll(ctx context.Context, batchID string, userID string) (*domain.BatchResult, error)
}

// ApprovalSvcFacade combines all approval service interfaces
type ApprovalSvcFacade interface {
	ApprovalItemSvc
	ApprovalBatchSvc
}

// BatchDispositionQueue hands batch dispositions to a background worker.
type BatchDispositionQueue interface {
	EnqueueBatchDisposition(ctx context.Context, action domain.BatchAction, batchID string, userID string) (*dto.BatchEnqueuedResponse, error)
}
