package review

import (
	"context"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/dto"
)

// Backend is what a review session needs from the staging store and approval engine.
// The acting reviewer is bound to the backend, not passed per call.
type Backend interface {
	Upload(ctx context.Context, req dto.UploadRequest) (*dto.UploadResponse, error)
	Query(ctx context.Context, filter domain.PendingFilter) ([]domain.PendingTransaction, error)
	Count(ctx context.Context, filter domain.PendingFilter) (int, error)
	Update(ctx context.Context, pendingID string, req dto.UpdatePendingRequest) (*domain.PendingTransaction, error)
	Approve(ctx context.Context, pendingID string) (*domain.PendingTransaction, error)
	Reject(ctx context.Context, pendingID string) (*domain.PendingTransaction, error)
	ApproveAll(ctx context.Context, batchID string) (*domain.BatchResult, error)
	RejectAll(ctx context.Context, batchID string) (*domain.BatchResult, error)
}

// LocalBackend runs a session against in-process services.
type LocalBackend struct {
	staging  portssvc.StagingSvcFacade
	approval portssvc.ApprovalSvcFacade
	userID   string
}

// NewLocalBackend binds the services to one reviewer.
func NewLocalBackend(staging portssvc.StagingSvcFacade, approval portssvc.ApprovalSvcFacade, userID string) *LocalBackend {
	return &LocalBackend{staging: staging, approval: approval, userID: userID}
}

var _ Backend = (*LocalBackend)(nil)

func (b *LocalBackend) Upload(ctx context.Context, req dto.UploadRequest) (*dto.UploadResponse, error) {
	return b.staging.StageUpload(ctx, req, b.userID)
}

func (b *LocalBackend) Query(ctx context.Context, filter domain.PendingFilter) ([]domain.PendingTransaction, error) {
	return b.staging.QueryPending(ctx, filter)
}

func (b *LocalBackend) Count(ctx context.Context, filter domain.PendingFilter) (int, error) {
	return b.staging.CountPending(ctx, filter)
}

func (b *LocalBackend) Update(ctx context.Context, pendingID string, req dto.UpdatePendingRequest) (*domain.PendingTransaction, error) {
	return b.approval.Edit(ctx, pendingID, req, b.userID)
}

func (b *LocalBackend) Approve(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	return b.approval.Approve(ctx, pendingID, b.userID)
}

func (b *LocalBackend) Reject(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	return b.approval.Reject(ctx, pendingID, b.userID)
}

func (b *LocalBackend) ApproveAll(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	return b.approval.ApproveAll(ctx, batchID, b.userID)
}

func (b *LocalBackend) RejectAll(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	return b.approval.RejectAll(ctx, batchID, b.userID)
}
