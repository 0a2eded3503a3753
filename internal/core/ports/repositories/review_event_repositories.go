package repositories

import (
	"context"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
)

// ReviewEventReader reads the review audit trail
type ReviewEventReader interface {
	ListEventsByPending(ctx context.Context, pendingID string) ([]domain.ReviewEvent, error)
}

// ReviewEventWriter appends to the review audit trail
type ReviewEventWriter interface {
	AppendEvent(ctx context.Context, event domain.ReviewEvent) error
}

// ReviewEventRepositoryFacade combines all audit trail interfaces
type ReviewEventRepositoryFacade interface {
	ReviewEventReader
	ReviewEventWriter
}
