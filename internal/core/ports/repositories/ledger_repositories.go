package repositories

import (
	"context"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
)

// LedgerReader defines read operations for the permanent ledger
type LedgerReader interface {
	// FindEntryBySource returns the entry created from a pending record, or apperrors.ErrNotFound.
	FindEntryBySource(ctx context.Context, sourcePendingID string) (*domain.LedgerEntry, error)

	// ListEntries pages through entries ordered by creation time. The returned token is nil on the last page.
	ListEntries(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error)

	// ListHoldings lists current positions.
	ListHoldings(ctx context.Context) ([]domain.Holding, error)
}

// LedgerWriter defines write operations for the permanent ledger
type LedgerWriter interface {
	// InsertApproved inserts the entry unless one already exists for the same SourcePendingID,
	// in which case the existing entry is returned with created=false.
	InsertApproved(ctx context.Context, entry domain.LedgerEntry) (stored *domain.LedgerEntry, created bool, err error)

	// RemoveBySource deletes the entry for a pending record. Used only to compensate a lost approval race.
	RemoveBySource(ctx context.Context, sourcePendingID string) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
