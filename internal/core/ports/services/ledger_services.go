package services

import (
	"context"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
)

// LedgerReaderSvc exposes read access to the permanent ledger
type LedgerReaderSvc interface {
	ListEntries(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error)
	ListHoldings(ctx context.Context) ([]domain.Holding, error)
}
