package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
)

const (
	defaultLedgerPageSize = 50
	maxLedgerPageSize     = 500
)

type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerReader
}

// NewLedgerService exposes read access to approved entries and holdings
func NewLedgerService(repo portsrepo.LedgerReader) portssvc.LedgerReaderSvc {
	return &ledgerService{ledgerRepo: repo}
}

var _ portssvc.LedgerReaderSvc = (*ledgerService)(nil)

func (s *ledgerService) ListEntries(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLedgerPageSize
	}
	if filter.Limit > maxLedgerPageSize {
		filter.Limit = maxLedgerPageSize
	}
	entries, next, err := s.ledgerRepo.ListEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries")
		return nil, nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	return entries, next, nil
}

func (s *ledgerService) ListHoldings(ctx context.Context) ([]domain.Holding, error) {
	holdings, err := s.ledgerRepo.ListHoldings(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list holdings")
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	if holdings == nil {
		return []domain.Holding{}, nil
	}
	return holdings, nil
}
