package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
	"github.com/SscSPs/statement_review_app/internal/utils/pagination"
)

type holdingKey struct {
	security string
	currency string
}

// LedgerRepository is an in-memory LedgerRepositoryFacade that maintains holdings
// the same way the Postgres one does.
type LedgerRepository struct {
	mu       sync.RWMutex
	bySource map[string]domain.LedgerEntry
	holdings map[holdingKey]*domain.Holding

	// FailInsert, when set, is consulted before every insert. A non-nil result aborts it.
	FailInsert func(entry domain.LedgerEntry) error
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		bySource: make(map[string]domain.LedgerEntry),
		holdings: make(map[holdingKey]*domain.Holding),
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*LedgerRepository)(nil)

func (r *LedgerRepository) InsertApproved(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailInsert != nil {
		if err := r.FailInsert(entry); err != nil {
			return nil, false, err
		}
	}
	if existing, ok := r.bySource[entry.SourcePendingID]; ok {
		return &existing, false, nil
	}
	r.bySource[entry.SourcePendingID] = entry
	r.holdingFor(entry).Apply(entry)
	return &entry, true, nil
}

func (r *LedgerRepository) RemoveBySource(ctx context.Context, sourcePendingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.bySource[sourcePendingID]
	if !ok {
		return nil
	}
	delete(r.bySource, sourcePendingID)
	r.holdingFor(entry).Revert(entry)
	return nil
}

// holdingFor must be called with the write lock held.
func (r *LedgerRepository) holdingFor(entry domain.LedgerEntry) *domain.Holding {
	if entry.SecurityIdentifier == nil {
		return &domain.Holding{}
	}
	key := holdingKey{security: *entry.SecurityIdentifier, currency: entry.CurrencyCode}
	h, ok := r.holdings[key]
	if !ok {
		h = &domain.Holding{SecurityIdentifier: key.security, CurrencyCode: key.currency}
		r.holdings[key] = h
	}
	return h
}

func (r *LedgerRepository) FindEntryBySource(ctx context.Context, sourcePendingID string) (*domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.bySource[sourcePendingID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &entry, nil
}

func (r *LedgerRepository) ListEntries(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error) {
	var after *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, err
		}
		after = &c
	}

	r.mu.RLock()
	entries := make([]domain.LedgerEntry, 0, len(r.bySource))
	for _, e := range r.bySource {
		if filter.BatchID != nil && e.SourceBatchID != *filter.BatchID {
			continue
		}
		if after != nil && !after.After(e.CreatedAt, e.EntryID) {
			continue
		}
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].EntryID < entries[j].EntryID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	var next *string
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.EntryID})
		next = &token
	}
	return entries, next, nil
}

func (r *LedgerRepository) ListHoldings(ctx context.Context) ([]domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.Holding{}
	for _, h := range r.holdings {
		if h.Quantity.IsZero() {
			continue
		}
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SecurityIdentifier == result[j].SecurityIdentifier {
			return result[i].CurrencyCode < result[j].CurrencyCode
		}
		return result[i].SecurityIdentifier < result[j].SecurityIdentifier
	})
	return result, nil
}
