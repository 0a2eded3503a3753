package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
)

// StagingRepository is an in-memory PendingRepositoryFacade.
// It is safe for concurrent use and hands out copies, never its own records.
type StagingRepository struct {
	mu      sync.RWMutex
	records map[string]domain.PendingTransaction
}

func NewStagingRepository() *StagingRepository {
	return &StagingRepository{
		records: make(map[string]domain.PendingTransaction),
	}
}

var _ portsrepo.PendingRepositoryFacade = (*StagingRepository)(nil)

func (r *StagingRepository) SavePendingBatch(ctx context.Context, records []domain.PendingTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range records {
		if _, exists := r.records[record.PendingID]; exists {
			return fmt.Errorf("pending transaction id %s reused: %w", record.PendingID, apperrors.ErrDuplicate)
		}
	}
	for _, record := range records {
		r.records[record.PendingID] = record.Clone()
	}
	return nil
}

func (r *StagingRepository) FindPendingByID(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[pendingID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := record.Clone()
	return &c, nil
}

func (r *StagingRepository) QueryPending(ctx context.Context, filter domain.PendingFilter) ([]domain.PendingTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.matching(filter), nil
}

func (r *StagingRepository) CountPending(ctx context.Context, filter domain.PendingFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.matching(filter)), nil
}

// matching must be called with the lock held.
func (r *StagingRepository) matching(filter domain.PendingFilter) []domain.PendingTransaction {
	status := filter.EffectiveStatus()
	result := []domain.PendingTransaction{}
	for _, record := range r.records {
		if record.Status != status {
			continue
		}
		if filter.BatchID != nil && record.UploadBatchID != *filter.BatchID {
			continue
		}
		result = append(result, record.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].PendingID < result[j].PendingID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (r *StagingRepository) ListBatchSummaries(ctx context.Context) ([]domain.BatchSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byBatch := make(map[string]*domain.BatchSummary)
	for _, record := range r.records {
		if record.Status != domain.StatusPending {
			continue
		}
		s, ok := byBatch[record.UploadBatchID]
		if !ok {
			s = &domain.BatchSummary{BatchID: record.UploadBatchID, FirstStagedAt: record.CreatedAt}
			byBatch[record.UploadBatchID] = s
		}
		s.PendingCount++
		if record.CreatedAt.Before(s.FirstStagedAt) {
			s.FirstStagedAt = record.CreatedAt
		}
	}

	result := make([]domain.BatchSummary, 0, len(byBatch))
	for _, s := range byBatch {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FirstStagedAt.Equal(result[j].FirstStagedAt) {
			return result[i].BatchID < result[j].BatchID
		}
		return result[i].FirstStagedAt.Before(result[j].FirstStagedAt)
	})
	return result, nil
}

func (r *StagingRepository) UpdatePending(ctx context.Context, record domain.PendingTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[record.PendingID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if current.Status != domain.StatusPending {
		return fmt.Errorf("pending transaction %s is %s: %w", record.PendingID, current.Status, apperrors.ErrInvalidState)
	}

	updated := record.Clone()
	// identity, status and creation audit are not editable
	updated.UploadBatchID = current.UploadBatchID
	updated.SourceDocumentName = current.SourceDocumentName
	updated.Status = current.Status
	updated.LedgerEntryID = current.LedgerEntryID
	updated.CreatedAt = current.CreatedAt
	updated.CreatedBy = current.CreatedBy
	r.records[record.PendingID] = updated
	return nil
}

func (r *StagingRepository) TransitionPending(ctx context.Context, req domain.TransitionRequest) (*domain.PendingTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[req.PendingID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !current.Status.CanTransitionTo(req.To) {
		return nil, fmt.Errorf("pending transaction %s is %s: %w", req.PendingID, current.Status, apperrors.ErrInvalidState)
	}

	current.Status = req.To
	current.LedgerEntryID = req.LedgerEntryID
	current.Touch(req.ActorID, req.At)
	r.records[req.PendingID] = current.Clone()
	return &current, nil
}
