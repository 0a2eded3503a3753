package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
)

// ReviewEventRepository keeps the audit trail in memory.
type ReviewEventRepository struct {
	mu        sync.RWMutex
	byPending map[string][]domain.ReviewEvent
}

func NewReviewEventRepository() *ReviewEventRepository {
	return &ReviewEventRepository{
		byPending: make(map[string][]domain.ReviewEvent),
	}
}

var _ portsrepo.ReviewEventRepositoryFacade = (*ReviewEventRepository)(nil)

func (r *ReviewEventRepository) AppendEvent(ctx context.Context, event domain.ReviewEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPending[event.PendingID] = append(r.byPending[event.PendingID], event)
	return nil
}

func (r *ReviewEventRepository) ListEventsByPending(ctx context.Context, pendingID string) ([]domain.ReviewEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := append([]domain.ReviewEvent{}, r.byPending[pendingID]...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
	return events, nil
}
