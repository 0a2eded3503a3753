package review

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/cenkalti/backoff/v4"
)

// StorageKey is the well-known key the outstanding batch list is kept under.
const StorageKey = "pendingBatchIds"

const defaultSyncMaxElapsed = 10 * time.Second

// ErrTrackerSync means the in-memory list changed but could not be persisted.
// The tracker stays dirty and retries on its next operation.
var ErrTrackerSync = errors.New("outstanding batch list not persisted")

// BatchStore persists the outstanding batch list for one reviewer.
type BatchStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, batchIDs []string) error
}

// PendingCounter is the server-side backstop used on resume.
type PendingCounter interface {
	Count(ctx context.Context, filter domain.PendingFilter) (int, error)
}

// ResumePlan tells a session what to load after a restart.
type ResumePlan struct {
	// BatchIDs are the tracked batches, reviewed in this order.
	BatchIDs []string
	// PendingCount is the server's count of pending records across all batches, or -1 when unknown.
	PendingCount int
	// Unfiltered is set when nothing is tracked but the server still has pending records.
	Unfiltered bool
	// Nothing is set when there is nothing to review.
	Nothing bool
}

// Tracker is a write-through cache of the outstanding batch list.
type Tracker struct {
	store      BatchStore
	newBackOff func() backoff.BackOff

	mu     sync.Mutex
	ids    []string
	loaded bool
	dirty  bool
}

// TrackerOption is a functional option for configuring the tracker
type TrackerOption func(*Tracker)

// WithSyncMaxElapsed bounds how long a single load or save is retried.
func WithSyncMaxElapsed(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		t.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxElapsedTime = d
			return b
		}
	}
}

// WithSyncBackOff replaces the retry policy.
func WithSyncBackOff(newBackOff func() backoff.BackOff) TrackerOption {
	return func(t *Tracker) {
		t.newBackOff = newBackOff
	}
}

// NewTracker creates a tracker over store.
func NewTracker(store BatchStore, options ...TrackerOption) *Tracker {
	t := &Tracker{store: store}
	WithSyncMaxElapsed(defaultSyncMaxElapsed)(t)
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *Tracker) retry(ctx context.Context, op func() error) error {
	return backoff.Retry(op, backoff.WithContext(t.newBackOff(), ctx))
}

// ensureLoaded reads the persisted list once. Caller holds mu.
func (t *Tracker) ensureLoaded(ctx context.Context) error {
	if t.loaded {
		return nil
	}
	var ids []string
	err := t.retry(ctx, func() error {
		var err error
		ids, err = t.store.Load(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("load outstanding batches: %w", err)
	}
	t.ids = dedupe(ids)
	t.loaded = true
	return nil
}

// flush writes the cache to the store. Caller holds mu.
func (t *Tracker) flush(ctx context.Context) error {
	snapshot := slices.Clone(t.ids)
	if err := t.retry(ctx, func() error { return t.store.Save(ctx, snapshot) }); err != nil {
		t.dirty = true
		return fmt.Errorf("%w: %v", ErrTrackerSync, err)
	}
	t.dirty = false
	return nil
}

// Outstanding returns the tracked batch ids. A pending failed sync is retried first; if it
// fails again the ids are still returned together with an ErrTrackerSync error.
func (t *Tracker) Outstanding(ctx context.Context) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	var err error
	if t.dirty {
		err = t.flush(ctx)
	}
	return slices.Clone(t.ids), err
}

// Add tracks batch ids. The in-memory list is updated even when persisting fails.
func (t *Tracker) Add(ctx context.Context, batchIDs ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ensureLoaded(ctx); err != nil {
		return err
	}
	changed := false
	for _, id := range batchIDs {
		if id != "" && !slices.Contains(t.ids, id) {
			t.ids = append(t.ids, id)
			changed = true
		}
	}
	if !changed && !t.dirty {
		return nil
	}
	return t.flush(ctx)
}

// Remove stops tracking batch ids.
func (t *Tracker) Remove(ctx context.Context, batchIDs ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ensureLoaded(ctx); err != nil {
		return err
	}
	before := len(t.ids)
	t.ids = slices.DeleteFunc(t.ids, func(id string) bool {
		return slices.Contains(batchIDs, id)
	})
	if len(t.ids) == before && !t.dirty {
		return nil
	}
	return t.flush(ctx)
}

// Dirty reports whether the last change has not reached the store yet.
func (t *Tracker) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty
}

// Resume combines the tracked list with the server's pending count. The count is always
// queried, because the persisted list may be stale or lost.
func (t *Tracker) Resume(ctx context.Context, counter PendingCounter) (ResumePlan, error) {
	ids, err := t.Outstanding(ctx)
	if err != nil && !errors.Is(err, ErrTrackerSync) {
		return ResumePlan{}, err
	}

	pending := domain.StatusPending
	count, countErr := counter.Count(ctx, domain.PendingFilter{Status: &pending})
	if countErr != nil {
		if len(ids) == 0 {
			return ResumePlan{}, fmt.Errorf("count pending transactions: %w", countErr)
		}
		count = -1
	}

	plan := ResumePlan{BatchIDs: ids, PendingCount: count}
	switch {
	case len(ids) > 0:
	case count > 0:
		plan.Unfiltered = true
	default:
		plan.Nothing = true
	}
	return plan, nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
