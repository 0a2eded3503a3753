package review

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/SscSPs/statement_review_app/internal/dto"
)

var (
	// ErrItemProcessing is returned when a request for the record is already in flight.
	ErrItemProcessing = errors.New("record is being processed")
	// ErrUnsavedChanges is returned when approving a record whose edits were not saved.
	ErrUnsavedChanges = errors.New("record has unsaved changes")
)

// Item is one record as the reviewer sees it.
type Item struct {
	Record domain.PendingTransaction
	// Draft holds edits not yet saved. It survives a failed save.
	Draft      *dto.UpdatePendingRequest
	Processing bool
	LastErr    error
}

func (it *Item) snapshot() Item {
	out := Item{
		Record:     it.Record.Clone(),
		Processing: it.Processing,
		LastErr:    it.LastErr,
	}
	if it.Draft != nil {
		d := *it.Draft
		out.Draft = &d
	}
	return out
}

// view is what the session reloads: either a filter or a list of tracked batches.
type view struct {
	filter   domain.PendingFilter
	batchIDs []string
}

// Session keeps the local review state of one reviewer.
type Session struct {
	backend Backend
	tracker *Tracker

	mu    sync.Mutex
	view  view
	items []*Item
}

// NewSession creates a session. tracker may be nil when resume is not needed.
func NewSession(backend Backend, tracker *Tracker) *Session {
	return &Session{backend: backend, tracker: tracker}
}

// Start resumes from the tracker and loads what it points at.
func (s *Session) Start(ctx context.Context) (ResumePlan, error) {
	if s.tracker == nil {
		return ResumePlan{Unfiltered: true, PendingCount: -1}, s.Load(ctx, domain.PendingFilter{})
	}
	plan, err := s.tracker.Resume(ctx, s.backend)
	if err != nil {
		return plan, err
	}
	switch {
	case len(plan.BatchIDs) > 0:
		err = s.LoadBatches(ctx, plan.BatchIDs)
	case plan.Unfiltered:
		err = s.Load(ctx, domain.PendingFilter{})
	default:
		s.mu.Lock()
		s.view = view{}
		s.items = nil
		s.mu.Unlock()
	}
	return plan, err
}

// Upload stages extraction output and tracks the batches that received records.
func (s *Session) Upload(ctx context.Context, req dto.UploadRequest) (*dto.UploadResponse, error) {
	res, err := s.backend.Upload(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.PendingCount > 0 && s.tracker != nil {
		if err := s.tracker.Add(ctx, res.BatchIDs...); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Load replaces the session contents with a fresh query. Drafts of records that are still
// listed are kept.
func (s *Session) Load(ctx context.Context, filter domain.PendingFilter) error {
	records, err := s.backend.Query(ctx, filter)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view{filter: filter}
	s.replace(records)
	return nil
}

// LoadBatches loads the pending records of each batch. Tracked batches with nothing left
// pending are dropped from the tracker.
func (s *Session) LoadBatches(ctx context.Context, batchIDs []string) error {
	var records []domain.PendingTransaction
	var empty []string
	for _, id := range batchIDs {
		batchID := id
		batch, err := s.backend.Query(ctx, domain.PendingFilter{BatchID: &batchID})
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			empty = append(empty, id)
		}
		records = append(records, batch...)
	}

	var syncErr error
	if len(empty) > 0 && s.tracker != nil {
		syncErr = s.tracker.Remove(ctx, empty...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view{batchIDs: slices.DeleteFunc(slices.Clone(batchIDs), func(id string) bool {
		return slices.Contains(empty, id)
	})}
	s.replace(records)
	return syncErr
}

// replace swaps in records in created_at order. Caller holds mu.
func (s *Session) replace(records []domain.PendingTransaction) {
	prev := make(map[string]*Item, len(s.items))
	for _, it := range s.items {
		prev[it.Record.PendingID] = it
	}
	slices.SortStableFunc(records, func(a, b domain.PendingTransaction) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.PendingID, b.PendingID)
	})
	items := make([]*Item, 0, len(records))
	for _, r := range records {
		it := &Item{Record: r}
		if old, ok := prev[r.PendingID]; ok {
			it.Draft = old.Draft
			it.Processing = old.Processing
			it.LastErr = old.LastErr
		}
		items = append(items, it)
	}
	s.items = items
}

func (s *Session) reload(ctx context.Context) error {
	s.mu.Lock()
	v := s.view
	s.mu.Unlock()
	if len(v.batchIDs) > 0 {
		return s.LoadBatches(ctx, v.batchIDs)
	}
	return s.Load(ctx, v.filter)
}

// Items returns a copy of the session contents in created_at order.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.snapshot()
	}
	return out
}

// Item returns one record of the session.
func (s *Session) Item(pendingID string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.find(pendingID)
	if it == nil {
		return Item{}, false
	}
	return it.snapshot(), true
}

func (s *Session) find(pendingID string) *Item {
	for _, it := range s.items {
		if it.Record.PendingID == pendingID {
			return it
		}
	}
	return nil
}

// drop removes an item that was handled. Caller holds mu.
func (s *Session) drop(pendingID string) {
	s.items = slices.DeleteFunc(s.items, func(it *Item) bool {
		return it.Record.PendingID == pendingID
	})
}

func notInSession(pendingID string) error {
	return fmt.Errorf("pending transaction %s is not in this session: %w", pendingID, apperrors.ErrNotFound)
}

// Edit buffers field changes locally. Nothing is sent until Save.
func (s *Session) Edit(pendingID string, req dto.UpdatePendingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.find(pendingID)
	if it == nil {
		return notInSession(pendingID)
	}
	if it.Processing {
		return ErrItemProcessing
	}
	if req.IsEmpty() {
		return nil
	}
	if it.Draft == nil {
		it.Draft = &req
	} else {
		merged := it.Draft.Merge(req)
		it.Draft = &merged
	}
	return nil
}

// Discard drops the local edits of a record.
func (s *Session) Discard(pendingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it := s.find(pendingID); it != nil {
		it.Draft = nil
	}
}

// begin marks the item as in flight and returns its draft.
func (s *Session) begin(pendingID string) (*dto.UpdatePendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.find(pendingID)
	if it == nil {
		return nil, notInSession(pendingID)
	}
	if it.Processing {
		return nil, ErrItemProcessing
	}
	it.Processing = true
	it.LastErr = nil
	return it.Draft, nil
}

// finish clears the in-flight flag. handled records leave the session.
func (s *Session) finish(pendingID string, handled bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.find(pendingID)
	if it == nil {
		return
	}
	if handled {
		s.drop(pendingID)
		return
	}
	it.Processing = false
	it.LastErr = err
}

// Save sends the buffered edits. On failure the draft is kept so the reviewer can retry.
func (s *Session) Save(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	draft, err := s.begin(pendingID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		s.finish(pendingID, false, nil)
		it, _ := s.Item(pendingID)
		return &it.Record, nil
	}

	updated, err := s.backend.Update(ctx, pendingID, *draft)
	if err != nil {
		s.finish(pendingID, errors.Is(err, apperrors.ErrInvalidState), err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if it := s.find(pendingID); it != nil {
		it.Record = updated.Clone()
		it.Draft = nil
		it.Processing = false
	}
	return updated, nil
}

// Approve approves one record. A record another reviewer already handled leaves the
// session without an error.
func (s *Session) Approve(ctx context.Context, pendingID string) error {
	s.mu.Lock()
	if it := s.find(pendingID); it != nil && it.Draft != nil && !it.Processing {
		s.mu.Unlock()
		return ErrUnsavedChanges
	}
	s.mu.Unlock()
	return s.dispose(ctx, pendingID, s.backend.Approve)
}

// Reject rejects one record and discards its draft.
func (s *Session) Reject(ctx context.Context, pendingID string) error {
	return s.dispose(ctx, pendingID, s.backend.Reject)
}

func (s *Session) dispose(ctx context.Context, pendingID string, call func(context.Context, string) (*domain.PendingTransaction, error)) error {
	if _, err := s.begin(pendingID); err != nil {
		return err
	}
	_, err := call(ctx, pendingID)
	switch {
	case err == nil:
		s.finish(pendingID, true, nil)
		return nil
	case errors.Is(err, apperrors.ErrInvalidState):
		s.finish(pendingID, true, nil)
		return nil
	default:
		s.finish(pendingID, false, err)
		return err
	}
}

// ApproveAll approves the whole batch, then reloads. A fully handled batch is no longer tracked.
// A non-nil result comes with an ErrTrackerSync error when only the tracker update failed.
func (s *Session) ApproveAll(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	return s.disposeBatch(ctx, batchID, s.backend.ApproveAll)
}

// RejectAll rejects the whole batch, then reloads.
func (s *Session) RejectAll(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	return s.disposeBatch(ctx, batchID, s.backend.RejectAll)
}

func (s *Session) disposeBatch(ctx context.Context, batchID string, call func(context.Context, string) (*domain.BatchResult, error)) (*domain.BatchResult, error) {
	s.mu.Lock()
	for _, it := range s.items {
		if it.Record.UploadBatchID == batchID && it.Processing {
			s.mu.Unlock()
			return nil, ErrItemProcessing
		}
	}
	for _, it := range s.items {
		if it.Record.UploadBatchID == batchID {
			it.Processing = true
		}
	}
	s.mu.Unlock()

	result, err := call(ctx, batchID)

	s.mu.Lock()
	for _, it := range s.items {
		if it.Record.UploadBatchID == batchID {
			it.Processing = false
		}
	}
	if result != nil {
		for _, f := range result.Failed {
			if it := s.find(f.PendingID); it != nil {
				it.LastErr = fmt.Errorf("%s: %w", f.Error, apperrors.FromCode(f.Code))
			}
		}
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var syncErr error
	if result.Complete() && s.tracker != nil {
		syncErr = s.tracker.Remove(ctx, batchID)
	}
	if err := s.reload(ctx); err != nil {
		return result, err
	}
	return result, syncErr
}
