package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultBatchConcurrency is the number of per-item calls approve-all/reject-all run at once.
const DefaultBatchConcurrency = 4

// followUpTimeout bounds work that must still run after the caller's context is gone:
// ledger cleanup, audit events and the remaining count of a batch.
const followUpTimeout = 5 * time.Second

// detached keeps ctx values such as the request logger but outlives cancellation of ctx.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), followUpTimeout)
}

// approvalService implements the ApprovalSvcFacade interface
type approvalService struct {
	BaseService
	staging          portssvc.StagingSvcFacade
	ledger           portsrepo.LedgerRepositoryFacade
	eventRepo        portsrepo.ReviewEventWriter
	metrics          ReviewMetrics
	inflight         *inflightSet
	batchConcurrency int64
}

// ApprovalOption is a functional option for configuring the approval service
type ApprovalOption func(*approvalService)

// WithReviewEventRepository records an audit event for every successful disposition
func WithReviewEventRepository(repo portsrepo.ReviewEventWriter) ApprovalOption {
	return func(s *approvalService) {
		s.eventRepo = repo
	}
}

// WithApprovalMetrics records disposition counters
func WithApprovalMetrics(m ReviewMetrics) ApprovalOption {
	return func(s *approvalService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithBatchConcurrency bounds concurrent per-item calls in batch operations. 1 processes items sequentially.
func WithBatchConcurrency(n int) ApprovalOption {
	return func(s *approvalService) {
		if n > 0 {
			s.batchConcurrency = int64(n)
		}
	}
}

// WithApprovalClock overrides the time source
func WithApprovalClock(clock func() time.Time) ApprovalOption {
	return func(s *approvalService) {
		s.Clock = clock
	}
}

// NewApprovalService creates the approval engine on top of the staging service and the ledger
func NewApprovalService(staging portssvc.StagingSvcFacade, ledger portsrepo.LedgerRepositoryFacade, options ...ApprovalOption) portssvc.ApprovalSvcFacade {
	svc := &approvalService{
		staging:          staging,
		ledger:           ledger,
		metrics:          noopMetrics{},
		inflight:         newInflightSet(),
		batchConcurrency: DefaultBatchConcurrency,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// Approve inserts the ledger entry first and only then marks the record approved,
// so a record is never approved without its entry. The ledger insert is idempotent
// on the source record, which makes a failed approve safe to retry. An entry is only
// ever removed once its record is known to be rejected.
func (s *approvalService) Approve(ctx context.Context, pendingID string, userID string) (*domain.PendingTransaction, error) {
	if !s.inflight.acquire(pendingID) {
		return nil, fmt.Errorf("pending transaction %s is already being processed: %w", pendingID, apperrors.ErrInvalidState)
	}
	defer s.inflight.release(pendingID)

	record, err := s.staging.GetPending(ctx, pendingID)
	if err != nil {
		s.metrics.ObserveDisposition(domain.ReviewApprove, apperrors.Code(err))
		return nil, err
	}
	if record.Status != domain.StatusPending {
		s.metrics.ObserveDisposition(domain.ReviewApprove, apperrors.CodeInvalidState)
		return nil, fmt.Errorf("pending transaction %s is %s: %w", pendingID, record.Status, apperrors.ErrInvalidState)
	}
	if err := record.ReadyForLedger(); err != nil {
		s.metrics.ObserveDisposition(domain.ReviewApprove, apperrors.CodeValidationFailed)
		return nil, err
	}

	now := s.Now()
	entry := domain.NewLedgerEntryFromPending(uuid.NewString(), *record, userID, now)
	stored, created, err := s.ledger.InsertApproved(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Ledger insert failed, record stays pending",
			slog.String("pending_id", pendingID),
			slog.String("batch_id", record.UploadBatchID))
		s.metrics.ObserveDisposition(domain.ReviewApprove, apperrors.CodeDependencyFailure)
		return nil, fmt.Errorf("ledger insert for %s failed: %v: %w", pendingID, err, apperrors.ErrDependencyFailure)
	}
	if !created {
		s.LogInfo(ctx, "Reusing ledger entry from an earlier approve attempt",
			slog.String("pending_id", pendingID),
			slog.String("ledger_entry_id", stored.EntryID))
	}

	approved, err := s.staging.TransitionPending(ctx, domain.TransitionRequest{
		PendingID:     pendingID,
		To:            domain.StatusApproved,
		ActorID:       userID,
		LedgerEntryID: &stored.EntryID,
		At:            now,
	})
	if err != nil {
		s.metrics.ObserveDisposition(domain.ReviewApprove, apperrors.Code(err))
		if errors.Is(err, apperrors.ErrInvalidState) {
			s.compensateLostApproval(ctx, pendingID)
			return nil, err
		}
		// another approver may already have reused this entry, so it stays for the retry
		s.LogWarn(ctx, "Transition failed after ledger insert, entry kept for retry",
			slog.String("pending_id", pendingID),
			slog.String("ledger_entry_id", stored.EntryID),
			slog.Bool("created", created))
		return nil, err
	}

	s.appendEvent(ctx, approved, domain.ReviewApprove, userID, "ledger entry "+stored.EntryID)
	s.metrics.ObserveDisposition(domain.ReviewApprove, "OK")
	s.LogInfo(ctx, "Pending transaction approved",
		slog.String("pending_id", pendingID),
		slog.String("batch_id", approved.UploadBatchID),
		slog.String("ledger_entry_id", stored.EntryID),
		slog.String("user_id", userID))
	return approved, nil
}

// compensateLostApproval runs when another reviewer moved the record first.
// A rejected record must not keep a ledger entry.
func (s *approvalService) compensateLostApproval(ctx context.Context, pendingID string) {
	ctx, cancel := detached(ctx)
	defer cancel()
	current, err := s.staging.GetPending(ctx, pendingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to re-read record after lost approval race", slog.String("pending_id", pendingID))
		return
	}
	if current.Status == domain.StatusRejected {
		s.removeLedgerEntry(ctx, pendingID, "Removed ledger entry of a record rejected concurrently")
	}
}

func (s *approvalService) removeLedgerEntry(ctx context.Context, pendingID, msg string) {
	if err := s.ledger.RemoveBySource(ctx, pendingID); err != nil {
		s.LogError(ctx, err, "Failed to remove ledger entry", slog.String("pending_id", pendingID))
		return
	}
	s.LogWarn(ctx, msg, slog.String("pending_id", pendingID))
}

func (s *approvalService) Reject(ctx context.Context, pendingID string, userID string) (*domain.PendingTransaction, error) {
	if !s.inflight.acquire(pendingID) {
		return nil, fmt.Errorf("pending transaction %s is already being processed: %w", pendingID, apperrors.ErrInvalidState)
	}
	defer s.inflight.release(pendingID)

	rejected, err := s.staging.TransitionPending(ctx, domain.TransitionRequest{
		PendingID: pendingID,
		To:        domain.StatusRejected,
		ActorID:   userID,
		At:        s.Now(),
	})
	if err != nil {
		s.metrics.ObserveDisposition(domain.ReviewReject, apperrors.Code(err))
		return nil, err
	}

	s.removeOrphanedEntry(ctx, pendingID)
	s.appendEvent(ctx, rejected, domain.ReviewReject, userID, "")
	s.metrics.ObserveDisposition(domain.ReviewReject, "OK")
	s.LogInfo(ctx, "Pending transaction rejected",
		slog.String("pending_id", pendingID),
		slog.String("batch_id", rejected.UploadBatchID),
		slog.String("user_id", userID))
	return rejected, nil
}

// removeOrphanedEntry drops the entry an interrupted approve can leave behind.
// The record is already rejected, so this runs even if ctx has been cancelled since.
func (s *approvalService) removeOrphanedEntry(ctx context.Context, pendingID string) {
	ctx, cancel := detached(ctx)
	defer cancel()
	if _, err := s.ledger.FindEntryBySource(ctx, pendingID); err == nil {
		s.removeLedgerEntry(ctx, pendingID, "Removed orphaned ledger entry of rejected record")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for orphaned ledger entry", slog.String("pending_id", pendingID))
	}
}

func (s *approvalService) Edit(ctx context.Context, pendingID string, req dto.UpdatePendingRequest, userID string) (*domain.PendingTransaction, error) {
	if !s.inflight.acquire(pendingID) {
		return nil, fmt.Errorf("pending transaction %s is already being processed: %w", pendingID, apperrors.ErrInvalidState)
	}
	defer s.inflight.release(pendingID)

	updated, err := s.staging.UpdatePending(ctx, pendingID, req, userID)
	if err != nil {
		s.metrics.ObserveDisposition(domain.ReviewEdit, apperrors.Code(err))
		return nil, err
	}
	s.appendEvent(ctx, updated, domain.ReviewEdit, userID, "")
	s.metrics.ObserveDisposition(domain.ReviewEdit, "OK")
	return updated, nil
}

func (s *approvalService) ApproveAll(ctx context.Context, batchID string, userID string) (*domain.BatchResult, error) {
	return s.runBatch(ctx, domain.ActionApproveAll, batchID, userID, s.approveItem)
}

func (s *approvalService) RejectAll(ctx context.Context, batchID string, userID string) (*domain.BatchResult, error) {
	return s.runBatch(ctx, domain.ActionRejectAll, batchID, userID, s.rejectItem)
}

func (s *approvalService) approveItem(ctx context.Context, id, userID string) error {
	_, err := s.Approve(ctx, id, userID)
	return err
}

func (s *approvalService) rejectItem(ctx context.Context, id, userID string) error {
	_, err := s.Reject(ctx, id, userID)
	return err
}

// runBatch applies fn to every pending record of the batch, oldest first, with bounded concurrency.
// It never stops at the first failure. Outcomes are stored by index so reporting order matches created_at
// order regardless of completion order. Items not reached before ctx is cancelled are reported as failed
// and stay pending.
func (s *approvalService) runBatch(ctx context.Context, action domain.BatchAction, batchID, userID string,
	fn func(ctx context.Context, id, userID string) error) (*domain.BatchResult, error) {
	if batchID == "" {
		return nil, apperrors.NewValidationError("batchId", "is required")
	}
	start := time.Now()

	records, err := s.staging.QueryPending(ctx, domain.BatchFilter(batchID))
	if err != nil {
		return nil, err
	}

	outcomes := make([]domain.ItemOutcome, len(records))
	sem := semaphore.NewWeighted(s.batchConcurrency)
	var g errgroup.Group
	for i := range records {
		i := i
		id := records[i].PendingID
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(records); j++ {
				outcomes[j] = domain.ItemOutcome{PendingID: records[j].PendingID, Err: err}
			}
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			if err := ctx.Err(); err != nil {
				outcomes[i] = domain.ItemOutcome{PendingID: id, Err: err}
				return nil
			}
			outcomes[i] = domain.ItemOutcome{PendingID: id, Err: fn(ctx, id, userID)}
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.BatchResult{
		BatchID:   batchID,
		Action:    action,
		Succeeded: []string{},
		Failed:    []domain.ItemFailure{},
		Skipped:   []domain.ItemFailure{},
	}
	for _, o := range outcomes {
		switch {
		case o.Succeeded():
			result.Succeeded = append(result.Succeeded, o.PendingID)
		case errors.Is(o.Err, apperrors.ErrInvalidState):
			result.Skipped = append(result.Skipped, itemFailure(o))
		default:
			result.Failed = append(result.Failed, itemFailure(o))
		}
	}

	countCtx, cancel := detached(ctx)
	defer cancel()
	remaining, err := s.staging.CountPending(countCtx, domain.BatchFilter(batchID))
	if err != nil {
		s.LogError(ctx, err, "Failed to count remaining items", slog.String("batch_id", batchID))
		remaining = len(result.Failed)
	}
	result.Remaining = remaining

	s.metrics.ObserveBatch(action, *result, time.Since(start))
	s.LogInfo(ctx, "Batch disposition finished",
		slog.String("batch_id", batchID),
		slog.String("action", string(action)),
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("remaining", result.Remaining),
		slog.String("user_id", userID))
	return result, nil
}

func itemFailure(o domain.ItemOutcome) domain.ItemFailure {
	code := apperrors.Code(o.Err)
	if errors.Is(o.Err, context.Canceled) || errors.Is(o.Err, context.DeadlineExceeded) {
		code = "CANCELLED"
	}
	return domain.ItemFailure{PendingID: o.PendingID, Code: code, Error: o.Err.Error()}
}

// appendEvent records the audit trail. A failure here never undoes the disposition.
func (s *approvalService) appendEvent(ctx context.Context, record *domain.PendingTransaction, action domain.ReviewAction, userID, note string) {
	if s.eventRepo == nil {
		return
	}
	ctx, cancel := detached(ctx)
	defer cancel()
	event := domain.ReviewEvent{
		EventID:   uuid.NewString(),
		PendingID: record.PendingID,
		BatchID:   record.UploadBatchID,
		Action:    action,
		ActorID:   userID,
		Note:      note,
		At:        record.LastUpdatedAt,
	}
	if err := s.eventRepo.AppendEvent(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to append review event",
			slog.String("pending_id", record.PendingID),
			slog.String("action", string(action)))
	}
}
