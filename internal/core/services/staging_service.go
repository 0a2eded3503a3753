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
	"github.com/SscSPs/statement_review_app/internal/utils/validation"
	"github.com/google/uuid"
)

// stagingService implements the StagingSvcFacade interface
type stagingService struct {
	BaseService
	pendingRepo portsrepo.PendingRepositoryFacade
	eventRepo   portsrepo.ReviewEventReader
	metrics     ReviewMetrics
}

// StagingOption is a functional option for configuring the staging service
type StagingOption func(*stagingService)

// WithStagingEventReader lets the service serve the review audit trail
func WithStagingEventReader(repo portsrepo.ReviewEventReader) StagingOption {
	return func(s *stagingService) {
		s.eventRepo = repo
	}
}

// WithStagingMetrics records staging counters
func WithStagingMetrics(m ReviewMetrics) StagingOption {
	return func(s *stagingService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithStagingClock overrides the time source
func WithStagingClock(clock func() time.Time) StagingOption {
	return func(s *stagingService) {
		s.Clock = clock
	}
}

// NewStagingService creates a new staging service with the provided options
func NewStagingService(repo portsrepo.PendingRepositoryFacade, options ...StagingOption) portssvc.StagingSvcFacade {
	svc := &stagingService{
		pendingRepo: repo,
		metrics:     noopMetrics{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.StagingSvcFacade = (*stagingService)(nil)

func (s *stagingService) StageUpload(ctx context.Context, req dto.UploadRequest, userID string) (*dto.UploadResponse, error) {
	if err := validation.Struct(req); err != nil {
		s.LogDebug(ctx, "Upload failed validation", slog.String("error", err.Error()))
		return nil, err
	}

	docs := req.AllDocuments()
	multi := len(req.Documents) > 0
	now := s.Now()
	verr := &apperrors.ValidationError{}
	res := &dto.UploadResponse{BatchIDs: []string{}}
	seen := make(map[string]bool)
	var records []domain.PendingTransaction

	for d, doc := range docs {
		if len(doc.Transactions) == 0 {
			continue
		}
		batchID := uuid.NewString()
		if doc.BatchID != nil {
			batchID = *doc.BatchID
		}
		for i, candidate := range doc.Transactions {
			prefix := fmt.Sprintf("transactions[%d].", i)
			if multi {
				prefix = fmt.Sprintf("documents[%d].%s", documentIndex(req, d), prefix)
			}

			record, err := candidate.ToPending()
			if err != nil {
				collectFieldErrors(verr, prefix, err)
				continue
			}
			record.PendingID = uuid.NewString()
			record.UploadBatchID = batchID
			record.SourceDocumentName = doc.SourceDocumentName
			// distinct created_at values keep the extraction order stable under created_at sorting
			stagedAt := now.Add(time.Duration(len(records)) * time.Microsecond)
			record.AuditFields = domain.AuditFields{
				CreatedAt:     stagedAt,
				CreatedBy:     userID,
				LastUpdatedAt: stagedAt,
				LastUpdatedBy: userID,
			}
			if err := record.Validate(); err != nil {
				collectFieldErrors(verr, prefix, err)
				continue
			}
			records = append(records, record)
		}
		if !seen[batchID] {
			seen[batchID] = true
			res.BatchIDs = append(res.BatchIDs, batchID)
		}
	}

	if err := verr.OrNil(); err != nil {
		s.LogDebug(ctx, "Upload rejected by domain validation", slog.Int("failing_fields", len(verr.Fields)))
		return nil, err
	}
	if len(records) == 0 {
		return res, nil
	}

	if err := s.pendingRepo.SavePendingBatch(ctx, records); err != nil {
		s.LogError(ctx, err, "Failed to stage upload", slog.Int("records", len(records)))
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	res.PendingCount = len(records)
	s.metrics.ObserveStaged(len(res.BatchIDs), len(records))
	s.LogInfo(ctx, "Upload staged",
		slog.Any("batch_ids", res.BatchIDs),
		slog.Int("pending_count", res.PendingCount),
		slog.String("user_id", userID))
	return res, nil
}

// documentIndex maps an AllDocuments index back onto the request's documents[] index.
func documentIndex(req dto.UploadRequest, d int) int {
	if req.SourceDocumentName != "" {
		return d - 1
	}
	return d
}

func collectFieldErrors(dst *apperrors.ValidationError, prefix string, err error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			dst.Add(prefix+f.Field, f.Message)
		}
		return
	}
	dst.Add(prefix[:len(prefix)-1], err.Error())
}

func (s *stagingService) GetPending(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	record, err := s.pendingRepo.FindPendingByID(ctx, pendingID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load pending transaction", slog.String("pending_id", pendingID))
		}
		return nil, err
	}
	return record, nil
}

func (s *stagingService) QueryPending(ctx context.Context, filter domain.PendingFilter) ([]domain.PendingTransaction, error) {
	records, err := s.pendingRepo.QueryPending(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to query pending transactions")
		return nil, fmt.Errorf("failed to query pending transactions: %w", err)
	}
	if records == nil {
		return []domain.PendingTransaction{}, nil
	}
	return records, nil
}

func (s *stagingService) CountPending(ctx context.Context, filter domain.PendingFilter) (int, error) {
	count, err := s.pendingRepo.CountPending(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to count pending transactions")
		return 0, fmt.Errorf("failed to count pending transactions: %w", err)
	}
	return count, nil
}

func (s *stagingService) ListOutstandingBatches(ctx context.Context) ([]domain.BatchSummary, error) {
	batches, err := s.pendingRepo.ListBatchSummaries(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list outstanding batches")
		return nil, fmt.Errorf("failed to list outstanding batches: %w", err)
	}
	if batches == nil {
		return []domain.BatchSummary{}, nil
	}
	return batches, nil
}

func (s *stagingService) ListReviewEvents(ctx context.Context, pendingID string) ([]domain.ReviewEvent, error) {
	if _, err := s.GetPending(ctx, pendingID); err != nil {
		return nil, err
	}
	if s.eventRepo == nil {
		return []domain.ReviewEvent{}, nil
	}
	events, err := s.eventRepo.ListEventsByPending(ctx, pendingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list review events", slog.String("pending_id", pendingID))
		return nil, fmt.Errorf("failed to list review events: %w", err)
	}
	if events == nil {
		return []domain.ReviewEvent{}, nil
	}
	return events, nil
}

// UpdatePending applies reviewer edits. The checks run in order NotFound, InvalidState, ValidationFailed,
// and nothing is persisted unless every check passes.
func (s *stagingService) UpdatePending(ctx context.Context, pendingID string, req dto.UpdatePendingRequest, userID string) (*domain.PendingTransaction, error) {
	current, err := s.GetPending(ctx, pendingID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusPending {
		return nil, fmt.Errorf("pending transaction %s is %s: %w", pendingID, current.Status, apperrors.ErrInvalidState)
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	patch, err := req.ToPatch()
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated := current.Clone()
	if err := updated.ApplyPatch(patch); err != nil {
		return nil, err
	}
	if err := updated.Validate(); err != nil {
		s.LogDebug(ctx, "Edit rejected by domain validation",
			slog.String("pending_id", pendingID),
			slog.String("error", err.Error()))
		return nil, err
	}
	updated.Touch(userID, s.Now())

	if err := s.pendingRepo.UpdatePending(ctx, updated); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to persist edit", slog.String("pending_id", pendingID))
		return nil, fmt.Errorf("failed to update pending transaction: %w", err)
	}

	s.LogInfo(ctx, "Pending transaction edited",
		slog.String("pending_id", pendingID),
		slog.String("batch_id", updated.UploadBatchID),
		slog.String("user_id", userID))
	return &updated, nil
}

func (s *stagingService) TransitionPending(ctx context.Context, req domain.TransitionRequest) (*domain.PendingTransaction, error) {
	if !req.To.IsTerminal() {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("cannot transition to %q", req.To))
	}
	if req.At.IsZero() {
		req.At = s.Now()
	}
	record, err := s.pendingRepo.TransitionPending(ctx, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to transition pending transaction",
			slog.String("pending_id", req.PendingID),
			slog.String("status", string(req.To)))
		return nil, fmt.Errorf("failed to transition pending transaction: %w", err)
	}
	return record, nil
}
