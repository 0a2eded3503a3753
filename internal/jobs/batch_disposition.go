package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/middleware"
	"github.com/hibiken/asynq"
)

// ErrBatchIncomplete is returned when a run left failed items behind, so asynq retries it.
// Items that were already handled are skipped on the retry.
var ErrBatchIncomplete = errors.New("batch disposition left failed items")

// BatchDispositionJob runs approve-all and reject-all in the background.
type BatchDispositionJob struct {
	approval portssvc.ApprovalBatchSvc
	logger   *slog.Logger
}

// NewBatchDispositionJob constructs the job handler.
func NewBatchDispositionJob(approval portssvc.ApprovalBatchSvc, logger *slog.Logger) *BatchDispositionJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchDispositionJob{approval: approval, logger: logger}
}

// Handle fulfils the asynq.HandlerFunc contract for both batch task types.
func (j *BatchDispositionJob) Handle(ctx context.Context, task *asynq.Task) error {
	action, err := ActionFor(task.Type())
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	var payload BatchDispositionPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	if payload.BatchID == "" || payload.UserID == "" {
		return fmt.Errorf("%s payload is missing batch or user: %w", task.Type(), asynq.SkipRetry)
	}

	logger := j.logger.With(
		slog.String("job", task.Type()),
		slog.String("batch_id", payload.BatchID),
		slog.String("user_id", payload.UserID))
	ctx = middleware.WithLogger(middleware.WithUserID(ctx, payload.UserID), logger)

	var result *domain.BatchResult
	switch action {
	case domain.ActionApproveAll:
		result, err = j.approval.ApproveAll(ctx, payload.BatchID, payload.UserID)
	default:
		result, err = j.approval.RejectAll(ctx, payload.BatchID, payload.UserID)
	}
	if err != nil {
		logger.Error("batch disposition", slog.Any("error", err))
		return err
	}

	if w := task.ResultWriter(); w != nil {
		if body, err := json.Marshal(result); err == nil {
			if _, err := w.Write(body); err != nil {
				logger.Warn("write task result", slog.Any("error", err))
			}
		}
	}

	logger.Info("batch disposition finished",
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("remaining", result.Remaining))
	if len(result.Failed) > 0 {
		return fmt.Errorf("%s %s: %d of %d items failed: %w",
			action, payload.BatchID, len(result.Failed),
			len(result.Succeeded)+len(result.Failed)+len(result.Skipped), ErrBatchIncomplete)
	}
	return nil
}
