package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBatchApproveAll approves every pending record of one upload batch.
	TaskBatchApproveAll = "batch:approve-all"
	// TaskBatchRejectAll rejects every pending record of one upload batch.
	TaskBatchRejectAll = "batch:reject-all"

	batchMaxRetry  = 3
	batchRetention = 24 * time.Hour
)

// BatchDispositionPayload identifies the batch and the reviewer acting on it.
type BatchDispositionPayload struct {
	BatchID string `json:"batch_id"`
	UserID  string `json:"user_id"`
}

// TaskTypeFor maps a batch action onto its task type.
func TaskTypeFor(action domain.BatchAction) (string, error) {
	switch action {
	case domain.ActionApproveAll:
		return TaskBatchApproveAll, nil
	case domain.ActionRejectAll:
		return TaskBatchRejectAll, nil
	default:
		return "", fmt.Errorf("unknown batch action %q", action)
	}
}

// ActionFor is the inverse of TaskTypeFor.
func ActionFor(taskType string) (domain.BatchAction, error) {
	switch taskType {
	case TaskBatchApproveAll:
		return domain.ActionApproveAll, nil
	case TaskBatchRejectAll:
		return domain.ActionRejectAll, nil
	default:
		return "", fmt.Errorf("unknown task type %q", taskType)
	}
}

// NewBatchDispositionTask creates an Asynq task for an approve-all or reject-all run.
func NewBatchDispositionTask(action domain.BatchAction, payload BatchDispositionPayload) (*asynq.Task, error) {
	taskType, err := TaskTypeFor(action)
	if err != nil {
		return nil, err
	}
	if payload.BatchID == "" || payload.UserID == "" {
		return nil, fmt.Errorf("batch disposition task needs a batch id and a user id")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(batchMaxRetry),
		asynq.Retention(batchRetention),
	), nil
}
