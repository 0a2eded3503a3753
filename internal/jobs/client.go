package jobs

import (
	"context"
	"fmt"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/hibiken/asynq"
)

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

var _ portssvc.BatchDispositionQueue = (*Client)(nil)

// EnqueueBatchDisposition hands an approve-all or reject-all run to the worker.
func (c *Client) EnqueueBatchDisposition(ctx context.Context, action domain.BatchAction, batchID string, userID string) (*dto.BatchEnqueuedResponse, error) {
	task, err := NewBatchDispositionTask(action, BatchDispositionPayload{BatchID: batchID, UserID: userID})
	if err != nil {
		return nil, err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue %s for batch %s: %w", action, batchID, err)
	}
	return &dto.BatchEnqueuedResponse{
		TaskID:  info.ID,
		Queue:   info.Queue,
		BatchID: batchID,
		Action:  string(action),
	}, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
