package handlers

import (
	"context"
	"net/http"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/SscSPs/statement_review_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// batchHandler handles batch-wide dispositions.
type batchHandler struct {
	stagingService  portssvc.StagingReaderSvc
	approvalService portssvc.ApprovalBatchSvc
	queue           portssvc.BatchDispositionQueue
}

func newBatchHandler(ss portssvc.StagingReaderSvc, as portssvc.ApprovalBatchSvc, queue portssvc.BatchDispositionQueue) *batchHandler {
	return &batchHandler{
		stagingService:  ss,
		approvalService: as,
		queue:           queue,
	}
}

// batchParams are the optional query parameters of approve-all/reject-all.
type batchParams struct {
	Async bool `form:"async"`
}

// registerBatchRoutes registers batch dispositions and the outstanding batch listing.
func registerBatchRoutes(rg *gin.RouterGroup, ss portssvc.StagingReaderSvc, as portssvc.ApprovalBatchSvc, queue portssvc.BatchDispositionQueue) {
	h := newBatchHandler(ss, as, queue)

	batch := rg.Group("/batch/:batch_id")
	{
		batch.POST("/approve-all", h.approveAll)
		batch.POST("/reject-all", h.rejectAll)
	}
	rg.GET("/batches/outstanding", h.listOutstanding)
}

// approveAll godoc
// @Summary Approve every pending record of a batch
// @Description Best effort: every record is attempted and reported. With async=true the run is queued for the worker.
// @Tags batches
// @Produce  json
// @Param   batch_id path string true "Upload batch id"
// @Param   async query bool false "Queue the run instead of waiting for it"
// @Success 200 {object} domain.BatchResult
// @Success 202 {object} dto.BatchEnqueuedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 503 {object} dto.ErrorResponse "No worker queue configured"
// @Security BearerAuth
// @Router /batch/{batch_id}/approve-all [post]
func (h *batchHandler) approveAll(c *gin.Context) {
	h.dispose(c, domain.ActionApproveAll, h.approvalService.ApproveAll)
}

// rejectAll godoc
// @Summary Reject every pending record of a batch
// @Description Best effort: every record is attempted and reported. With async=true the run is queued for the worker.
// @Tags batches
// @Produce  json
// @Param   batch_id path string true "Upload batch id"
// @Param   async query bool false "Queue the run instead of waiting for it"
// @Success 200 {object} domain.BatchResult
// @Success 202 {object} dto.BatchEnqueuedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 503 {object} dto.ErrorResponse "No worker queue configured"
// @Security BearerAuth
// @Router /batch/{batch_id}/reject-all [post]
func (h *batchHandler) rejectAll(c *gin.Context) {
	h.dispose(c, domain.ActionRejectAll, h.approvalService.RejectAll)
}

func (h *batchHandler) dispose(c *gin.Context, action domain.BatchAction,
	run func(ctx context.Context, batchID, userID string) (*domain.BatchResult, error)) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	var params batchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	batchID := c.Param("batch_id")

	if params.Async {
		if h.queue == nil {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Background processing is not configured", Code: "UNAVAILABLE"})
			return
		}
		enqueued, err := h.queue.EnqueueBatchDisposition(c.Request.Context(), action, batchID, userID)
		if err != nil {
			respondError(c, err, "Failed to enqueue batch disposition")
			return
		}
		c.JSON(http.StatusAccepted, enqueued)
		return
	}

	result, err := run(c.Request.Context(), batchID, userID)
	if err != nil {
		respondError(c, err, "Failed to process batch")
		return
	}
	c.JSON(http.StatusOK, result)
}

// listOutstanding godoc
// @Summary List batches with pending records
// @Tags batches
// @Produce  json
// @Success 200 {object} dto.OutstandingBatchesResponse
// @Failure 500 {object} dto.ErrorResponse "Failed to list outstanding batches"
// @Security BearerAuth
// @Router /batches/outstanding [get]
func (h *batchHandler) listOutstanding(c *gin.Context) {
	batches, err := h.stagingService.ListOutstandingBatches(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list outstanding batches")
		return
	}
	c.JSON(http.StatusOK, dto.OutstandingBatchesResponse{Batches: batches})
}
