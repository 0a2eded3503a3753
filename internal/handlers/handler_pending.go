package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/SscSPs/statement_review_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// pendingHandler handles HTTP requests for staged transactions.
type pendingHandler struct {
	stagingService  portssvc.StagingSvcFacade
	approvalService portssvc.ApprovalItemSvc
}

func newPendingHandler(ss portssvc.StagingSvcFacade, as portssvc.ApprovalItemSvc) *pendingHandler {
	return &pendingHandler{
		stagingService:  ss,
		approvalService: as,
	}
}

// registerPendingRoutes registers upload and per-record review routes.
func registerPendingRoutes(rg *gin.RouterGroup, ss portssvc.StagingSvcFacade, as portssvc.ApprovalItemSvc) {
	h := newPendingHandler(ss, as)

	rg.POST("/upload", h.upload)

	pending := rg.Group("/pending")
	{
		pending.GET("", h.listPending)
		pending.GET("/count", h.countPending)
		pending.GET("/:id", h.getPending)
		pending.PUT("/:id", h.updatePending)
		pending.POST("/:id/approve", h.approvePending)
		pending.POST("/:id/reject", h.rejectPending)
		pending.GET("/:id/events", h.listEvents)
	}
}

// upload godoc
// @Summary Stage extracted transactions
// @Description Stages the extraction output of one or more statements as pending transactions, one batch per document
// @Tags pending
// @Accept  json
// @Produce  json
// @Param   upload body dto.UploadRequest true "Extraction output"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to stage upload"
// @Security BearerAuth
// @Router /upload [post]
func (h *pendingHandler) upload(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	var req dto.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.stagingService.StageUpload(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to stage upload")
		return
	}
	c.JSON(http.StatusCreated, res)
}

// listPending godoc
// @Summary List staged transactions
// @Description Lists staged transactions in extraction order. Without a status only pending records are returned.
// @Tags pending
// @Produce  json
// @Param   batch_id query string false "Upload batch id"
// @Param   status query string false "pending, approved or rejected" Enums(pending, approved, rejected)
// @Success 200 {object} dto.ListPendingResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Failed to list pending transactions"
// @Security BearerAuth
// @Router /pending [get]
func (h *pendingHandler) listPending(c *gin.Context) {
	var params dto.ListPendingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	records, err := h.stagingService.QueryPending(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list pending transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListPendingResponse{
		Transactions: dto.ToPendingTransactionResponses(records),
		Count:        len(records),
	})
}

// countPending godoc
// @Summary Count staged transactions
// @Description Counts staged transactions; used by clients as the backstop when no batch is tracked locally
// @Tags pending
// @Produce  json
// @Param   batch_id query string false "Upload batch id"
// @Param   status query string false "pending, approved or rejected" Enums(pending, approved, rejected)
// @Success 200 {object} dto.CountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Failed to count pending transactions"
// @Security BearerAuth
// @Router /pending/count [get]
func (h *pendingHandler) countPending(c *gin.Context) {
	var params dto.ListPendingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	count, err := h.stagingService.CountPending(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to count pending transactions")
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// getPending godoc
// @Summary Get a staged transaction
// @Tags pending
// @Produce  json
// @Param   id path string true "Pending transaction id"
// @Success 200 {object} dto.PendingTransactionResponse
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /pending/{id} [get]
func (h *pendingHandler) getPending(c *gin.Context) {
	record, err := h.stagingService.GetPending(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get pending transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToPendingTransactionResponse(record))
}

// updatePending godoc
// @Summary Edit a staged transaction
// @Description Applies reviewer edits to a pending record. Nothing is saved unless every field validates.
// @Tags pending
// @Accept  json
// @Produce  json
// @Param   id path string true "Pending transaction id"
// @Param   edit body dto.UpdatePendingRequest true "Fields to change"
// @Success 200 {object} dto.PendingTransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Failure 409 {object} dto.ErrorResponse "Record is no longer pending"
// @Security BearerAuth
// @Router /pending/{id} [put]
func (h *pendingHandler) updatePending(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	var req dto.UpdatePendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.approvalService.Edit(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update pending transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToPendingTransactionResponse(updated))
}

// approvePending godoc
// @Summary Approve a staged transaction
// @Description Writes the record to the ledger, then marks it approved. A record missing fields the ledger
// @Description needs is refused with 400 and the missing fields; complete it with PUT /pending/{id} first.
// @Tags pending
// @Produce  json
// @Param   id path string true "Pending transaction id"
// @Success 200 {object} dto.PendingTransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Record is incomplete, edit it before approving"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Failure 409 {object} dto.ErrorResponse "Record is no longer pending"
// @Failure 502 {object} dto.ErrorResponse "Ledger rejected the entry"
// @Security BearerAuth
// @Router /pending/{id}/approve [post]
func (h *pendingHandler) approvePending(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	id := c.Param("id")

	approved, err := h.approvalService.Approve(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to approve pending transaction")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Pending transaction approved via API", slog.String("pending_id", id))
	c.JSON(http.StatusOK, dto.ToPendingTransactionResponse(approved))
}

// rejectPending godoc
// @Summary Reject a staged transaction
// @Tags pending
// @Produce  json
// @Param   id path string true "Pending transaction id"
// @Success 200 {object} dto.PendingTransactionResponse
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Failure 409 {object} dto.ErrorResponse "Record is no longer pending"
// @Security BearerAuth
// @Router /pending/{id}/reject [post]
func (h *pendingHandler) rejectPending(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	rejected, err := h.approvalService.Reject(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to reject pending transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToPendingTransactionResponse(rejected))
}

// listEvents godoc
// @Summary Review history of a staged transaction
// @Tags pending
// @Produce  json
// @Param   id path string true "Pending transaction id"
// @Success 200 {object} dto.ReviewEventsResponse
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /pending/{id}/events [get]
func (h *pendingHandler) listEvents(c *gin.Context) {
	events, err := h.stagingService.ListReviewEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list review events")
		return
	}
	c.JSON(http.StatusOK, dto.ReviewEventsResponse{Events: events})
}
