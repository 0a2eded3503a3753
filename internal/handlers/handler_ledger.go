package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerReaderSvc
}

func newLedgerHandler(ls portssvc.LedgerReaderSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.LedgerReaderSvc) {
	h := newLedgerHandler(ls)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/entries", h.listEntries)
		ledger.GET("/holdings", h.listHoldings)
	}
}

// listEntries godoc
// @Summary List approved ledger entries
// @Description Pages through ledger entries in approval order
// @Tags ledger
// @Produce  json
// @Param   batch_id query string false "Only entries from this upload batch"
// @Param   limit query int false "Page size" default(50)
// @Param   next_token query string false "Token from the previous page"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Failed to list ledger entries"
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	entries, next, err := h.ledgerService.ListEntries(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListLedgerEntriesResponse{Entries: entries, NextToken: next})
}

// listHoldings godoc
// @Summary List current holdings
// @Tags ledger
// @Produce  json
// @Success 200 {object} dto.ListHoldingsResponse
// @Failure 500 {object} dto.ErrorResponse "Failed to list holdings"
// @Security BearerAuth
// @Router /ledger/holdings [get]
func (h *ledgerHandler) listHoldings(c *gin.Context) {
	holdings, err := h.ledgerService.ListHoldings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list holdings")
		return
	}
	c.JSON(http.StatusOK, dto.ListHoldingsResponse{Holdings: holdings})
}
