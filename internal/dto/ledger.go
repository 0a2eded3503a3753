package dto

import "github.com/SscSPs/statement_review_app/internal/core/domain"

// ListLedgerEntriesParams defines query parameters for paging ledger entries.
type ListLedgerEntriesParams struct {
	BatchID   string `form:"batch_id" binding:"omitempty,max=64"`
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken string `form:"next_token"`
}

// ToFilter converts the parameters into a domain filter.
func (p ListLedgerEntriesParams) ToFilter() domain.LedgerFilter {
	f := domain.LedgerFilter{Limit: p.Limit}
	if p.BatchID != "" {
		b := p.BatchID
		f.BatchID = &b
	}
	if p.NextToken != "" {
		t := p.NextToken
		f.NextToken = &t
	}
	return f
}

// ListLedgerEntriesResponse wraps a page of ledger entries.
type ListLedgerEntriesResponse struct {
	Entries   []domain.LedgerEntry `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// ListHoldingsResponse wraps the current positions.
type ListHoldingsResponse struct {
	Holdings []domain.Holding `json:"holdings"`
}
