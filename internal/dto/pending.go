package dto

import (
	"strings"
	"time"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of transaction dates.
const DateLayout = "2006-01-02"

// PendingTransactionResponse defines the data returned for a staged transaction.
type PendingTransactionResponse struct {
	PendingID          string           `json:"id"`
	UploadBatchID      string           `json:"uploadBatchId"`
	SourceDocumentName string           `json:"sourceDocumentName"`
	TransactionDate    *string          `json:"transactionDate"`
	TransactionTime    *string          `json:"transactionTime"`
	SecurityIdentifier *string          `json:"securityIdentifier"`
	DisplayName        *string          `json:"displayName"`
	TransactionType    *string          `json:"transactionType"`
	Quantity           *decimal.Decimal `json:"quantity"`
	Price              *decimal.Decimal `json:"price"`
	Amount             *decimal.Decimal `json:"amount"`
	Commission         *decimal.Decimal `json:"commission"`
	Tax                *decimal.Decimal `json:"tax"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate"`
	CurrencyCode       string           `json:"currencyCode"`
	Status             string           `json:"status"`
	ReviewNotes        string           `json:"reviewNotes"`
	LedgerEntryID      *string          `json:"ledgerEntryId,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	CreatedBy          string           `json:"createdBy"`
	LastUpdatedAt      time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy      string           `json:"lastUpdatedBy"`
}

// ToPendingTransactionResponse converts a domain.PendingTransaction to its response DTO.
func ToPendingTransactionResponse(p *domain.PendingTransaction) PendingTransactionResponse {
	c := p.Clone()
	res := PendingTransactionResponse{
		PendingID:          c.PendingID,
		UploadBatchID:      c.UploadBatchID,
		SourceDocumentName: c.SourceDocumentName,
		TransactionTime:    c.TransactionTime,
		SecurityIdentifier: c.SecurityIdentifier,
		DisplayName:        c.DisplayName,
		Quantity:           c.Quantity,
		Price:              c.Price,
		Amount:             c.Amount,
		Commission:         c.Commission,
		Tax:                c.Tax,
		ExchangeRate:       c.ExchangeRate,
		CurrencyCode:       c.CurrencyCode,
		Status:             string(c.Status),
		ReviewNotes:        c.ReviewNotes,
		LedgerEntryID:      c.LedgerEntryID,
		CreatedAt:          c.CreatedAt,
		CreatedBy:          c.CreatedBy,
		LastUpdatedAt:      c.LastUpdatedAt,
		LastUpdatedBy:      c.LastUpdatedBy,
	}
	if c.TransactionDate != nil {
		d := c.TransactionDate.Format(DateLayout)
		res.TransactionDate = &d
	}
	if c.TransactionType != nil {
		t := string(*c.TransactionType)
		res.TransactionType = &t
	}
	return res
}

// ToPendingTransactionResponses converts a slice of domain.PendingTransaction.
func ToPendingTransactionResponses(records []domain.PendingTransaction) []PendingTransactionResponse {
	res := make([]PendingTransactionResponse, len(records))
	for i := range records {
		res[i] = ToPendingTransactionResponse(&records[i])
	}
	return res
}

// ToDomain converts the response back into a domain record. Used by API clients.
func (r PendingTransactionResponse) ToDomain() (domain.PendingTransaction, error) {
	p := domain.PendingTransaction{
		PendingID:          r.PendingID,
		UploadBatchID:      r.UploadBatchID,
		SourceDocumentName: r.SourceDocumentName,
		TransactionTime:    r.TransactionTime,
		SecurityIdentifier: r.SecurityIdentifier,
		DisplayName:        r.DisplayName,
		Quantity:           r.Quantity,
		Price:              r.Price,
		Amount:             r.Amount,
		Commission:         r.Commission,
		Tax:                r.Tax,
		ExchangeRate:       r.ExchangeRate,
		CurrencyCode:       r.CurrencyCode,
		Status:             domain.PendingStatus(r.Status),
		ReviewNotes:        r.ReviewNotes,
		LedgerEntryID:      r.LedgerEntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     r.CreatedAt,
			CreatedBy:     r.CreatedBy,
			LastUpdatedAt: r.LastUpdatedAt,
			LastUpdatedBy: r.LastUpdatedBy,
		},
	}
	if r.TransactionDate != nil {
		d, err := time.Parse(DateLayout, *r.TransactionDate)
		if err != nil {
			return p, apperrors.NewValidationError(domain.FieldTransactionDate, "must be YYYY-MM-DD")
		}
		p.TransactionDate = &d
	}
	if r.TransactionType != nil {
		t := domain.TransactionType(*r.TransactionType)
		p.TransactionType = &t
	}
	return p, nil
}

// ListPendingParams defines query parameters for listing staged transactions.
type ListPendingParams struct {
	BatchID string `form:"batch_id" binding:"omitempty,max=64"`
	Status  string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListPendingParams) ToFilter() domain.PendingFilter {
	var f domain.PendingFilter
	if p.BatchID != "" {
		b := p.BatchID
		f.BatchID = &b
	}
	if p.Status != "" {
		s := domain.PendingStatus(p.Status)
		f.Status = &s
	}
	return f
}

// ListPendingResponse wraps a list of staged transactions.
type ListPendingResponse struct {
	Transactions []PendingTransactionResponse `json:"transactions"`
	Count        int                          `json:"count"`
}

// CountResponse carries the result of a count query.
type CountResponse struct {
	Count int `json:"count"`
}

// UpdatePendingRequest carries reviewer edits. Omitted fields are left unchanged;
// ClearFields lists optional fields to null out.
type UpdatePendingRequest struct {
	TransactionDate    *string          `json:"transactionDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	TransactionTime    *string          `json:"transactionTime,omitempty" binding:"omitempty,max=8"`
	SecurityIdentifier *string          `json:"securityIdentifier,omitempty" binding:"omitempty,min=1,max=64"`
	DisplayName        *string          `json:"displayName,omitempty" binding:"omitempty,max=255"`
	TransactionType    *string          `json:"transactionType,omitempty" binding:"omitempty,oneof=BUY SELL DIVIDEND DEPOSIT WITHDRAWAL"`
	Quantity           *decimal.Decimal `json:"quantity,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Commission         *decimal.Decimal `json:"commission,omitempty"`
	Tax                *decimal.Decimal `json:"tax,omitempty"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate,omitempty"`
	CurrencyCode       *string          `json:"currencyCode,omitempty" binding:"omitempty,len=3,alpha"`
	ReviewNotes        *string          `json:"reviewNotes,omitempty" binding:"omitempty,max=2000"`
	ClearFields        []string         `json:"clearFields,omitempty" binding:"omitempty,dive,required"`
}

// IsEmpty reports whether the request edits nothing.
func (r UpdatePendingRequest) IsEmpty() bool {
	return r.TransactionDate == nil && r.TransactionTime == nil && r.SecurityIdentifier == nil &&
		r.DisplayName == nil && r.TransactionType == nil && r.Quantity == nil && r.Price == nil &&
		r.Amount == nil && r.Commission == nil && r.Tax == nil && r.ExchangeRate == nil &&
		r.CurrencyCode == nil && r.ReviewNotes == nil && len(r.ClearFields) == 0
}

// Merge layers next on top of r. Fields set in next win; cleared fields accumulate.
func (r UpdatePendingRequest) Merge(next UpdatePendingRequest) UpdatePendingRequest {
	out := r
	if next.TransactionDate != nil {
		out.TransactionDate = next.TransactionDate
	}
	if next.TransactionTime != nil {
		out.TransactionTime = next.TransactionTime
	}
	if next.SecurityIdentifier != nil {
		out.SecurityIdentifier = next.SecurityIdentifier
	}
	if next.DisplayName != nil {
		out.DisplayName = next.DisplayName
	}
	if next.TransactionType != nil {
		out.TransactionType = next.TransactionType
	}
	if next.Quantity != nil {
		out.Quantity = next.Quantity
	}
	if next.Price != nil {
		out.Price = next.Price
	}
	if next.Amount != nil {
		out.Amount = next.Amount
	}
	if next.Commission != nil {
		out.Commission = next.Commission
	}
	if next.Tax != nil {
		out.Tax = next.Tax
	}
	if next.ExchangeRate != nil {
		out.ExchangeRate = next.ExchangeRate
	}
	if next.CurrencyCode != nil {
		out.CurrencyCode = next.CurrencyCode
	}
	if next.ReviewNotes != nil {
		out.ReviewNotes = next.ReviewNotes
	}
	if len(next.ClearFields) > 0 {
		out.ClearFields = append(append([]string{}, r.ClearFields...), next.ClearFields...)
	}
	return out
}

// ToPatch converts the request into a domain patch.
func (r UpdatePendingRequest) ToPatch() (domain.PendingPatch, error) {
	patch := domain.PendingPatch{
		TransactionTime:    r.TransactionTime,
		SecurityIdentifier: r.SecurityIdentifier,
		DisplayName:        r.DisplayName,
		Quantity:           r.Quantity,
		Price:              r.Price,
		Amount:             r.Amount,
		Commission:         r.Commission,
		Tax:                r.Tax,
		ExchangeRate:       r.ExchangeRate,
		ReviewNotes:        r.ReviewNotes,
		ClearFields:        r.ClearFields,
	}
	if r.TransactionDate != nil {
		d, err := time.Parse(DateLayout, *r.TransactionDate)
		if err != nil {
			return patch, apperrors.NewValidationError(domain.FieldTransactionDate, "must be YYYY-MM-DD")
		}
		patch.TransactionDate = &d
	}
	if r.TransactionType != nil {
		t := domain.TransactionType(strings.ToUpper(*r.TransactionType))
		patch.TransactionType = &t
	}
	if r.CurrencyCode != nil {
		c := strings.ToUpper(*r.CurrencyCode)
		patch.CurrencyCode = &c
	}
	return patch, nil
}

// ReviewEventsResponse wraps the audit trail of a staged transaction.
type ReviewEventsResponse struct {
	Events []domain.ReviewEvent `json:"events"`
}

// OutstandingBatchesResponse lists batches that still have pending records.
type OutstandingBatchesResponse struct {
	Batches []domain.BatchSummary `json:"batches"`
}
