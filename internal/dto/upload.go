package dto

import (
	"strings"
	"time"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CandidateTransaction is one transaction as produced by the extraction service.
// Every field except the document-level ones may be missing.
type CandidateTransaction struct {
	TransactionDate    *string          `json:"transactionDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	TransactionTime    *string          `json:"transactionTime,omitempty" binding:"omitempty,max=8"`
	SecurityIdentifier *string          `json:"securityIdentifier,omitempty" binding:"omitempty,max=64"`
	DisplayName        *string          `json:"displayName,omitempty" binding:"omitempty,max=255"`
	TransactionType    *string          `json:"transactionType,omitempty" binding:"omitempty,oneof=BUY SELL DIVIDEND DEPOSIT WITHDRAWAL buy sell dividend deposit withdrawal"`
	Quantity           *decimal.Decimal `json:"quantity,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Commission         *decimal.Decimal `json:"commission,omitempty"`
	Tax                *decimal.Decimal `json:"tax,omitempty"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate,omitempty"`
	CurrencyCode       string           `json:"currencyCode" binding:"omitempty,len=3,alpha"`
	Notes              string           `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// ToPending builds the staged record for this candidate. Ids and audit fields are set by the caller.
func (c CandidateTransaction) ToPending() (domain.PendingTransaction, error) {
	p := domain.PendingTransaction{
		TransactionTime:    c.TransactionTime,
		SecurityIdentifier: c.SecurityIdentifier,
		DisplayName:        c.DisplayName,
		Quantity:           c.Quantity,
		Price:              c.Price,
		Amount:             c.Amount,
		Commission:         c.Commission,
		Tax:                c.Tax,
		ExchangeRate:       c.ExchangeRate,
		CurrencyCode:       strings.ToUpper(c.CurrencyCode),
		Status:             domain.StatusPending,
		ReviewNotes:        c.Notes,
	}
	if c.TransactionDate != nil {
		d, err := time.Parse(DateLayout, *c.TransactionDate)
		if err != nil {
			return p, apperrors.NewValidationError(domain.FieldTransactionDate, "must be YYYY-MM-DD")
		}
		p.TransactionDate = &d
	}
	if c.TransactionType != nil {
		t := domain.TransactionType(strings.ToUpper(*c.TransactionType))
		p.TransactionType = &t
	}
	return p, nil
}

// UploadDocument is the extraction output for one statement.
type UploadDocument struct {
	SourceDocumentName string                 `json:"sourceDocumentName" binding:"required,max=255"`
	BatchID            *string                `json:"batchId,omitempty" binding:"omitempty,min=1,max=64"`
	Transactions       []CandidateTransaction `json:"transactions" binding:"omitempty,dive"`
}

// UploadRequest accepts either a single document inline or several under "documents".
type UploadRequest struct {
	SourceDocumentName string                 `json:"sourceDocumentName,omitempty" binding:"required_without=Documents,max=255"`
	BatchID            *string                `json:"batchId,omitempty" binding:"omitempty,min=1,max=64"`
	Transactions       []CandidateTransaction `json:"transactions,omitempty" binding:"omitempty,dive"`
	Documents          []UploadDocument       `json:"documents,omitempty" binding:"omitempty,dive"`
}

// AllDocuments flattens the request into its list of documents.
func (r UploadRequest) AllDocuments() []UploadDocument {
	docs := make([]UploadDocument, 0, len(r.Documents)+1)
	if r.SourceDocumentName != "" {
		docs = append(docs, UploadDocument{
			SourceDocumentName: r.SourceDocumentName,
			BatchID:            r.BatchID,
			Transactions:       r.Transactions,
		})
	}
	return append(docs, r.Documents...)
}

// UploadResponse reports the batches created by an upload.
// Only batches that received at least one pending record are listed.
type UploadResponse struct {
	BatchIDs     []string `json:"batchIds"`
	PendingCount int      `json:"pendingCount"`
}
