package mapping

import (
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/SscSPs/statement_review_app/internal/models"
)

// ToModelPendingTransaction converts a domain PendingTransaction to a model PendingTransaction
func ToModelPendingTransaction(d domain.PendingTransaction) models.PendingTransaction {
	m := models.PendingTransaction{
		PendingID:          d.PendingID,
		UploadBatchID:      d.UploadBatchID,
		SourceDocumentName: d.SourceDocumentName,
		TransactionDate:    d.TransactionDate,
		TransactionTime:    d.TransactionTime,
		SecurityIdentifier: d.SecurityIdentifier,
		DisplayName:        d.DisplayName,
		Quantity:           toNullDecimal(d.Quantity),
		Price:              toNullDecimal(d.Price),
		Amount:             toNullDecimal(d.Amount),
		Commission:         toNullDecimal(d.Commission),
		Tax:                toNullDecimal(d.Tax),
		ExchangeRate:       toNullDecimal(d.ExchangeRate),
		CurrencyCode:       d.CurrencyCode,
		Status:             string(d.Status),
		ReviewNotes:        d.ReviewNotes,
		LedgerEntryID:      d.LedgerEntryID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	if d.TransactionType != nil {
		t := string(*d.TransactionType)
		m.TransactionType = &t
	}
	return m
}

// ToDomainPendingTransaction converts a model PendingTransaction to a domain PendingTransaction
func ToDomainPendingTransaction(m models.PendingTransaction) domain.PendingTransaction {
	d := domain.PendingTransaction{
		PendingID:          m.PendingID,
		UploadBatchID:      m.UploadBatchID,
		SourceDocumentName: m.SourceDocumentName,
		TransactionDate:    m.TransactionDate,
		TransactionTime:    m.TransactionTime,
		SecurityIdentifier: m.SecurityIdentifier,
		DisplayName:        m.DisplayName,
		Quantity:           fromNullDecimal(m.Quantity),
		Price:              fromNullDecimal(m.Price),
		Amount:             fromNullDecimal(m.Amount),
		Commission:         fromNullDecimal(m.Commission),
		Tax:                fromNullDecimal(m.Tax),
		ExchangeRate:       fromNullDecimal(m.ExchangeRate),
		CurrencyCode:       m.CurrencyCode,
		Status:             domain.PendingStatus(m.Status),
		ReviewNotes:        m.ReviewNotes,
		LedgerEntryID:      m.LedgerEntryID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
	if m.TransactionType != nil {
		t := domain.TransactionType(*m.TransactionType)
		d.TransactionType = &t
	}
	return d
}

// ToDomainPendingTransactionSlice converts a slice of model PendingTransaction to domain PendingTransaction
func ToDomainPendingTransactionSlice(ms []models.PendingTransaction) []domain.PendingTransaction {
	out := make([]domain.PendingTransaction, len(ms))
	for i, m := range ms {
		out[i] = ToDomainPendingTransaction(m)
	}
	return out
}

// ToDomainBatchSummarySlice converts aggregate rows to domain summaries
func ToDomainBatchSummarySlice(ms []models.BatchSummary) []domain.BatchSummary {
	out := make([]domain.BatchSummary, len(ms))
	for i, m := range ms {
		out[i] = domain.BatchSummary{BatchID: m.BatchID, PendingCount: m.PendingCount, FirstStagedAt: m.FirstStagedAt}
	}
	return out
}
