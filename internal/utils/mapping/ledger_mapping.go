package mapping

import (
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/SscSPs/statement_review_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:            d.EntryID,
		SourcePendingID:    d.SourcePendingID,
		SourceBatchID:      d.SourceBatchID,
		Kind:               string(d.Kind),
		TransactionType:    string(d.TransactionType),
		EntryDate:          d.EntryDate,
		EntryTime:          d.EntryTime,
		SecurityIdentifier: d.SecurityIdentifier,
		DisplayName:        d.DisplayName,
		Quantity:           toNullDecimal(d.Quantity),
		Price:              toNullDecimal(d.Price),
		Amount:             d.Amount,
		Commission:         d.Commission,
		Tax:                d.Tax,
		ExchangeRate:       toNullDecimal(d.ExchangeRate),
		CurrencyCode:       d.CurrencyCode,
		Notes:              d.Notes,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:            m.EntryID,
		SourcePendingID:    m.SourcePendingID,
		SourceBatchID:      m.SourceBatchID,
		Kind:               domain.LedgerKind(m.Kind),
		TransactionType:    domain.TransactionType(m.TransactionType),
		EntryDate:          m.EntryDate,
		EntryTime:          m.EntryTime,
		SecurityIdentifier: m.SecurityIdentifier,
		DisplayName:        m.DisplayName,
		Quantity:           fromNullDecimal(m.Quantity),
		Price:              fromNullDecimal(m.Price),
		Amount:             m.Amount,
		Commission:         m.Commission,
		Tax:                m.Tax,
		ExchangeRate:       fromNullDecimal(m.ExchangeRate),
		CurrencyCode:       m.CurrencyCode,
		Notes:              m.Notes,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntry to domain LedgerEntry
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLedgerEntry(m)
	}
	return out
}

// ToDomainHoldingSlice converts holding rows to domain holdings
func ToDomainHoldingSlice(ms []models.Holding) []domain.Holding {
	out := make([]domain.Holding, len(ms))
	for i, m := range ms {
		out[i] = domain.Holding{
			SecurityIdentifier: m.SecurityIdentifier,
			DisplayName:        m.DisplayName,
			CurrencyCode:       m.CurrencyCode,
			Quantity:           m.Quantity,
			NetInvested:        m.NetInvested,
			LastUpdatedAt:      m.LastUpdatedAt,
		}
	}
	return out
}

// ToModelReviewEvent converts a domain ReviewEvent to a model ReviewEvent
func ToModelReviewEvent(d domain.ReviewEvent) models.ReviewEvent {
	return models.ReviewEvent{
		EventID:   d.EventID,
		PendingID: d.PendingID,
		BatchID:   d.BatchID,
		Action:    string(d.Action),
		ActorID:   d.ActorID,
		Note:      d.Note,
		At:        d.At,
	}
}

// ToDomainReviewEventSlice converts event rows to domain events
func ToDomainReviewEventSlice(ms []models.ReviewEvent) []domain.ReviewEvent {
	out := make([]domain.ReviewEvent, len(ms))
	for i, m := range ms {
		out[i] = domain.ReviewEvent{
			EventID:   m.EventID,
			PendingID: m.PendingID,
			BatchID:   m.BatchID,
			Action:    domain.ReviewAction(m.Action),
			ActorID:   m.ActorID,
			Note:      m.Note,
			At:        m.At,
		}
	}
	return out
}
