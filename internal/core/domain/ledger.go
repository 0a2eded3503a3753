package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a confirmed record in the permanent ledger.
// SourcePendingID is unique: one approved pending record yields exactly one entry.
type LedgerEntry struct {
	EntryID            string           `json:"entryID"`
	SourcePendingID    string           `json:"sourcePendingID"`
	SourceBatchID      string           `json:"sourceBatchID"`
	Kind               LedgerKind       `json:"kind"`
	TransactionType    TransactionType  `json:"transactionType"`
	EntryDate          time.Time        `json:"entryDate"`
	EntryTime          *string          `json:"entryTime,omitempty"`
	SecurityIdentifier *string          `json:"securityIdentifier,omitempty"`
	DisplayName        *string          `json:"displayName,omitempty"`
	Quantity           *decimal.Decimal `json:"quantity,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	Amount             decimal.Decimal  `json:"amount"`
	Commission         decimal.Decimal  `json:"commission"`
	Tax                decimal.Decimal  `json:"tax"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate,omitempty"`
	CurrencyCode       string           `json:"currencyCode"`
	Notes              string           `json:"notes"`
	AuditFields
}

// NewLedgerEntryFromPending maps a reviewed pending record onto a ledger entry.
// The caller must have checked ReadyForLedger first.
func NewLedgerEntryFromPending(entryID string, p PendingTransaction, approverID string, now time.Time) LedgerEntry {
	src := p.Clone()
	txType := *src.TransactionType
	entry := LedgerEntry{
		EntryID:            entryID,
		SourcePendingID:    src.PendingID,
		SourceBatchID:      src.UploadBatchID,
		Kind:               KindFor(txType),
		TransactionType:    txType,
		EntryDate:          *src.TransactionDate,
		EntryTime:          src.TransactionTime,
		SecurityIdentifier: src.SecurityIdentifier,
		DisplayName:        src.DisplayName,
		Quantity:           src.Quantity,
		Price:              src.Price,
		ExchangeRate:       src.ExchangeRate,
		CurrencyCode:       src.CurrencyCode,
		Notes:              src.ReviewNotes,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     approverID,
			LastUpdatedAt: now,
			LastUpdatedBy: approverID,
		},
	}
	switch {
	case src.Amount != nil:
		entry.Amount = *src.Amount
	case txType.IsTrade() && src.Quantity != nil && src.Price != nil:
		entry.Amount = src.Quantity.Mul(*src.Price)
	}
	if src.Commission != nil {
		entry.Commission = *src.Commission
	}
	if src.Tax != nil {
		entry.Tax = *src.Tax
	}
	return entry
}

// Holding is the running position in one security and currency, maintained from TRADE entries.
type Holding struct {
	SecurityIdentifier string          `json:"securityIdentifier"`
	DisplayName        string          `json:"displayName"`
	CurrencyCode       string          `json:"currencyCode"`
	Quantity           decimal.Decimal `json:"quantity"`
	NetInvested        decimal.Decimal `json:"netInvested"`
	LastUpdatedAt      time.Time       `json:"lastUpdatedAt"`
}

// HoldingDelta returns the change a trade entry makes to its holding. ok is false for non-trades.
func HoldingDelta(e LedgerEntry) (qty, invested decimal.Decimal, ok bool) {
	if e.Kind != KindTrade || e.SecurityIdentifier == nil || e.Quantity == nil {
		return decimal.Zero, decimal.Zero, false
	}
	qty = *e.Quantity
	invested = e.Amount.Add(e.Commission)
	if e.TransactionType == Sell {
		qty = qty.Neg()
		invested = e.Amount.Sub(e.Commission).Neg()
	}
	return qty, invested, true
}

// Apply adds a trade to the holding.
func (h *Holding) Apply(e LedgerEntry) {
	qty, invested, ok := HoldingDelta(e)
	if !ok {
		return
	}
	h.Quantity = h.Quantity.Add(qty)
	h.NetInvested = h.NetInvested.Add(invested)
	if e.DisplayName != nil && *e.DisplayName != "" {
		h.DisplayName = *e.DisplayName
	}
	h.LastUpdatedAt = e.CreatedAt
}

// Revert undoes Apply.
func (h *Holding) Revert(e LedgerEntry) {
	qty, invested, ok := HoldingDelta(e)
	if !ok {
		return
	}
	h.Quantity = h.Quantity.Sub(qty)
	h.NetInvested = h.NetInvested.Sub(invested)
}

// LedgerFilter pages through ledger entries, optionally limited to one source batch.
type LedgerFilter struct {
	BatchID   *string
	Limit     int
	NextToken *string
}
