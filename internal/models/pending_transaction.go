package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingTransaction is a row of pending_transactions.
type PendingTransaction struct {
	PendingID          string              `db:"pending_id"`
	UploadBatchID      string              `db:"upload_batch_id"`
	SourceDocumentName string              `db:"source_document_name"`
	TransactionDate    *time.Time          `db:"transaction_date"`
	TransactionTime    *string             `db:"transaction_time"`
	SecurityIdentifier *string             `db:"security_identifier"`
	DisplayName        *string             `db:"display_name"`
	TransactionType    *string             `db:"transaction_type"`
	Quantity           decimal.NullDecimal `db:"quantity"`
	Price              decimal.NullDecimal `db:"price"`
	Amount             decimal.NullDecimal `db:"amount"`
	Commission         decimal.NullDecimal `db:"commission"`
	Tax                decimal.NullDecimal `db:"tax"`
	ExchangeRate       decimal.NullDecimal `db:"exchange_rate"`
	CurrencyCode       string              `db:"currency_code"`
	Status             string              `db:"status"`
	ReviewNotes        string              `db:"review_notes"`
	LedgerEntryID      *string             `db:"ledger_entry_id"`
	AuditFields
}

// BatchSummary is a row of the outstanding-batches aggregate.
type BatchSummary struct {
	BatchID       string    `db:"upload_batch_id"`
	PendingCount  int       `db:"pending_count"`
	FirstStagedAt time.Time `db:"first_staged_at"`
}
