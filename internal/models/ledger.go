package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a row of ledger_entries.
type LedgerEntry struct {
	EntryID            string              `db:"entry_id"`
	SourcePendingID    string              `db:"source_pending_id"`
	SourceBatchID      string              `db:"source_batch_id"`
	Kind               string              `db:"kind"`
	TransactionType    string              `db:"transaction_type"`
	EntryDate          time.Time           `db:"entry_date"`
	EntryTime          *string             `db:"entry_time"`
	SecurityIdentifier *string             `db:"security_identifier"`
	DisplayName        *string             `db:"display_name"`
	Quantity           decimal.NullDecimal `db:"quantity"`
	Price              decimal.NullDecimal `db:"price"`
	Amount             decimal.Decimal     `db:"amount"`
	Commission         decimal.Decimal     `db:"commission"`
	Tax                decimal.Decimal     `db:"tax"`
	ExchangeRate       decimal.NullDecimal `db:"exchange_rate"`
	CurrencyCode       string              `db:"currency_code"`
	Notes              string              `db:"notes"`
	AuditFields
}

// Holding is a row of ledger_holdings.
type Holding struct {
	SecurityIdentifier string          `db:"security_identifier"`
	CurrencyCode       string          `db:"currency_code"`
	DisplayName        string          `db:"display_name"`
	Quantity           decimal.Decimal `db:"quantity"`
	NetInvested        decimal.Decimal `db:"net_invested"`
	LastUpdatedAt      time.Time       `db:"last_updated_at"`
}

// ReviewEvent is a row of review_events.
type ReviewEvent struct {
	EventID   string    `db:"event_id"`
	PendingID string    `db:"pending_id"`
	BatchID   string    `db:"batch_id"`
	Action    string    `db:"action"`
	ActorID   string    `db:"actor_id"`
	Note      string    `db:"note"`
	At        time.Time `db:"at"`
}
