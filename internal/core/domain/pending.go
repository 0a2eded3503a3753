package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PendingStatus is the review state of a staged transaction.
type PendingStatus string

const (
	StatusPending  PendingStatus = "pending"
	StatusApproved PendingStatus = "approved"
	StatusRejected PendingStatus = "rejected"
)

// IsValid reports whether s is a known status.
func (s PendingStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsTerminal is true once a record has been approved or rejected.
func (s PendingStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo only allows pending -> approved and pending -> rejected.
func (s PendingStatus) CanTransitionTo(next PendingStatus) bool {
	return s == StatusPending && next.IsTerminal()
}

// Editable field names, as reported in validation errors and accepted in PendingPatch.ClearFields.
const (
	FieldUploadBatchID      = "uploadBatchId"
	FieldTransactionDate    = "transactionDate"
	FieldTransactionTime    = "transactionTime"
	FieldSecurityIdentifier = "securityIdentifier"
	FieldDisplayName        = "displayName"
	FieldTransactionType    = "transactionType"
	FieldQuantity           = "quantity"
	FieldPrice              = "price"
	FieldAmount             = "amount"
	FieldCommission         = "commission"
	FieldTax                = "tax"
	FieldExchangeRate       = "exchangeRate"
	FieldCurrencyCode       = "currencyCode"
	FieldReviewNotes        = "reviewNotes"
)

// PendingTransaction is a candidate ledger entry extracted from a statement and awaiting review.
// Optional fields are nil when the extraction could not determine them.
type PendingTransaction struct {
	PendingID          string           `json:"pendingID"`
	UploadBatchID      string           `json:"uploadBatchID"`
	SourceDocumentName string           `json:"sourceDocumentName"`
	TransactionDate    *time.Time       `json:"transactionDate,omitempty"`
	TransactionTime    *string          `json:"transactionTime,omitempty"`
	SecurityIdentifier *string          `json:"securityIdentifier,omitempty"`
	DisplayName        *string          `json:"displayName,omitempty"`
	TransactionType    *TransactionType `json:"transactionType,omitempty"`
	Quantity           *decimal.Decimal `json:"quantity,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Commission         *decimal.Decimal `json:"commission,omitempty"`
	Tax                *decimal.Decimal `json:"tax,omitempty"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate,omitempty"`
	CurrencyCode       string           `json:"currencyCode"`
	Status             PendingStatus    `json:"status"`
	ReviewNotes        string           `json:"reviewNotes"`
	LedgerEntryID      *string          `json:"ledgerEntryID,omitempty"`
	AuditFields
}

// Validate checks that every populated field is inside its domain.
func (p *PendingTransaction) Validate() error {
	verr := &apperrors.ValidationError{}
	if strings.TrimSpace(p.UploadBatchID) == "" {
		verr.Add(FieldUploadBatchID, "is required")
	}
	if p.TransactionTime != nil && !validTimeOfDay(*p.TransactionTime) {
		verr.Add(FieldTransactionTime, "must be HH:MM or HH:MM:SS")
	}
	if p.TransactionType != nil && !p.TransactionType.IsValid() {
		verr.Add(FieldTransactionType, fmt.Sprintf("unknown transaction type %q", *p.TransactionType))
	}
	nonNegative := []struct {
		field string
		value *decimal.Decimal
	}{
		{FieldQuantity, p.Quantity},
		{FieldPrice, p.Price},
		{FieldAmount, p.Amount},
		{FieldCommission, p.Commission},
		{FieldTax, p.Tax},
	}
	for _, n := range nonNegative {
		if n.value != nil && n.value.IsNegative() {
			verr.Add(n.field, "must not be negative")
		}
	}
	if p.ExchangeRate != nil && !p.ExchangeRate.IsPositive() {
		verr.Add(FieldExchangeRate, "must be positive")
	}
	if p.CurrencyCode != "" && money.GetCurrency(p.CurrencyCode) == nil {
		verr.Add(FieldCurrencyCode, fmt.Sprintf("unknown currency %q", p.CurrencyCode))
	}
	if !p.Status.IsValid() {
		verr.Add("status", fmt.Sprintf("unknown status %q", p.Status))
	}
	return verr.OrNil()
}

// ReadyForLedger checks that the record carries everything the ledger needs for its type.
func (p *PendingTransaction) ReadyForLedger() error {
	if err := p.Validate(); err != nil {
		return err
	}
	verr := &apperrors.ValidationError{}
	if p.TransactionDate == nil {
		verr.Add(FieldTransactionDate, "is required before approval")
	}
	if p.CurrencyCode == "" {
		verr.Add(FieldCurrencyCode, "is required before approval")
	}
	if p.TransactionType == nil {
		verr.Add(FieldTransactionType, "is required before approval")
		return verr.OrNil()
	}
	switch *p.TransactionType {
	case Buy, Sell:
		if isBlank(p.SecurityIdentifier) {
			verr.Add(FieldSecurityIdentifier, "is required for trades")
		}
		if p.Quantity == nil || !p.Quantity.IsPositive() {
			verr.Add(FieldQuantity, "must be greater than zero for trades")
		}
		if p.Price == nil {
			verr.Add(FieldPrice, "is required for trades")
		}
	case Dividend:
		if isBlank(p.SecurityIdentifier) {
			verr.Add(FieldSecurityIdentifier, "is required for dividends")
		}
		if p.Amount == nil {
			verr.Add(FieldAmount, "is required for dividends")
		}
	case Deposit, Withdrawal:
		if p.Amount == nil || !p.Amount.IsPositive() {
			verr.Add(FieldAmount, "must be greater than zero")
		}
	}
	return verr.OrNil()
}

// ApplyPatch copies every set patch field onto the record, then nulls the fields named in ClearFields.
func (p *PendingTransaction) ApplyPatch(patch PendingPatch) error {
	if patch.TransactionDate != nil {
		d := *patch.TransactionDate
		p.TransactionDate = &d
	}
	p.TransactionTime = pickString(p.TransactionTime, patch.TransactionTime)
	p.SecurityIdentifier = pickString(p.SecurityIdentifier, patch.SecurityIdentifier)
	p.DisplayName = pickString(p.DisplayName, patch.DisplayName)
	if patch.TransactionType != nil {
		t := *patch.TransactionType
		p.TransactionType = &t
	}
	p.Quantity = pickDecimal(p.Quantity, patch.Quantity)
	p.Price = pickDecimal(p.Price, patch.Price)
	p.Amount = pickDecimal(p.Amount, patch.Amount)
	p.Commission = pickDecimal(p.Commission, patch.Commission)
	p.Tax = pickDecimal(p.Tax, patch.Tax)
	p.ExchangeRate = pickDecimal(p.ExchangeRate, patch.ExchangeRate)
	if patch.CurrencyCode != nil {
		p.CurrencyCode = strings.ToUpper(*patch.CurrencyCode)
	}
	if patch.ReviewNotes != nil {
		p.ReviewNotes = *patch.ReviewNotes
	}

	verr := &apperrors.ValidationError{}
	for _, field := range patch.ClearFields {
		switch field {
		case FieldTransactionDate:
			p.TransactionDate = nil
		case FieldTransactionTime:
			p.TransactionTime = nil
		case FieldSecurityIdentifier:
			p.SecurityIdentifier = nil
		case FieldDisplayName:
			p.DisplayName = nil
		case FieldTransactionType:
			p.TransactionType = nil
		case FieldQuantity:
			p.Quantity = nil
		case FieldPrice:
			p.Price = nil
		case FieldAmount:
			p.Amount = nil
		case FieldCommission:
			p.Commission = nil
		case FieldTax:
			p.Tax = nil
		case FieldExchangeRate:
			p.ExchangeRate = nil
		case FieldReviewNotes:
			p.ReviewNotes = ""
		default:
			verr.Add("clearFields", fmt.Sprintf("field %q cannot be cleared", field))
		}
	}
	return verr.OrNil()
}

// Clone returns a deep copy, so callers can mutate it without touching shared state.
func (p PendingTransaction) Clone() PendingTransaction {
	c := p
	if p.TransactionDate != nil {
		d := *p.TransactionDate
		c.TransactionDate = &d
	}
	c.TransactionTime = copyString(p.TransactionTime)
	c.SecurityIdentifier = copyString(p.SecurityIdentifier)
	c.DisplayName = copyString(p.DisplayName)
	c.LedgerEntryID = copyString(p.LedgerEntryID)
	if p.TransactionType != nil {
		t := *p.TransactionType
		c.TransactionType = &t
	}
	c.Quantity = copyDecimal(p.Quantity)
	c.Price = copyDecimal(p.Price)
	c.Amount = copyDecimal(p.Amount)
	c.Commission = copyDecimal(p.Commission)
	c.Tax = copyDecimal(p.Tax)
	c.ExchangeRate = copyDecimal(p.ExchangeRate)
	return c
}

// PendingPatch is a reviewer edit. A nil field means "not edited".
type PendingPatch struct {
	TransactionDate    *time.Time
	TransactionTime    *string
	SecurityIdentifier *string
	DisplayName        *string
	TransactionType    *TransactionType
	Quantity           *decimal.Decimal
	Price              *decimal.Decimal
	Amount             *decimal.Decimal
	Commission         *decimal.Decimal
	Tax                *decimal.Decimal
	ExchangeRate       *decimal.Decimal
	CurrencyCode       *string
	ReviewNotes        *string
	ClearFields        []string
}

// IsEmpty is true when the patch would not change anything.
func (p PendingPatch) IsEmpty() bool {
	return p.TransactionDate == nil && p.TransactionTime == nil && p.SecurityIdentifier == nil &&
		p.DisplayName == nil && p.TransactionType == nil && p.Quantity == nil && p.Price == nil &&
		p.Amount == nil && p.Commission == nil && p.Tax == nil && p.ExchangeRate == nil &&
		p.CurrencyCode == nil && p.ReviewNotes == nil && len(p.ClearFields) == 0
}

// PendingFilter selects staged records. Both fields are optional.
type PendingFilter struct {
	BatchID *string
	Status  *PendingStatus
}

// EffectiveStatus defaults an unset status to pending, so terminal records never leak into default queries.
func (f PendingFilter) EffectiveStatus() PendingStatus {
	if f.Status == nil {
		return StatusPending
	}
	return *f.Status
}

// BatchFilter is a shortcut for the pending records of one batch.
func BatchFilter(batchID string) PendingFilter {
	status := StatusPending
	return PendingFilter{BatchID: &batchID, Status: &status}
}

// TransitionRequest moves a pending record into a terminal status.
type TransitionRequest struct {
	PendingID     string
	To            PendingStatus
	ActorID       string
	LedgerEntryID *string
	At            time.Time
}

// BatchSummary reports how many records of a batch are still pending.
type BatchSummary struct {
	BatchID       string    `json:"batchId"`
	PendingCount  int       `json:"pendingCount"`
	FirstStagedAt time.Time `json:"firstStagedAt"`
}

func validTimeOfDay(s string) bool {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func pickString(current, patch *string) *string {
	if patch == nil {
		return current
	}
	v := *patch
	return &v
}

func pickDecimal(current, patch *decimal.Decimal) *decimal.Decimal {
	if patch == nil {
		return current
	}
	v := *patch
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
