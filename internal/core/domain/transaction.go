package domain

// TransactionType is the closed set of statement line kinds a reviewer can confirm.
type TransactionType string

const (
	Buy        TransactionType = "BUY"
	Sell       TransactionType = "SELL"
	Dividend   TransactionType = "DIVIDEND"
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// TransactionTypes lists every valid TransactionType.
var TransactionTypes = []TransactionType{Buy, Sell, Dividend, Deposit, Withdrawal}

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Buy, Sell, Dividend, Deposit, Withdrawal:
		return true
	}
	return false
}

// IsTrade is true for BUY and SELL.
func (t TransactionType) IsTrade() bool {
	return t == Buy || t == Sell
}

// LedgerKind groups ledger entries by the permanent store they belong to.
type LedgerKind string

const (
	KindTrade    LedgerKind = "TRADE"
	KindDividend LedgerKind = "DIVIDEND"
	KindCash     LedgerKind = "CASH"
)

// KindFor maps a transaction type onto its ledger kind.
func KindFor(t TransactionType) LedgerKind {
	switch t {
	case Buy, Sell:
		return KindTrade
	case Dividend:
		return KindDividend
	default:
		return KindCash
	}
}
