package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeTransactionRecord is the exchange service's record of a completed exchange.
// It is written once per successful exchange and never updated.
type ExchangeTransactionRecord struct {
	ID                  int64             `json:"id"`
	AccountReference    string            `json:"accountReference"`
	FromCurrency        string            `json:"fromCurrency"`
	ToCurrency          string            `json:"toCurrency"`
	FromAmount          decimal.Decimal   `json:"fromAmount"` // debited
	ToAmount            decimal.Decimal   `json:"toAmount"`   // credited
	TransactionType     TransactionIntent `json:"transactionType"`
	LedgerTransactionID string            `json:"ledgerTransactionId"`
	Timestamp           time.Time         `json:"timestamp"`
}

// LedgerEntryType identifies one leg of a ledger balance change.
type LedgerEntryType string

const (
	ExchangeOut LedgerEntryType = "EXCHANGE_OUT"
	ExchangeIn  LedgerEntryType = "EXCHANGE_IN"
)

// LedgerEntry is one signed movement on a ledger account.
type LedgerEntry struct {
	EntryID             string          `json:"entryID"`
	AccountID           string          `json:"accountID"`
	Amount              decimal.Decimal `json:"amount"` // negative for EXCHANGE_OUT
	EntryType           LedgerEntryType `json:"entryType"`
	RelatedCurrency     string          `json:"relatedCurrency"`
	RelatedEntryID      string          `json:"relatedEntryID"`
	ExchangeTransaction string          `json:"exchangeTransaction"`
	Description         string          `json:"description"`
	AuditFields
}
