package models

import (
	"github.com/shopspring/decimal"
)

// LedgerEntryType mirrors domain.LedgerEntryType in storage.
type LedgerEntryType string

const (
	ExchangeOut LedgerEntryType = "EXCHANGE_OUT"
	ExchangeIn  LedgerEntryType = "EXCHANGE_IN"
)

// LedgerEntry is a row of ledger_entries.
type LedgerEntry struct {
	EntryID               string          `db:"entry_id"`
	AccountID             string          `db:"account_id"`
	Amount                decimal.Decimal `db:"amount"`
	EntryType             LedgerEntryType `db:"entry_type"`
	RelatedCurrency       string          `db:"related_currency"`
	RelatedEntryID        string          `db:"related_entry_id"`
	ExchangeTransactionID string          `db:"exchange_transaction_id"`
	Description           string          `db:"description"`
	AuditFields
}
