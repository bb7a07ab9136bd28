package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeTransaction is a row of the exchange service's exchange_transactions table.
type ExchangeTransaction struct {
	ID                  int64           `db:"id"`
	AccountReference    string          `db:"account_reference"`
	FromCurrency        string          `db:"from_currency"`
	ToCurrency          string          `db:"to_currency"`
	FromAmount          decimal.Decimal `db:"from_amount"`
	ToAmount            decimal.Decimal `db:"to_amount"`
	TransactionType     string          `db:"transaction_type"`
	LedgerTransactionID string          `db:"ledger_transaction_id"`
	CreatedAt           time.Time       `db:"created_at"`
}
