package models

import (
	"github.com/shopspring/decimal"
)

// Account is a row of the ledger's accounts table: one balance per user and currency.
type Account struct {
	AccountID    string          `db:"account_id"`
	Username     string          `db:"username"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	AuditFields
}
