package domain

import (
	"github.com/shopspring/decimal"
)

// Account is a ledger balance for one user in one currency.
type Account struct {
	AccountID    string          `json:"accountID"`
	Username     string          `json:"username"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	AuditFields
}

// Covers reports whether the balance is at least amount.
func (a Account) Covers(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
