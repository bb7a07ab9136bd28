package domain

import "github.com/shopspring/decimal"

// BalanceCheckRequest asks the ledger whether Identity holds at least Amount of Currency.
type BalanceCheckRequest struct {
	CorrelationID string          `json:"correlationId" validate:"required"`
	Username      string          `json:"username" validate:"required"`
	Currency      string          `json:"currency" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// BalanceCheckReply is the ledger's answer to a BalanceCheckRequest.
type BalanceCheckReply struct {
	CorrelationID    string `json:"correlationId" validate:"required"`
	HasEnoughBalance bool   `json:"hasEnoughBalance"`
}

// BalanceUpdateNotification tells the ledger to debit FromAmount of FromCurrency
// and credit ToAmount of ToCurrency in one step. No reply is sent.
type BalanceUpdateNotification struct {
	Username      string          `json:"username" validate:"required"`
	FromCurrency  string          `json:"fromCurrency" validate:"required"`
	ToCurrency    string          `json:"toCurrency" validate:"required,nefield=FromCurrency"`
	FromAmount    decimal.Decimal `json:"fromAmount"`
	ToAmount      decimal.Decimal `json:"toAmount"`
	TransactionID string          `json:"transactionId" validate:"required"`
}
