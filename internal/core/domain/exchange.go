package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionIntent is the customer-facing side of an exchange.
type TransactionIntent string

const (
	Buy  TransactionIntent = "BUY"
	Sell TransactionIntent = "SELL"
)

// ExchangeRequest is a submitted exchange. It is not modified after submission.
type ExchangeRequest struct {
	Identity         string
	From             Currency
	To               Currency
	Amount           decimal.Decimal
	Intent           TransactionIntent
	AccountReference string
}

// ExchangeStatus is the terminal state of an exchange operation.
type ExchangeStatus string

const (
	ExchangeSucceeded ExchangeStatus = "SUCCESS"
	ExchangeFailed    ExchangeStatus = "FAILED"
)

// ExchangeStage names the step an exchange operation is in.
type ExchangeStage string

const (
	StageValidate      ExchangeStage = "VALIDATE"
	StageRateLookup    ExchangeStage = "RATE_LOOKUP"
	StageConvert       ExchangeStage = "CONVERT"
	StageBalanceCheck  ExchangeStage = "BALANCE_CHECK"
	StageBalanceUpdate ExchangeStage = "BALANCE_UPDATE"
	StagePersist       ExchangeStage = "PERSIST"
	StageSuccess       ExchangeStage = "SUCCESS"
)

// ExchangeResult is what ProcessExchange hands back to its caller.
// On failure only Status, Message, FailedStage and Timestamp are meaningful.
type ExchangeResult struct {
	Status        ExchangeStatus
	Message       string
	ExecutedRate  decimal.Decimal
	FromAmount    decimal.Decimal
	FromCurrency  string
	ToAmount      decimal.Decimal
	ToCurrency    string
	Timestamp     time.Time
	FailedStage   ExchangeStage
	TransactionID int64
}

// Succeeded reports whether the exchange completed.
func (r ExchangeResult) Succeeded() bool {
	return r.Status == ExchangeSucceeded
}
