package domain

import (
	"github.com/shopspring/decimal"
)

// RateDirection tells how a quoted rate is applied to a source amount.
type RateDirection string

const (
	// Multiply means converted = amount × rate.
	Multiply RateDirection = "MULTIPLY"
	// Divide means converted = amount ÷ rate.
	Divide RateDirection = "DIVIDE"
)

// RateQuote is a rate for an ordered pair plus the direction to apply it in.
// Quotes are produced per request and never persisted.
type RateQuote struct {
	Rate      decimal.Decimal `json:"rate"`
	Direction RateDirection   `json:"direction"`
}

// ConversionResult holds the quantized amounts of a single conversion.
// ActualCost is what the customer is charged in the source currency.
type ConversionResult struct {
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	ActualCost      decimal.Decimal `json:"actualCost"`
}

// GoldPriceBoard is the per-gram gold price in one fiat currency with the
// buy/sell spread applied.
type GoldPriceBoard struct {
	Currency  string          `json:"currency"`
	GramPrice decimal.Decimal `json:"gramPrice"`
	Buy       decimal.Decimal `json:"buy"`
	Sell      decimal.Decimal `json:"sell"`
}
