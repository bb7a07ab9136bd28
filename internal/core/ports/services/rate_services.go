package services

import (
	"context"

	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSource quotes an ordered currency pair.
// Failures wrap apperrors.ErrRateUnavailable.
type RateSource interface {
	Quote(ctx context.Context, from, to domain.Currency) (domain.RateQuote, error)
}

// Converter applies a quote to an amount under the quantization policy.
type Converter interface {
	Convert(amount decimal.Decimal, quote domain.RateQuote, from, to domain.Currency) (domain.ConversionResult, error)
}
