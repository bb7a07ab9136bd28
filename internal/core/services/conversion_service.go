package services

import (
	"fmt"

	"github.com/SscSPs/exchange_service/internal/apperrors"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_service/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	// amountScale is the scale of every charged or credited amount.
	amountScale int32 = 2
	// exactGoldScale is the scale of the gram amount before it is cut to whole grams.
	exactGoldScale int32 = 4
)

// minGoldGrams is the smallest gold purchase; fractional grams cannot be custodied.
var minGoldGrams = decimal.NewFromInt(1)

// ConversionEngine applies rate quotes to amounts.
// All rounding is half-up except the whole-gram truncation of a gold purchase.
type ConversionEngine struct{}

// NewConversionEngine returns a ConversionEngine.
func NewConversionEngine() *ConversionEngine {
	return &ConversionEngine{}
}

var _ portssvc.Converter = (*ConversionEngine)(nil)

// Convert computes the converted amount and the amount actually charged.
func (e *ConversionEngine) Convert(amount decimal.Decimal, quote domain.RateQuote, from, to domain.Currency) (domain.ConversionResult, error) {
	if !amount.IsPositive() {
		return domain.ConversionResult{}, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !quote.Rate.IsPositive() {
		return domain.ConversionResult{}, fmt.Errorf("%w: quoted rate %s is not positive", apperrors.ErrRateUnavailable, quote.Rate)
	}
	if quote.Direction != domain.Multiply && quote.Direction != domain.Divide {
		return domain.ConversionResult{}, fmt.Errorf("%w: unknown rate direction %q", apperrors.ErrRateUnavailable, quote.Direction)
	}

	kind, err := domain.ClassifyPair(from, to)
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if kind == domain.GoldPurchase {
		return e.goldPurchase(amount, quote)
	}
	// Standard pairs and gold sales charge the requested amount in full.
	converted := applyRate(amount, quote.Rate, quote.Direction, amountScale)
	if !converted.IsPositive() {
		return domain.ConversionResult{}, fmt.Errorf("%w: %s %s converts to less than 0.01 %s",
			apperrors.ErrInsufficientAmount, amount, from.Code(), to.Code())
	}
	return domain.ConversionResult{
		ConvertedAmount: converted,
		ActualCost:      amount,
	}, nil
}

// goldPurchase grants whole grams only and charges for exactly those grams.
// The gram amount is never rounded up, so the charge stays within the requested amount.
func (e *ConversionEngine) goldPurchase(amount decimal.Decimal, quote domain.RateQuote) (domain.ConversionResult, error) {
	exactGrams := truncateRate(amount, quote.Rate, quote.Direction, exactGoldScale)
	wholeGrams := exactGrams.Truncate(0)

	if wholeGrams.LessThan(minGoldGrams) {
		return domain.ConversionResult{}, fmt.Errorf("%w: minimum gold purchase amount is %s gram, your amount: %s grams",
			apperrors.ErrInsufficientAmount, minGoldGrams, exactGrams.StringFixed(exactGoldScale))
	}

	actualCost := applyRate(wholeGrams, quote.Rate, inverse(quote.Direction), amountScale)
	if actualCost.GreaterThan(amount) {
		actualCost = truncateRate(wholeGrams, quote.Rate, inverse(quote.Direction), amountScale)
	}
	return domain.ConversionResult{
		ConvertedAmount: wholeGrams,
		ActualCost:      actualCost,
	}, nil
}

// applyRate multiplies or divides and rounds half-up to scale.
func applyRate(amount, rate decimal.Decimal, direction domain.RateDirection, scale int32) decimal.Decimal {
	if direction == domain.Divide {
		return amount.DivRound(rate, scale)
	}
	return amount.Mul(rate).Round(scale)
}

// truncateRate multiplies or divides and rounds toward zero at scale.
func truncateRate(amount, rate decimal.Decimal, direction domain.RateDirection, scale int32) decimal.Decimal {
	if direction == domain.Divide {
		return amount.DivRound(rate, scale+8).Truncate(scale)
	}
	return amount.Mul(rate).Truncate(scale)
}

func inverse(direction domain.RateDirection) domain.RateDirection {
	if direction == domain.Divide {
		return domain.Multiply
	}
	return domain.Divide
}
