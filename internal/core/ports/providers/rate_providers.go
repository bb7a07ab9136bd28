package providers

import (
	"context"

	"github.com/shopspring/decimal"
)

// FiatRateProvider returns the latest rate: one unit of base in quote.
type FiatRateProvider interface {
	LatestRate(ctx context.Context, base, quote string) (decimal.Decimal, error)
}

// GoldPriceProvider returns the price of one troy ounce of gold (XAU) in currency.
type GoldPriceProvider interface {
	OuncePrice(ctx context.Context, currency string) (decimal.Decimal, error)
}
