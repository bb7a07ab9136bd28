package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/exchange_service/internal/apperrors"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/SscSPs/exchange_service/internal/core/ports/providers"
	portssvc "github.com/SscSPs/exchange_service/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// GramsPerTroyOunce converts troy-ounce prices to gram prices.
var GramsPerTroyOunce = decimal.RequireFromString("31.1034768")

const gramPriceScale int32 = 6

var (
	goldBuySpread  = decimal.RequireFromString("0.995")
	goldSellSpread = decimal.RequireFromString("1.005")
)

// DirectionPolicy decides how fiat pairs are quoted. Strong-quote currencies
// converting into Base multiply; Base converting into a strong-quote currency
// divides by the reverse pair's rate. Everything else multiplies.
type DirectionPolicy struct {
	Base         domain.Fiat
	StrongQuotes []domain.Fiat
}

// DefaultDirectionPolicy quotes USD and EUR against TRY.
func DefaultDirectionPolicy() DirectionPolicy {
	return DirectionPolicy{
		Base:         domain.NewFiat("TRY"),
		StrongQuotes: []domain.Fiat{domain.NewFiat("USD"), domain.NewFiat("EUR")},
	}
}

func (p DirectionPolicy) isStrong(f domain.Fiat) bool {
	for _, s := range p.StrongQuotes {
		if s == f {
			return true
		}
	}
	return false
}

// FiatRateSource quotes pairs of fiat currencies.
type FiatRateSource struct {
	BaseService
	provider providers.FiatRateProvider
	policy   DirectionPolicy
}

// NewFiatRateSource creates a FiatRateSource.
func NewFiatRateSource(provider providers.FiatRateProvider, policy DirectionPolicy) *FiatRateSource {
	return &FiatRateSource{provider: provider, policy: policy}
}

var _ portssvc.RateSource = (*FiatRateSource)(nil)

// Quote implements portssvc.RateSource.
func (s *FiatRateSource) Quote(ctx context.Context, from, to domain.Currency) (domain.RateQuote, error) {
	fromFiat, fromOK := from.(domain.Fiat)
	toFiat, toOK := to.(domain.Fiat)
	if !fromOK || !toOK {
		return domain.RateQuote{}, fmt.Errorf("%w: %s/%s is not a fiat pair", apperrors.ErrRateUnavailable, from.Code(), to.Code())
	}
	if fromFiat == toFiat {
		return domain.RateQuote{}, fmt.Errorf("%w: %s/%s is not a currency pair", apperrors.ErrRateUnavailable, from.Code(), to.Code())
	}

	base, quote, direction := fromFiat, toFiat, domain.Multiply
	if fromFiat == s.policy.Base && s.policy.isStrong(toFiat) {
		// Quoted from the reverse pair; providers are not guaranteed symmetric.
		base, quote, direction = toFiat, fromFiat, domain.Divide
	}

	rate, err := s.latest(ctx, base.Code(), quote.Code())
	if err != nil {
		return domain.RateQuote{}, err
	}
	s.LogDebug(ctx, "fiat rate quoted", "from", from.Code(), "to", to.Code(), "rate", rate.String(), "direction", direction)
	return domain.RateQuote{Rate: rate, Direction: direction}, nil
}

func (s *FiatRateSource) latest(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	rate, err := s.provider.LatestRate(ctx, base, quote)
	if err != nil {
		s.LogError(ctx, err, "fiat rate lookup failed", "base", base, "quote", quote)
		return decimal.Zero, wrapRateUnavailable(err, base+"/"+quote)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: provider returned non-positive rate %s for %s/%s", apperrors.ErrRateUnavailable, rate, base, quote)
	}
	return rate, nil
}

// GoldRateSource quotes gold against fiat from troy-ounce prices.
// A purchase divides the fiat amount by the gram price; a sale multiplies.
type GoldRateSource struct {
	BaseService
	provider providers.GoldPriceProvider
}

// NewGoldRateSource creates a GoldRateSource.
func NewGoldRateSource(provider providers.GoldPriceProvider) *GoldRateSource {
	return &GoldRateSource{provider: provider}
}

var (
	_ portssvc.RateSource   = (*GoldRateSource)(nil)
	_ portssvc.GoldPriceSvc = (*GoldRateSource)(nil)
)

// Quote implements portssvc.RateSource.
func (s *GoldRateSource) Quote(ctx context.Context, from, to domain.Currency) (domain.RateQuote, error) {
	kind, err := domain.ClassifyPair(from, to)
	if err != nil {
		return domain.RateQuote{}, fmt.Errorf("%w: %v", apperrors.ErrRateUnavailable, err)
	}

	var fiat domain.Currency
	direction := domain.Multiply
	switch kind {
	case domain.GoldPurchase:
		fiat, direction = from, domain.Divide
	case domain.GoldSale:
		fiat = to
	default:
		return domain.RateQuote{}, fmt.Errorf("%w: %s/%s has no gold side", apperrors.ErrRateUnavailable, from.Code(), to.Code())
	}

	gram, err := s.gramPrice(ctx, fiat.Code(), gramPriceScale)
	if err != nil {
		return domain.RateQuote{}, err
	}
	s.LogDebug(ctx, "gold rate quoted", "from", from.Code(), "to", to.Code(), "gram_price", gram.String(), "direction", direction)
	return domain.RateQuote{Rate: gram, Direction: direction}, nil
}

// GoldPrices implements portssvc.GoldPriceSvc.
func (s *GoldRateSource) GoldPrices(ctx context.Context, currency domain.Fiat) (*domain.GoldPriceBoard, error) {
	gram, err := s.gramPrice(ctx, currency.Code(), amountScale)
	if err != nil {
		return nil, err
	}
	return &domain.GoldPriceBoard{
		Currency:  currency.Code(),
		GramPrice: gram,
		Buy:       gram.Mul(goldBuySpread).Round(amountScale),
		Sell:      gram.Mul(goldSellSpread).Round(amountScale),
	}, nil
}

func (s *GoldRateSource) gramPrice(ctx context.Context, currency string, scale int32) (decimal.Decimal, error) {
	ounce, err := s.provider.OuncePrice(ctx, currency)
	if err != nil {
		s.LogError(ctx, err, "gold price lookup failed", "currency", currency)
		return decimal.Zero, wrapRateUnavailable(err, "XAU/"+currency)
	}
	if !ounce.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: provider returned non-positive ounce price %s for %s", apperrors.ErrRateUnavailable, ounce, currency)
	}
	return ounce.DivRound(GramsPerTroyOunce, scale), nil
}

// RateRouter picks the gold source when either side is gold and the fiat
// source otherwise.
type RateRouter struct {
	Fiat portssvc.RateSource
	Gold portssvc.RateSource
}

var _ portssvc.RateSource = RateRouter{}

// Quote implements portssvc.RateSource.
func (r RateRouter) Quote(ctx context.Context, from, to domain.Currency) (domain.RateQuote, error) {
	if domain.IsGold(from) || domain.IsGold(to) {
		return r.Gold.Quote(ctx, from, to)
	}
	return r.Fiat.Quote(ctx, from, to)
}

func wrapRateUnavailable(err error, pair string) error {
	if errors.Is(err, apperrors.ErrRateUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrRateUnavailable, pair, err)
}
