package services

import (
	"context"

	"github.com/SscSPs/exchange_service/internal/core/domain"
)

// ExchangeSvc runs exchange operations end to end.
type ExchangeSvc interface {
	// ProcessExchange never returns an error; failures come back as a FAILED result.
	ProcessExchange(ctx context.Context, identity string, req domain.ExchangeRequest) domain.ExchangeResult
}

// GoldPriceSvc exposes the current gram price of gold with the buy/sell spread.
type GoldPriceSvc interface {
	GoldPrices(ctx context.Context, currency domain.Fiat) (*domain.GoldPriceBoard, error)
}
