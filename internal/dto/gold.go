package dto

import (
	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GoldPricesQuery holds the query parameters of GET /gold/prices.
type GoldPricesQuery struct {
	Currency string `form:"currency" binding:"omitempty,len=3,alpha"`
}

// GoldPricesResponse is the per-gram gold board in one currency.
type GoldPricesResponse struct {
	Currency  string          `json:"currency" example:"TRY"`
	GramPrice decimal.Decimal `json:"gramPrice" swaggertype:"string" example:"2500.00"`
	Buy       decimal.Decimal `json:"buy" swaggertype:"string" example:"2487.50"`
	Sell      decimal.Decimal `json:"sell" swaggertype:"string" example:"2512.50"`
}

// ToGoldPricesResponse converts a domain.GoldPriceBoard to GoldPricesResponse DTO.
func ToGoldPricesResponse(b *domain.GoldPriceBoard) GoldPricesResponse {
	return GoldPricesResponse{
		Currency:  b.Currency,
		GramPrice: b.GramPrice,
		Buy:       b.Buy,
		Sell:      b.Sell,
	}
}
