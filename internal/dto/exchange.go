package dto

import (
	"time"

	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRequest is the body of POST /exchange.
type ExchangeRequest struct {
	FromCurrency     string          `json:"fromCurrency" binding:"required" example:"TRY"`
	ToCurrency       string          `json:"toCurrency" binding:"required" example:"GOLD"`
	Amount           decimal.Decimal `json:"amount" swaggertype:"string" example:"30000"`
	TransactionType  string          `json:"transactionType" binding:"required,oneof=BUY SELL" example:"BUY"`
	AccountReference string          `json:"accountReference" binding:"max=64"`
}

// ToDomain validates the currency codes and builds the domain request.
func (r ExchangeRequest) ToDomain(identity string) (domain.ExchangeRequest, error) {
	from, err := domain.ParseCurrency(r.FromCurrency)
	if err != nil {
		return domain.ExchangeRequest{}, err
	}
	to, err := domain.ParseCurrency(r.ToCurrency)
	if err != nil {
		return domain.ExchangeRequest{}, err
	}
	return domain.ExchangeRequest{
		Identity:         identity,
		From:             from,
		To:               to,
		Amount:           r.Amount,
		Intent:           domain.TransactionIntent(r.TransactionType),
		AccountReference: r.AccountReference,
	}, nil
}

// ExchangeResponse is returned for both completed and failed exchanges.
type ExchangeResponse struct {
	Status        string           `json:"status" example:"SUCCESS"`
	Message       string           `json:"message"`
	ExecutedPrice *decimal.Decimal `json:"executedPrice,omitempty" swaggertype:"string"`
	Timestamp     time.Time        `json:"timestamp"`
	FromAmount    *decimal.Decimal `json:"fromAmount,omitempty" swaggertype:"string"`
	FromCurrency  string           `json:"fromCurrency,omitempty"`
	ToAmount      *decimal.Decimal `json:"toAmount,omitempty" swaggertype:"string"`
	ToCurrency    string           `json:"toCurrency,omitempty"`
	FailedStage   string           `json:"failedStage,omitempty"`
	TransactionID int64            `json:"transactionId,omitempty"`
}

// ToExchangeResponse converts a domain.ExchangeResult to ExchangeResponse DTO.
// Amounts are omitted on failure.
func ToExchangeResponse(r domain.ExchangeResult) ExchangeResponse {
	resp := ExchangeResponse{
		Status:    string(r.Status),
		Message:   r.Message,
		Timestamp: r.Timestamp,
	}
	if !r.Succeeded() {
		resp.FailedStage = string(r.FailedStage)
		return resp
	}
	rate, from, to := r.ExecutedRate, r.FromAmount, r.ToAmount
	resp.ExecutedPrice = &rate
	resp.FromAmount = &from
	resp.FromCurrency = r.FromCurrency
	resp.ToAmount = &to
	resp.ToCurrency = r.ToCurrency
	resp.TransactionID = r.TransactionID
	return resp
}
