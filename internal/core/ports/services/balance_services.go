package services

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceProtocol talks to the ledger service over the message bus.
type BalanceProtocol interface {
	// CheckBalance blocks until the ledger replies or timeout elapses.
	// A missing reply yields apperrors.ErrBalanceCheckTimedOut.
	CheckBalance(ctx context.Context, identity, currency string, amount decimal.Decimal, timeout time.Duration) (bool, error)

	// UpdateBalance publishes a balance update and returns without waiting for the ledger.
	// The returned id is the transaction id carried in the notification.
	UpdateBalance(ctx context.Context, identity, fromCurrency, toCurrency string, debit, credit decimal.Decimal) (string, error)
}

// ReplyDeliverer is the side of the reply demultiplexer the bus consumer sees.
type ReplyDeliverer interface {
	// Deliver hands reply to its waiting caller and reports whether one was waiting.
	Deliver(reply domain.BalanceCheckReply) bool
}
