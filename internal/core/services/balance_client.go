package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/SscSPs/exchange_service/internal/core/ports/messaging"
	portssvc "github.com/SscSPs/exchange_service/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultBalanceCheckTimeout bounds the wait for a ledger reply.
const DefaultBalanceCheckTimeout = 10 * time.Second

// BalanceClient implements the requesting side of the balance protocol.
type BalanceClient struct {
	BaseService
	publisher      messaging.Publisher
	replies        *ReplyDemultiplexer
	defaultTimeout time.Duration
}

// NewBalanceClient creates a BalanceClient. A non-positive defaultTimeout
// falls back to DefaultBalanceCheckTimeout.
func NewBalanceClient(publisher messaging.Publisher, replies *ReplyDemultiplexer, defaultTimeout time.Duration) *BalanceClient {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultBalanceCheckTimeout
	}
	return &BalanceClient{
		publisher:      publisher,
		replies:        replies,
		defaultTimeout: defaultTimeout,
	}
}

var _ portssvc.BalanceProtocol = (*BalanceClient)(nil)

// CheckBalance implements portssvc.BalanceProtocol. A non-positive timeout
// uses the client's default.
func (c *BalanceClient) CheckBalance(ctx context.Context, identity, currency string, amount decimal.Decimal, timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}

	correlationID := uuid.NewString()
	call, err := c.replies.Register(correlationID)
	if err != nil {
		return false, err
	}

	logger := c.GetLogger(ctx).With("correlation_id", correlationID)
	req := domain.BalanceCheckRequest{
		CorrelationID: correlationID,
		Username:      identity,
		Currency:      currency,
		Amount:        amount,
	}
	if err := c.publisher.Publish(ctx, messaging.BalanceCheckRoute, req); err != nil {
		c.replies.Abandon(call)
		logger.Error("failed to publish balance check", "error", err.Error())
		return false, fmt.Errorf("publishing balance check: %w", err)
	}
	logger.Debug("balance check sent", "currency", currency, "amount", amount.String())

	reply, err := c.replies.Await(ctx, call, timeout)
	if err != nil {
		logger.Warn("balance check got no reply", "timeout", timeout.String())
		return false, err
	}
	logger.Debug("balance check answered", "has_enough_balance", reply.HasEnoughBalance)
	return reply.HasEnoughBalance, nil
}

// UpdateBalance implements portssvc.BalanceProtocol.
func (c *BalanceClient) UpdateBalance(ctx context.Context, identity, fromCurrency, toCurrency string, debit, credit decimal.Decimal) (string, error) {
	n := domain.BalanceUpdateNotification{
		Username:      identity,
		FromCurrency:  fromCurrency,
		ToCurrency:    toCurrency,
		FromAmount:    debit,
		ToAmount:      credit,
		TransactionID: uuid.NewString(),
	}
	if err := c.publisher.Publish(ctx, messaging.BalanceUpdateRoute, n); err != nil {
		c.LogError(ctx, err, "failed to publish balance update", "transaction_id", n.TransactionID)
		return "", fmt.Errorf("publishing balance update: %w", err)
	}
	c.LogInfo(ctx, "balance update sent", "transaction_id", n.TransactionID, "from", fromCurrency, "to", toCurrency)
	return n.TransactionID, nil
}
