package listeners

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/SscSPs/exchange_service/internal/core/ports/messaging"
	portssvc "github.com/SscSPs/exchange_service/internal/core/ports/services"
	"github.com/SscSPs/exchange_service/internal/middleware"
)

// LedgerListener serves the ledger side of the balance protocol: it answers
// balance checks and applies balance updates.
type LedgerListener struct {
	consumer  messaging.Consumer
	publisher messaging.Publisher
	ledger    portssvc.LedgerSvc
	logger    *slog.Logger
}

func NewLedgerListener(consumer messaging.Consumer, publisher messaging.Publisher, ledger portssvc.LedgerSvc, logger *slog.Logger) *LedgerListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerListener{consumer: consumer, publisher: publisher, ledger: ledger, logger: logger}
}

// Run consumes the check and update queues until ctx is cancelled or either subscription fails.
func (l *LedgerListener) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 2)
	go func() { errs <- l.consumer.Consume(ctx, messaging.BalanceCheckRoute, l.HandleCheck) }()
	go func() { errs <- l.consumer.Consume(ctx, messaging.BalanceUpdateRoute, l.HandleUpdate) }()
	l.logger.Info("ledger listening",
		"check_queue", messaging.BalanceCheckRoute.Queue,
		"update_queue", messaging.BalanceUpdateRoute.Queue)

	first := <-errs
	cancel()
	return errors.Join(first, <-errs)
}

// HandleCheck answers one balance check. Every decodable request gets exactly one reply.
func (l *LedgerListener) HandleCheck(ctx context.Context, body []byte) error {
	var req domain.BalanceCheckRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("failed to decode balance check request: %w", err)
	}

	logger := l.logger.With(slog.String("correlation_id", req.CorrelationID))
	ctx = middleware.WithLogger(ctx, logger)

	reply := l.ledger.CheckBalance(ctx, req)
	if err := l.publisher.Publish(ctx, messaging.BalanceResponseRoute, reply); err != nil {
		return fmt.Errorf("failed to publish balance check reply %s: %w", req.CorrelationID, err)
	}
	logger.Debug("balance check answered", "currency", req.Currency, "has_enough_balance", reply.HasEnoughBalance)
	return nil
}

// HandleUpdate applies one balance update. Failures are returned for logging and not retried.
func (l *LedgerListener) HandleUpdate(ctx context.Context, body []byte) error {
	var n domain.BalanceUpdateNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("failed to decode balance update: %w", err)
	}

	logger := l.logger.With(slog.String("transaction_id", n.TransactionID))
	if err := l.ledger.ApplyBalanceUpdate(middleware.WithLogger(ctx, logger), n); err != nil {
		return fmt.Errorf("balance update %s failed: %w", n.TransactionID, err)
	}
	return nil
}
