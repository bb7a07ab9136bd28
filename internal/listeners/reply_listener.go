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
)

// ReplyListener feeds balance check replies from the bus to waiting callers.
type ReplyListener struct {
	consumer messaging.Consumer
	replies  portssvc.ReplyDeliverer
	logger   *slog.Logger
}

func NewReplyListener(consumer messaging.Consumer, replies portssvc.ReplyDeliverer, logger *slog.Logger) *ReplyListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReplyListener{consumer: consumer, replies: replies, logger: logger}
}

// Run consumes the balance response queue until ctx is cancelled.
func (l *ReplyListener) Run(ctx context.Context) error {
	l.logger.Info("listening for balance check replies", "queue", messaging.BalanceResponseRoute.Queue)
	return l.consumer.Consume(ctx, messaging.BalanceResponseRoute, l.HandleReply)
}

// HandleReply decodes one reply and delivers it. A reply nobody waits for is dropped.
func (l *ReplyListener) HandleReply(ctx context.Context, body []byte) error {
	var reply domain.BalanceCheckReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return fmt.Errorf("failed to decode balance check reply: %w", err)
	}
	if reply.CorrelationID == "" {
		return errors.New("balance check reply without correlation id")
	}

	logger := l.logger.With(slog.String("correlation_id", reply.CorrelationID))
	if !l.replies.Deliver(reply) {
		logger.Debug("dropping balance check reply with no waiting caller")
		return nil
	}
	logger.Debug("balance check reply delivered", "has_enough_balance", reply.HasEnoughBalance)
	return nil
}
