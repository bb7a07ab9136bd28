// Package bus selects the message bus implementation from configuration.
package bus

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/exchange_service/internal/adapters/messaging/memory"
	"github.com/SscSPs/exchange_service/internal/adapters/messaging/rabbitmq"
	"github.com/SscSPs/exchange_service/internal/core/ports/messaging"
	"github.com/SscSPs/exchange_service/internal/platform/config"
)

// Bus is both sides of the message bus.
type Bus interface {
	messaging.Publisher
	messaging.Consumer
}

// Open returns the configured bus and a function releasing it.
func Open(cfg *config.Config, logger *slog.Logger) (Bus, func() error, error) {
	switch cfg.MessageBusDriver {
	case config.BusMemory:
		logger.Warn("Using in-process message bus; the ledger runs inside this process")
		return memory.NewBus(memory.DefaultQueueSize, logger), func() error { return nil }, nil
	case config.BusRabbitMQ:
		b, err := rabbitmq.Dial(cfg.AMQPURL, messaging.Routes(), logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to message broker")
		return b, b.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown message bus driver %q", cfg.MessageBusDriver)
	}
}
