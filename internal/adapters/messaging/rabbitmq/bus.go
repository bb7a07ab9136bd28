package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/exchange_service/internal/core/ports/messaging"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// prefetch bounds unacknowledged deliveries per consumer.
const prefetch = 16

// Channel is the subset of *amqp.Channel the bus uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// ChannelOpener opens a fresh channel; each consumer gets its own.
type ChannelOpener func() (Channel, error)

// Bus publishes and consumes JSON messages over RabbitMQ direct exchanges.
type Bus struct {
	mu      sync.Mutex
	pub     Channel
	open    ChannelOpener
	conn    *amqp.Connection
	logger  *slog.Logger
	nowFunc func() time.Time
}

var (
	_ messaging.Publisher = (*Bus)(nil)
	_ messaging.Consumer  = (*Bus)(nil)
)

// Dial connects to the broker and declares routes.
func Dial(url string, routes []messaging.Route, logger *slog.Logger) (*Bus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to message broker: %w", err)
	}
	open := func() (Channel, error) { return conn.Channel() }

	bus, err := NewBus(open, routes, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	bus.conn = conn
	return bus, nil
}

// NewBus builds a bus over channels from open and declares routes on the publishing channel.
func NewBus(open ChannelOpener, routes []messaging.Route, logger *slog.Logger) (*Bus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pub, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}
	if err := DeclareTopology(pub, routes); err != nil {
		_ = pub.Close()
		return nil, err
	}
	return &Bus{pub: pub, open: open, logger: logger, nowFunc: time.Now}, nil
}

// DeclareTopology declares a durable direct exchange and queue per route and binds them.
func DeclareTopology(ch Channel, routes []messaging.Route) error {
	for _, r := range routes {
		if err := ch.ExchangeDeclare(r.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", r.Exchange, err)
		}
		if _, err := ch.QueueDeclare(r.Queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", r.Queue, err)
		}
		if err := ch.QueueBind(r.Queue, r.RoutingKey, r.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s to %s: %w", r.Queue, r.Exchange, err)
		}
	}
	return nil
}

// Publish sends message as a persistent JSON publishing.
func (b *Bus) Publish(ctx context.Context, route messaging.Route, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode message for %s: %w", route.RoutingKey, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    b.nowFunc().UTC(),
		Body:         body,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.pub.PublishWithContext(ctx, route.Exchange, route.RoutingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", route.Exchange, err)
	}
	return nil
}

// Consume reads route's queue on a dedicated channel with manual acks. Every
// delivery is acked after the handler returns, whether or not it failed.
func (b *Bus) Consume(ctx context.Context, route messaging.Route, handler messaging.Handler) error {
	ch, err := b.open()
	if err != nil {
		return fmt.Errorf("failed to open consume channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set qos on %s: %w", route.Queue, err)
	}
	deliveries, err := ch.Consume(route.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", route.Queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed for " + route.Queue)
			}
			if err := handler(ctx, d.Body); err != nil {
				b.logger.ErrorContext(ctx, "message handler failed", "queue", route.Queue, "message_id", d.MessageId, "error", err)
			}
			if err := d.Ack(false); err != nil {
				b.logger.ErrorContext(ctx, "failed to ack delivery", "queue", route.Queue, "message_id", d.MessageId, "error", err)
			}
		}
	}
}

// Close closes the publishing channel and, when dialled, the connection.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.pub.Close()
	if b.conn != nil {
		err = errors.Join(err, b.conn.Close())
	}
	return err
}
