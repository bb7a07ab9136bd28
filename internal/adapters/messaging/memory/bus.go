package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/exchange_service/internal/core/ports/messaging"
)

// DefaultQueueSize is the number of undelivered messages a queue buffers.
const DefaultQueueSize = 256

// Bus is an in-process message bus. Messages are JSON encoded on publish so
// consumers see the same bodies a broker would hand them. Consumers of one
// queue compete for its messages.
type Bus struct {
	mu        sync.Mutex
	queues    map[string]chan []byte
	queueSize int
	logger    *slog.Logger
}

// NewBus creates an empty bus. A non-positive queueSize uses DefaultQueueSize.
func NewBus(queueSize int, logger *slog.Logger) *Bus {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{queues: make(map[string]chan []byte), queueSize: queueSize, logger: logger}
}

var (
	_ messaging.Publisher = (*Bus)(nil)
	_ messaging.Consumer  = (*Bus)(nil)
)

func (b *Bus) queue(name string) chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[name]
	if !ok {
		q = make(chan []byte, b.queueSize)
		b.queues[name] = q
	}
	return q
}

// Publish encodes message and enqueues it on route's queue, blocking while the queue is full.
func (b *Bus) Publish(ctx context.Context, route messaging.Route, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode message for %s: %w", route.RoutingKey, err)
	}
	select {
	case b.queue(route.Queue) <- body:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", route.Queue, ctx.Err())
	}
}

// Consume hands each message on route's queue to handler until ctx is cancelled.
func (b *Bus) Consume(ctx context.Context, route messaging.Route, handler messaging.Handler) error {
	q := b.queue(route.Queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case body := <-q:
			if err := handler(ctx, body); err != nil {
				b.logger.ErrorContext(ctx, "message handler failed", "queue", route.Queue, "error", err)
			}
		}
	}
}

// Depth returns the number of messages waiting on a queue.
func (b *Bus) Depth(queue string) int {
	return len(b.queue(queue))
}
