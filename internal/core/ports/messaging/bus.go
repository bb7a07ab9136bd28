package messaging

import "context"

// Route is one logical channel on the bus: a direct exchange, its routing key
// and the durable queue bound to it.
type Route struct {
	Exchange   string
	RoutingKey string
	Queue      string
}

var (
	BalanceCheckRoute = Route{
		Exchange:   "balance-check-exchange",
		RoutingKey: "balance.check",
		Queue:      "balance-check-queue",
	}
	BalanceUpdateRoute = Route{
		Exchange:   "balance-update-exchange",
		RoutingKey: "balance.update",
		Queue:      "balance-update-queue",
	}
	BalanceResponseRoute = Route{
		Exchange:   "balance-response-exchange",
		RoutingKey: "balance.response",
		Queue:      "balance-response-queue",
	}
)

// Routes lists every channel the balance protocol uses.
func Routes() []Route {
	return []Route{BalanceCheckRoute, BalanceUpdateRoute, BalanceResponseRoute}
}

// Publisher sends a message to a route. Delivery is at-least-once; there is no
// acknowledgement visible to the caller.
type Publisher interface {
	Publish(ctx context.Context, route Route, message any) error
}

// Handler processes one message body. A returned error is logged by the
// consumer; the message is not redelivered.
type Handler func(ctx context.Context, body []byte) error

// Consumer delivers messages from a route's queue to a handler.
type Consumer interface {
	// Consume blocks until ctx is cancelled or the subscription fails.
	Consume(ctx context.Context, route Route, handler Handler) error
}
