package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/exchange_service/internal/apperrors"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_service/internal/core/ports/services"
)

// PendingCall is a registered wait for one correlated reply.
// It is consumed exactly once, by Await.
type PendingCall struct {
	correlationID string
	reply         chan domain.BalanceCheckReply
}

// CorrelationID returns the id the call was registered under.
func (p *PendingCall) CorrelationID() string {
	return p.correlationID
}

// ReplyDemultiplexer routes asynchronously delivered balance-check replies to
// the caller waiting on the matching correlation id.
//
// The mutex only guards the map. Delivery removes the entry and fills the
// buffered slot under the lock, so a waiter that finds its entry gone after a
// timeout knows the reply is already in the slot.
type ReplyDemultiplexer struct {
	mu      sync.Mutex
	pending map[string]*PendingCall
}

// NewReplyDemultiplexer creates an empty registry. One instance serves the whole process.
func NewReplyDemultiplexer() *ReplyDemultiplexer {
	return &ReplyDemultiplexer{pending: make(map[string]*PendingCall)}
}

var _ portssvc.ReplyDeliverer = (*ReplyDemultiplexer)(nil)

// Register adds a pending call for correlationID. Ids must be unique per call.
func (d *ReplyDemultiplexer) Register(correlationID string) (*PendingCall, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.pending[correlationID]; exists {
		return nil, fmt.Errorf("%w: correlation id %s is already pending", apperrors.ErrDuplicate, correlationID)
	}
	call := &PendingCall{
		correlationID: correlationID,
		reply:         make(chan domain.BalanceCheckReply, 1),
	}
	d.pending[correlationID] = call
	return call, nil
}

// Deliver implements portssvc.ReplyDeliverer. Replies for unknown or
// abandoned calls are dropped and false is returned.
func (d *ReplyDemultiplexer) Deliver(reply domain.BalanceCheckReply) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	call, ok := d.pending[reply.CorrelationID]
	if !ok {
		return false
	}
	delete(d.pending, reply.CorrelationID)
	call.reply <- reply // buffered and written once, never blocks
	return true
}

// Await blocks until the reply for call arrives, timeout elapses or ctx is done.
// On timeout the call is removed so a late reply is discarded by Deliver.
func (d *ReplyDemultiplexer) Await(ctx context.Context, call *PendingCall, timeout time.Duration) (domain.BalanceCheckReply, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var cause error
	select {
	case reply := <-call.reply:
		return reply, nil
	case <-timer.C:
		cause = fmt.Errorf("%w after %s", apperrors.ErrBalanceCheckTimedOut, timeout)
	case <-ctx.Done():
		cause = fmt.Errorf("%w: %v", apperrors.ErrBalanceCheckTimedOut, ctx.Err())
	}

	if d.abandon(call) {
		return domain.BalanceCheckReply{}, cause
	}
	// Deliver won the race between the timer firing and abandon taking the lock.
	return <-call.reply, nil
}

// Abandon removes call without waiting, e.g. when publishing the request failed.
func (d *ReplyDemultiplexer) Abandon(call *PendingCall) {
	d.abandon(call)
}

// abandon reports whether call was still pending.
func (d *ReplyDemultiplexer) abandon(call *PendingCall) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if current, ok := d.pending[call.correlationID]; ok && current == call {
		delete(d.pending, call.correlationID)
		return true
	}
	return false
}

// Pending returns the number of calls still waiting for a reply.
func (d *ReplyDemultiplexer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
