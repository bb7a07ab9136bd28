package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/exchange_service/internal/apperrors"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/SscSPs/exchange_service/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyDemultiplexer_DeliverBeforeAwait(t *testing.T) {
	demux := services.NewReplyDemultiplexer()
	call, err := demux.Register("c-1")
	require.NoError(t, err)

	assert.True(t, demux.Deliver(domain.BalanceCheckReply{CorrelationID: "c-1", HasEnoughBalance: true}))

	reply, err := demux.Await(context.Background(), call, time.Second)
	require.NoError(t, err)
	assert.True(t, reply.HasEnoughBalance)
	assert.Equal(t, 0, demux.Pending())
}

func TestReplyDemultiplexer_TimeoutThenLateReply(t *testing.T) {
	demux := services.NewReplyDemultiplexer()
	call, err := demux.Register("late")
	require.NoError(t, err)
	other, err := demux.Register("other")
	require.NoError(t, err)

	_, err = demux.Await(context.Background(), call, 10*time.Millisecond)
	assert.ErrorIs(t, err, apperrors.ErrBalanceCheckTimedOut)
	assert.Equal(t, 1, demux.Pending())

	assert.False(t, demux.Deliver(domain.BalanceCheckReply{CorrelationID: "late", HasEnoughBalance: true}))

	// The unrelated call is untouched by the stray reply.
	assert.True(t, demux.Deliver(domain.BalanceCheckReply{CorrelationID: "other", HasEnoughBalance: false}))
	reply, err := demux.Await(context.Background(), other, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "other", reply.CorrelationID)
	assert.False(t, reply.HasEnoughBalance)
}

func TestReplyDemultiplexer_OutOfOrderReplies(t *testing.T) {
	demux := services.NewReplyDemultiplexer()
	first, err := demux.Register("first")
	require.NoError(t, err)
	second, err := demux.Register("second")
	require.NoError(t, err)

	results := make(map[string]domain.BalanceCheckReply)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, call := range []*services.PendingCall{first, second} {
		wg.Add(1)
		go func(c *services.PendingCall) {
			defer wg.Done()
			reply, err := demux.Await(context.Background(), c, 2*time.Second)
			assert.NoError(t, err)
			mu.Lock()
			results[c.CorrelationID()] = reply
			mu.Unlock()
		}(call)
	}

	assert.True(t, demux.Deliver(domain.BalanceCheckReply{CorrelationID: "second", HasEnoughBalance: false}))
	assert.True(t, demux.Deliver(domain.BalanceCheckReply{CorrelationID: "first", HasEnoughBalance: true}))
	wg.Wait()

	require.Len(t, results, 2)
	assert.Equal(t, "first", results["first"].CorrelationID)
	assert.True(t, results["first"].HasEnoughBalance)
	assert.Equal(t, "second", results["second"].CorrelationID)
	assert.False(t, results["second"].HasEnoughBalance)
}

func TestReplyDemultiplexer_DuplicateDeliveryIgnored(t *testing.T) {
	demux := services.NewReplyDemultiplexer()
	call, err := demux.Register("dup")
	require.NoError(t, err)

	assert.True(t, demux.Deliver(domain.BalanceCheckReply{CorrelationID: "dup", HasEnoughBalance: true}))
	assert.False(t, demux.Deliver(domain.BalanceCheckReply{CorrelationID: "dup", HasEnoughBalance: false}))

	reply, err := demux.Await(context.Background(), call, time.Second)
	require.NoError(t, err)
	assert.True(t, reply.HasEnoughBalance)
}

func TestReplyDemultiplexer_RegisterRejectsPendingID(t *testing.T) {
	demux := services.NewReplyDemultiplexer()
	_, err := demux.Register("same")
	require.NoError(t, err)

	_, err = demux.Register("same")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestReplyDemultiplexer_ContextCancelled(t *testing.T) {
	demux := services.NewReplyDemultiplexer()
	call, err := demux.Register("cancel")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = demux.Await(ctx, call, time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrBalanceCheckTimedOut)
	assert.Equal(t, 0, demux.Pending())
}

func TestReplyDemultiplexer_AbandonDropsCall(t *testing.T) {
	demux := services.NewReplyDemultiplexer()
	call, err := demux.Register("gone")
	require.NoError(t, err)

	demux.Abandon(call)

	assert.Equal(t, 0, demux.Pending())
	assert.False(t, demux.Deliver(domain.BalanceCheckReply{CorrelationID: "gone"}))
}

// Deliver and the timeout race on every iteration. Whichever wins, a reply
// that Deliver accepted must be observed by the waiter, and a reply it
// rejected must not be.
func TestReplyDemultiplexer_DeliverRacesTimeout(t *testing.T) {
	demux := services.NewReplyDemultiplexer()
	const iterations = 500

	var wg sync.WaitGroup
	for i := 0; i < iterations; i++ {
		id := uuid.NewString()
		call, err := demux.Register(id)
		require.NoError(t, err)

		var accepted bool
		var reply domain.BalanceCheckReply
		var awaitErr error

		wg.Add(2)
		go func() {
			defer wg.Done()
			reply, awaitErr = demux.Await(context.Background(), call, time.Millisecond)
		}()
		go func(delay time.Duration) {
			defer wg.Done()
			time.Sleep(delay)
			accepted = demux.Deliver(domain.BalanceCheckReply{CorrelationID: id, HasEnoughBalance: true})
		}(time.Duration(i%3) * 500 * time.Microsecond)
		wg.Wait()

		if accepted {
			require.NoError(t, awaitErr, "iteration %d: accepted reply was lost", i)
			require.Equal(t, id, reply.CorrelationID)
		} else {
			require.ErrorIs(t, awaitErr, apperrors.ErrBalanceCheckTimedOut, "iteration %d", i)
		}
	}
	assert.Equal(t, 0, demux.Pending())
}
