package listeners_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/exchange_service/internal/adapters/messaging/memory"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/SscSPs/exchange_service/internal/core/ports/messaging"
	"github.com/SscSPs/exchange_service/internal/core/services"
	"github.com/SscSPs/exchange_service/internal/listeners"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock LedgerSvc ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CheckBalance(ctx context.Context, req domain.BalanceCheckRequest) domain.BalanceCheckReply {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(context.Context, domain.BalanceCheckRequest) domain.BalanceCheckReply); ok {
		return fn(ctx, req)
	}
	return args.Get(0).(domain.BalanceCheckReply)
}

func (m *MockLedgerService) ApplyBalanceUpdate(ctx context.Context, n domain.BalanceUpdateNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// --- Mock Publisher ---
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, route messaging.Route, message any) error {
	args := m.Called(ctx, route, message)
	return args.Error(0)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestReplyListener_HandleReply(t *testing.T) {
	demux := services.NewReplyDemultiplexer()
	l := listeners.NewReplyListener(memory.NewBus(1, nil), demux, nil)
	ctx := context.Background()

	call, err := demux.Register("c-1")
	require.NoError(t, err)

	require.NoError(t, l.HandleReply(ctx, mustJSON(t, domain.BalanceCheckReply{CorrelationID: "c-1", HasEnoughBalance: true})))
	reply, err := demux.Await(ctx, call, time.Second)
	require.NoError(t, err)
	assert.True(t, reply.HasEnoughBalance)

	// Nobody waits for this one; it is dropped without error.
	assert.NoError(t, l.HandleReply(ctx, mustJSON(t, domain.BalanceCheckReply{CorrelationID: "late"})))
	assert.Equal(t, 0, demux.Pending())

	assert.Error(t, l.HandleReply(ctx, []byte(`{`)))
	assert.Error(t, l.HandleReply(ctx, []byte(`{"hasEnoughBalance":true}`)))
}

func TestLedgerListener_HandleCheckPublishesReply(t *testing.T) {
	ledger, pub := new(MockLedgerService), new(MockPublisher)
	l := listeners.NewLedgerListener(memory.NewBus(1, nil), pub, ledger, nil)

	req := domain.BalanceCheckRequest{CorrelationID: "c-9", Username: "alice", Currency: "TRY", Amount: decimal.RequireFromString("100")}
	reply := domain.BalanceCheckReply{CorrelationID: "c-9", HasEnoughBalance: true}
	ledger.On("CheckBalance", mock.Anything, mock.MatchedBy(func(r domain.BalanceCheckRequest) bool {
		return r.CorrelationID == "c-9" && r.Amount.Equal(req.Amount)
	})).Return(reply).Once()
	pub.On("Publish", mock.Anything, messaging.BalanceResponseRoute, reply).Return(nil).Once()

	require.NoError(t, l.HandleCheck(context.Background(), mustJSON(t, req)))
	ledger.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestLedgerListener_HandleCheckPublishFailure(t *testing.T) {
	ledger, pub := new(MockLedgerService), new(MockPublisher)
	l := listeners.NewLedgerListener(memory.NewBus(1, nil), pub, ledger, nil)

	ledger.On("CheckBalance", mock.Anything, mock.Anything).Return(domain.BalanceCheckReply{CorrelationID: "c-1"}).Once()
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker gone")).Once()

	err := l.HandleCheck(context.Background(), mustJSON(t, domain.BalanceCheckRequest{CorrelationID: "c-1"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "c-1")
}

func TestLedgerListener_HandleUpdate(t *testing.T) {
	ledger := new(MockLedgerService)
	l := listeners.NewLedgerListener(memory.NewBus(1, nil), new(MockPublisher), ledger, nil)
	ctx := context.Background()

	ledger.On("ApplyBalanceUpdate", mock.Anything, mock.MatchedBy(func(n domain.BalanceUpdateNotification) bool {
		return n.TransactionID == "tx-ok"
	})).Return(nil).Once()
	ledger.On("ApplyBalanceUpdate", mock.Anything, mock.MatchedBy(func(n domain.BalanceUpdateNotification) bool {
		return n.TransactionID == "tx-bad"
	})).Return(errors.New("insufficient")).Once()

	assert.NoError(t, l.HandleUpdate(ctx, mustJSON(t, domain.BalanceUpdateNotification{TransactionID: "tx-ok"})))
	err := l.HandleUpdate(ctx, mustJSON(t, domain.BalanceUpdateNotification{TransactionID: "tx-bad"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tx-bad")
	assert.Error(t, l.HandleUpdate(ctx, []byte(`nope`)))
}

// The whole balance protocol over the in-process bus.
func TestBalanceProtocol_OverMemoryBus(t *testing.T) {
	bus := memory.NewBus(16, nil)
	demux := services.NewReplyDemultiplexer()
	client := services.NewBalanceClient(bus, demux, time.Second)
	ledger := new(MockLedgerService)

	ledger.On("CheckBalance", mock.Anything, mock.MatchedBy(func(r domain.BalanceCheckRequest) bool { return r.Currency == "TRY" })).
		Return(func(_ context.Context, r domain.BalanceCheckRequest) domain.BalanceCheckReply {
			return domain.BalanceCheckReply{CorrelationID: r.CorrelationID, HasEnoughBalance: true}
		})
	ledger.On("CheckBalance", mock.Anything, mock.MatchedBy(func(r domain.BalanceCheckRequest) bool { return r.Currency == "USD" })).
		Return(func(_ context.Context, r domain.BalanceCheckRequest) domain.BalanceCheckReply {
			return domain.BalanceCheckReply{CorrelationID: r.CorrelationID}
		})
	updated := make(chan domain.BalanceUpdateNotification, 1)
	ledger.On("ApplyBalanceUpdate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { updated <- args.Get(1).(domain.BalanceUpdateNotification) }).
		Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = listeners.NewReplyListener(bus, demux, nil).Run(ctx) }()
	go func() { _ = listeners.NewLedgerListener(bus, bus, ledger, nil).Run(ctx) }()

	ok, err := client.CheckBalance(ctx, "alice", "TRY", decimal.RequireFromString("10"), 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.CheckBalance(ctx, "alice", "USD", decimal.RequireFromString("10"), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	txID, err := client.UpdateBalance(ctx, "alice", "TRY", "GOLD", decimal.RequireFromString("30000"), decimal.RequireFromString("12"))
	require.NoError(t, err)
	select {
	case n := <-updated:
		assert.Equal(t, txID, n.TransactionID)
		assert.True(t, decimal.RequireFromString("12").Equal(n.ToAmount))
	case <-time.After(2 * time.Second):
		t.Fatal("update not applied")
	}
	assert.Equal(t, 0, demux.Pending())
}
