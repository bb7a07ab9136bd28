package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/exchange_service/internal/adapters/messaging/memory"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_service/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_service/internal/core/services"
	"github.com/SscSPs/exchange_service/internal/listeners"
	"github.com/SscSPs/exchange_service/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockExchangeTransactionRepository adds the reader side to the writer mock.
type MockExchangeTransactionRepository struct {
	MockExchangeTransactionWriter
}

func (m *MockExchangeTransactionRepository) FindExchangeTransactionByLedgerID(ctx context.Context, ledgerTransactionID string) (*domain.ExchangeTransactionRecord, error) {
	args := m.Called(ctx, ledgerTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeTransactionRecord), args.Error(1)
}

func testConfig(driver string) *config.Config {
	return &config.Config{
		MessageBusDriver:      driver,
		BalanceCheckTimeout:   2 * time.Second,
		BaseCurrency:          "TRY",
		StrongQuoteCurrencies: []string{"USD", "EUR"},
	}
}

func TestNewServiceContainer_HostsLedgerOnlyWithMemoryBus(t *testing.T) {
	repos := portsrepo.RepositoryProvider{
		ExchangeTransactionRepo: new(MockExchangeTransactionRepository),
		AccountRepo:             new(MockAccountRepository),
	}
	rates := services.RateProviders{Fiat: new(MockFiatRateProvider), Gold: new(MockGoldPriceProvider)}

	remote := services.NewServiceContainer(testConfig(config.BusRabbitMQ), repos, rates, memory.NewBus(1, nil))
	assert.NotNil(t, remote.Exchange)
	assert.NotNil(t, remote.GoldPrices)
	assert.NotNil(t, remote.Replies)
	assert.Nil(t, remote.Ledger)

	local := services.NewServiceContainer(testConfig(config.BusMemory), repos, rates, memory.NewBus(1, nil))
	assert.NotNil(t, local.Ledger)
}

func TestDirectionPolicyFromConfig(t *testing.T) {
	policy := services.DirectionPolicyFromConfig(&config.Config{BaseCurrency: "usd", StrongQuoteCurrencies: []string{"GBP"}})
	assert.Equal(t, domain.NewFiat("USD"), policy.Base)
	assert.Equal(t, []domain.Fiat{domain.NewFiat("GBP")}, policy.StrongQuotes)

	assert.Equal(t, services.DefaultDirectionPolicy(), services.DirectionPolicyFromConfig(&config.Config{}))
}

// A gold purchase through every component wired over the in-process bus.
func TestServiceContainer_GoldPurchaseEndToEnd(t *testing.T) {
	records := new(MockExchangeTransactionRepository)
	accounts := new(MockAccountRepository)
	gold := new(MockGoldPriceProvider)
	bus := memory.NewBus(16, nil)

	container := services.NewServiceContainer(
		testConfig(config.BusMemory),
		portsrepo.RepositoryProvider{ExchangeTransactionRepo: records, AccountRepo: accounts},
		services.RateProviders{Fiat: new(MockFiatRateProvider), Gold: gold},
		bus,
	)

	tryAcc := domain.Account{AccountID: "a-try", Username: "alice", CurrencyCode: "TRY", Balance: dec("31000")}
	goldAcc := domain.Account{AccountID: "a-gold", Username: "alice", CurrencyCode: "GOLD", Balance: dec("0")}

	gold.On("OuncePrice", mock.Anything, "TRY").Return(dec("77758.692"), nil).Once()
	accounts.On("FindAccountByUserAndCurrency", mock.Anything, "alice", "TRY").Return(&tryAcc, nil).Once()
	accounts.On("Begin", mock.Anything).Return(nil, nil).Once()
	accounts.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	accounts.On("MarkTransactionProcessedInTx", mock.Anything, mock.Anything, mock.Anything).Return(true, nil).Once()
	accounts.On("FindAccountsForUpdate", mock.Anything, mock.Anything, "alice", []string{"TRY", "GOLD"}).
		Return(map[string]domain.Account{"TRY": tryAcc, "GOLD": goldAcc}, nil).Once()
	accounts.On("UpdateAccountBalancesInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	accounts.On("SaveLedgerEntriesInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	var committed atomic.Bool
	accounts.On("Commit", mock.Anything, mock.Anything).Run(func(mock.Arguments) { committed.Store(true) }).Return(nil).Once()

	records.On("SaveExchangeTransaction", mock.Anything, mock.MatchedBy(func(r domain.ExchangeTransactionRecord) bool {
		return r.FromAmount.Equal(dec("30000")) && r.ToAmount.Equal(dec("12")) && r.LedgerTransactionID != ""
	})).Return(&domain.ExchangeTransactionRecord{ID: 42}, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = listeners.NewReplyListener(bus, container.Replies, nil).Run(ctx) }()
	go func() { _ = listeners.NewLedgerListener(bus, bus, container.Ledger, nil).Run(ctx) }()

	result := container.Exchange.ProcessExchange(ctx, "alice", domain.ExchangeRequest{
		Identity: "alice",
		From:     domain.NewFiat("TRY"),
		To:       domain.Gold{},
		Amount:   dec("31000"),
		Intent:   domain.Buy,
	})

	require.True(t, result.Succeeded(), result.Message)
	assertDecimal(t, "12", result.ToAmount)
	assertDecimal(t, "30000", result.FromAmount)
	assertDecimal(t, "2500", result.ExecutedRate)
	assert.Equal(t, int64(42), result.TransactionID)

	assert.Eventually(t, committed.Load, 2*time.Second, 5*time.Millisecond)
	accounts.AssertExpectations(t)
	records.AssertExpectations(t)
}
