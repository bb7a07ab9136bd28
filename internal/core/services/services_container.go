package services

import (
	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/SscSPs/exchange_service/internal/core/ports/messaging"
	"github.com/SscSPs/exchange_service/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/exchange_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_service/internal/core/ports/services"
	"github.com/SscSPs/exchange_service/internal/platform/config"
)

// RateProviders groups the upstream rate feeds.
type RateProviders struct {
	Fiat providers.FiatRateProvider
	Gold providers.GoldPriceProvider
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The ledger is hosted in-process only with the memory bus.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	rates RateProviders,
	publisher messaging.Publisher,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	gold := NewGoldRateSource(rates.Gold)
	router := RateRouter{
		Fiat: NewFiatRateSource(rates.Fiat, DirectionPolicyFromConfig(cfg)),
		Gold: gold,
	}

	replies := NewReplyDemultiplexer()
	balances := NewBalanceClient(publisher, replies, cfg.BalanceCheckTimeout)

	container.Exchange = NewExchangeService(
		router,
		NewConversionEngine(),
		balances,
		repos.ExchangeTransactionRepo,
		cfg.BalanceCheckTimeout,
	)
	container.GoldPrices = gold
	container.Replies = replies

	if cfg.MessageBusDriver == config.BusMemory && repos.AccountRepo != nil {
		container.Ledger = NewLedgerService(repos.AccountRepo)
	}

	return container
}

// DirectionPolicyFromConfig builds the fiat quoting policy, falling back to the defaults.
func DirectionPolicyFromConfig(cfg *config.Config) DirectionPolicy {
	policy := DefaultDirectionPolicy()
	if cfg.BaseCurrency != "" {
		policy.Base = domain.NewFiat(cfg.BaseCurrency)
	}
	if len(cfg.StrongQuoteCurrencies) > 0 {
		policy.StrongQuotes = make([]domain.Fiat, 0, len(cfg.StrongQuoteCurrencies))
		for _, code := range cfg.StrongQuoteCurrencies {
			policy.StrongQuotes = append(policy.StrongQuotes, domain.NewFiat(code))
		}
	}
	return policy
}
