package services

// ServiceContainer holds instances of the application services used by the handlers and listeners.
type ServiceContainer struct {
	Exchange   ExchangeSvc
	GoldPrices GoldPriceSvc
	Replies    ReplyDeliverer
	Ledger     LedgerSvc // nil unless this process owns balances
}
