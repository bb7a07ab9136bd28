package repositories

import (
	"context"

	"github.com/SscSPs/exchange_service/internal/core/domain"
)

// ExchangeTransactionWriter persists exchange records.
type ExchangeTransactionWriter interface {
	// SaveExchangeTransaction inserts the record and returns it with its generated ID.
	SaveExchangeTransaction(ctx context.Context, record domain.ExchangeTransactionRecord) (*domain.ExchangeTransactionRecord, error)
}

// ExchangeTransactionReader reads exchange records back.
type ExchangeTransactionReader interface {
	// FindExchangeTransactionByLedgerID looks a record up by the ledger transaction id
	// carried in the balance update notification.
	FindExchangeTransactionByLedgerID(ctx context.Context, ledgerTransactionID string) (*domain.ExchangeTransactionRecord, error)
}

// ExchangeTransactionRepositoryFacade combines exchange record repository interfaces
type ExchangeTransactionRepositoryFacade interface {
	ExchangeTransactionWriter
	ExchangeTransactionReader
}
