package repositories

import (
	"context"

	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for ledger accounts
type AccountReader interface {
	// FindAccountByUserAndCurrency retrieves the account a user holds in one currency.
	FindAccountByUserAndCurrency(ctx context.Context, username, currencyCode string) (*domain.Account, error)
}

// AccountTransactionSupport defines operations that run inside a caller-owned transaction
type AccountTransactionSupport interface {
	// FindAccountsForUpdate locks the user's accounts in the given currencies, in code order.
	FindAccountsForUpdate(ctx context.Context, tx pgx.Tx, username string, currencyCodes []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed deltas keyed by account ID.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal) error

	// SaveLedgerEntriesInTx writes ledger entries.
	SaveLedgerEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error

	// MarkTransactionProcessedInTx records an exchange transaction id; it returns
	// false if the id was already recorded.
	MarkTransactionProcessedInTx(ctx context.Context, tx pgx.Tx, transactionID string) (bool, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
