package pgsql

import (
	portsrepo "github.com/SscSPs/exchange_service/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds every repository over one pool. Each binary
// only touches the tables its own migrations create.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeTransactionRepo: newPgxExchangeTransactionRepository(dbPool),
		AccountRepo:             newPgxAccountRepository(dbPool),
	}
}
