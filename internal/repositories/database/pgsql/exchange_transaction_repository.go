package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/exchange_service/internal/apperrors"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_service/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_service/internal/models"
	"github.com/SscSPs/exchange_service/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExchangeTransactionRepository struct {
	BaseRepository
}

// newPgxExchangeTransactionRepository creates a new repository for exchange records.
func newPgxExchangeTransactionRepository(pool *pgxpool.Pool) portsrepo.ExchangeTransactionRepositoryFacade {
	return &PgxExchangeTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeTransactionRepositoryFacade = (*PgxExchangeTransactionRepository)(nil)

// SaveExchangeTransaction inserts an exchange record and returns it with its generated ID.
func (r *PgxExchangeTransactionRepository) SaveExchangeTransaction(ctx context.Context, record domain.ExchangeTransactionRecord) (*domain.ExchangeTransactionRecord, error) {
	m := mapping.ToModelExchangeTransaction(record)

	query := `
		INSERT INTO exchange_transactions (
			account_reference, from_currency, to_currency, from_amount, to_amount,
			transaction_type, ledger_transaction_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id;
	`
	err := r.Pool.QueryRow(ctx, query,
		m.AccountReference,
		m.FromCurrency,
		m.ToCurrency,
		m.FromAmount,
		m.ToAmount,
		m.TransactionType,
		m.LedgerTransactionID,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return nil, fmt.Errorf("%w: exchange for ledger transaction %s already recorded", apperrors.ErrDuplicate, m.LedgerTransactionID)
		}
		return nil, fmt.Errorf("failed to save exchange transaction: %w", err)
	}

	saved := mapping.ToDomainExchangeTransaction(m)
	return &saved, nil
}

// FindExchangeTransactionByLedgerID looks a record up by its ledger transaction id.
func (r *PgxExchangeTransactionRepository) FindExchangeTransactionByLedgerID(ctx context.Context, ledgerTransactionID string) (*domain.ExchangeTransactionRecord, error) {
	query := `
		SELECT id, account_reference, from_currency, to_currency, from_amount, to_amount,
			transaction_type, ledger_transaction_id, created_at
		FROM exchange_transactions
		WHERE ledger_transaction_id = $1;
	`
	var m models.ExchangeTransaction
	err := r.Pool.QueryRow(ctx, query, ledgerTransactionID).Scan(
		&m.ID,
		&m.AccountReference,
		&m.FromCurrency,
		&m.ToCurrency,
		&m.FromAmount,
		&m.ToAmount,
		&m.TransactionType,
		&m.LedgerTransactionID,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange transaction for ledger transaction " + ledgerTransactionID + " not found")
		}
		return nil, fmt.Errorf("failed to find exchange transaction %s: %w", ledgerTransactionID, err)
	}

	record := mapping.ToDomainExchangeTransaction(m)
	return &record, nil
}
