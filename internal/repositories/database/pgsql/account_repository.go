package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/exchange_service/internal/apperrors"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_service/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_service/internal/models"
	"github.com/SscSPs/exchange_service/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for ledger accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

// FindAccountByUserAndCurrency retrieves the account a user holds in one currency.
func (r *PgxAccountRepository) FindAccountByUserAndCurrency(ctx context.Context, username, currencyCode string) (*domain.Account, error) {
	query := `
		SELECT account_id, username, currency_code, balance, created_at, last_updated_at
		FROM accounts
		WHERE username = $1 AND currency_code = $2;
	`
	var modelAcc models.Account
	err := r.Pool.QueryRow(ctx, query, username, currencyCode).Scan(
		&modelAcc.AccountID,
		&modelAcc.Username,
		&modelAcc.CurrencyCode,
		&modelAcc.Balance,
		&modelAcc.CreatedAt,
		&modelAcc.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + currencyCode + " not found for user " + username)
		}
		return nil, fmt.Errorf("failed to find account for user %s in %s: %w", username, currencyCode, err)
	}

	domainAcc := mapping.ToDomainAccount(modelAcc)
	return &domainAcc, nil
}

// FindAccountsForUpdate locks the user's accounts in the given currencies and returns
// them keyed by currency code. Rows are locked in currency order so concurrent
// updates over the same pair cannot deadlock. Missing accounts are simply absent
// from the result. Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsForUpdate(ctx context.Context, tx pgx.Tx, username string, currencyCodes []string) (map[string]domain.Account, error) {
	if len(currencyCodes) == 0 {
		return map[string]domain.Account{}, nil
	}
	codes := append([]string(nil), currencyCodes...)
	sort.Strings(codes)

	query := `
		SELECT account_id, username, currency_code, balance, created_at, last_updated_at
		FROM accounts
		WHERE username = $1 AND currency_code = ANY($2)
		ORDER BY currency_code
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, username, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for update: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(codes))
	for rows.Next() {
		var modelAcc models.Account
		if err := rows.Scan(
			&modelAcc.AccountID,
			&modelAcc.Username,
			&modelAcc.CurrencyCode,
			&modelAcc.Balance,
			&modelAcc.CreatedAt,
			&modelAcc.LastUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accounts[modelAcc.CurrencyCode] = mapping.ToDomainAccount(modelAcc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(accounts) != len(codes) {
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "username", username, "requested", codes, "found", len(accounts))
	}
	return accounts, nil
}

// UpdateAccountBalancesInTx applies signed balance deltas keyed by account ID.
// A delta that would take a balance below zero fails with ErrInsufficientBalance.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3
		WHERE account_id = $1 AND balance + $2 >= 0;
	`
	now := time.Now().UTC()

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID, delta := range balanceChanges {
		if !delta.IsZero() {
			accountIDs = append(accountIDs, accountID)
		}
	}
	sort.Strings(accountIDs)

	batch := &pgx.Batch{}
	for _, accountID := range accountIDs {
		batch.Queue(query, accountID, balanceChanges[accountID], now)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if batchErr != nil {
			continue
		}
		if err != nil {
			batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
		} else if ct.RowsAffected() == 0 {
			batchErr = fmt.Errorf("%w: account %s cannot absorb change %s", apperrors.ErrInsufficientBalance, accountIDs[i], balanceChanges[accountIDs[i]])
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}

// SaveLedgerEntriesInTx writes ledger entries within a transaction.
func (r *PgxAccountRepository) SaveLedgerEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO ledger_entries (
			entry_id, account_id, amount, entry_type, related_currency, related_entry_id,
			exchange_transaction_id, description, created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelLedgerEntry(entry)
		batch.Queue(query,
			m.EntryID,
			m.AccountID,
			m.Amount,
			m.EntryType,
			m.RelatedCurrency,
			m.RelatedEntryID,
			m.ExchangeTransactionID,
			m.Description,
			m.CreatedAt,
			m.LastUpdatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert ledger entry %s: %w", entries[i].EntryID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close ledger entry batch: %w", err)
	}
	return batchErr
}

// MarkTransactionProcessedInTx records transactionID and reports whether it is new.
func (r *PgxAccountRepository) MarkTransactionProcessedInTx(ctx context.Context, tx pgx.Tx, transactionID string) (bool, error) {
	query := `
		INSERT INTO processed_transactions (transaction_id, processed_at)
		VALUES ($1, $2)
		ON CONFLICT (transaction_id) DO NOTHING;
	`
	ct, err := tx.Exec(ctx, query, transactionID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return false, fmt.Errorf("failed to record transaction %s (code %s): %w", transactionID, pgErr.Code, err)
		}
		return false, fmt.Errorf("failed to record transaction %s: %w", transactionID, err)
	}
	return ct.RowsAffected() == 1, nil
}
