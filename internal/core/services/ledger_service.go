package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/exchange_service/internal/apperrors"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_service/internal/core/ports/services"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService owns account balances and answers the balance protocol.
type LedgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
	validate    *validator.Validate
	now         func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryWithTx) *LedgerService {
	return &LedgerService{
		accountRepo: accountRepo,
		validate:    validator.New(),
		now:         time.Now,
	}
}

var _ portssvc.LedgerSvc = (*LedgerService)(nil)

// CheckBalance implements portssvc.LedgerSvc. Any lookup problem answers false.
func (s *LedgerService) CheckBalance(ctx context.Context, req domain.BalanceCheckRequest) domain.BalanceCheckReply {
	reply := domain.BalanceCheckReply{CorrelationID: req.CorrelationID}

	if err := s.validate.Struct(req); err != nil {
		s.LogWarn(ctx, "invalid balance check request", "error", err.Error())
		return reply
	}
	if req.Amount.IsNegative() {
		s.LogWarn(ctx, "balance check for negative amount", "amount", req.Amount.String())
		return reply
	}

	account, err := s.accountRepo.FindAccountByUserAndCurrency(ctx, req.Username, req.Currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "no account for balance check", "username", req.Username, "currency", req.Currency)
		} else {
			s.LogError(ctx, err, "balance lookup failed", "username", req.Username, "currency", req.Currency)
		}
		return reply
	}

	reply.HasEnoughBalance = account.Covers(req.Amount)
	return reply
}

// ApplyBalanceUpdate implements portssvc.LedgerSvc.
func (s *LedgerService) ApplyBalanceUpdate(ctx context.Context, n domain.BalanceUpdateNotification) error {
	if err := s.validate.Struct(n); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !n.FromAmount.IsPositive() || !n.ToAmount.IsPositive() {
		return fmt.Errorf("%w: amounts must be positive", apperrors.ErrValidation)
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.accountRepo.Rollback(ctx, tx) // no-op once committed

	fresh, err := s.accountRepo.MarkTransactionProcessedInTx(ctx, tx, n.TransactionID)
	if err != nil {
		return err
	}
	if !fresh {
		s.LogInfo(ctx, "balance update already applied", "transaction_id", n.TransactionID)
		return nil
	}

	accounts, err := s.accountRepo.FindAccountsForUpdate(ctx, tx, n.Username, []string{n.FromCurrency, n.ToCurrency})
	if err != nil {
		return err
	}
	from, ok := accounts[n.FromCurrency]
	if !ok {
		return apperrors.NewNotFoundError("source account " + n.FromCurrency + " not found for " + n.Username)
	}
	to, ok := accounts[n.ToCurrency]
	if !ok {
		return apperrors.NewNotFoundError("target account " + n.ToCurrency + " not found for " + n.Username)
	}
	if !from.Covers(n.FromAmount) {
		return fmt.Errorf("%w in %s: have %s, need %s", apperrors.ErrInsufficientBalance, n.FromCurrency, from.Balance, n.FromAmount)
	}

	if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, map[string]decimal.Decimal{
		from.AccountID: n.FromAmount.Neg(),
		to.AccountID:   n.ToAmount,
	}); err != nil {
		return err
	}

	if err := s.accountRepo.SaveLedgerEntriesInTx(ctx, tx, exchangeEntries(n, from, to, s.now().UTC())); err != nil {
		return err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return err
	}
	s.LogInfo(ctx, "balance update applied", "transaction_id", n.TransactionID, "username", n.Username)
	return nil
}

// exchangeEntries builds the EXCHANGE_OUT and EXCHANGE_IN legs, each pointing at the other.
func exchangeEntries(n domain.BalanceUpdateNotification, from, to domain.Account, now time.Time) []domain.LedgerEntry {
	outID, inID := uuid.NewString(), uuid.NewString()
	description := fmt.Sprintf("Exchange from %s to %s", n.FromCurrency, n.ToCurrency)
	audit := domain.AuditFields{CreatedAt: now, LastUpdatedAt: now}

	return []domain.LedgerEntry{
		{
			EntryID:             outID,
			AccountID:           from.AccountID,
			Amount:              n.FromAmount.Neg(),
			EntryType:           domain.ExchangeOut,
			RelatedCurrency:     n.ToCurrency,
			RelatedEntryID:      inID,
			ExchangeTransaction: n.TransactionID,
			Description:         description,
			AuditFields:         audit,
		},
		{
			EntryID:             inID,
			AccountID:           to.AccountID,
			Amount:              n.ToAmount,
			EntryType:           domain.ExchangeIn,
			RelatedCurrency:     n.FromCurrency,
			RelatedEntryID:      outID,
			ExchangeTransaction: n.TransactionID,
			Description:         description,
			AuditFields:         audit,
		},
	}
}
