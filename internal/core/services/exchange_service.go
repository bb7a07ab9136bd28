package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/exchange_service/internal/apperrors"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/SscSPs/exchange_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_service/internal/core/ports/services"
)

const failurePrefix = "Exchange failed: "

// errUnexpected replaces panics recovered from a stage.
var errUnexpected = errors.New("unexpected internal error")

// ExchangeService runs RATE_LOOKUP → CONVERT → BALANCE_CHECK → BALANCE_UPDATE →
// PERSIST for each exchange. Any failure ends the run; nothing is retried or
// rolled back.
type ExchangeService struct {
	BaseService
	rates        portssvc.RateSource
	converter    portssvc.Converter
	balances     portssvc.BalanceProtocol
	records      repositories.ExchangeTransactionWriter
	checkTimeout time.Duration
	now          func() time.Time
}

// ExchangeServiceOption configures an ExchangeService.
type ExchangeServiceOption func(*ExchangeService)

// WithClock overrides the time source used for result and record timestamps.
func WithClock(now func() time.Time) ExchangeServiceOption {
	return func(s *ExchangeService) { s.now = now }
}

// NewExchangeService creates a new ExchangeService.
func NewExchangeService(
	rates portssvc.RateSource,
	converter portssvc.Converter,
	balances portssvc.BalanceProtocol,
	records repositories.ExchangeTransactionWriter,
	checkTimeout time.Duration,
	opts ...ExchangeServiceOption,
) *ExchangeService {
	s := &ExchangeService{
		rates:        rates,
		converter:    converter,
		balances:     balances,
		records:      records,
		checkTimeout: checkTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ExchangeSvc = (*ExchangeService)(nil)

// ProcessExchange implements portssvc.ExchangeSvc.
func (s *ExchangeService) ProcessExchange(ctx context.Context, identity string, req domain.ExchangeRequest) (result domain.ExchangeResult) {
	stage := domain.StageValidate
	logger := s.GetLogger(ctx).With("identity", identity, "account_reference", req.AccountReference)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("exchange panicked", "stage", stage, "panic", fmt.Sprint(r))
			result = s.failed(stage, errUnexpected)
		}
	}()

	result, err := s.run(ctx, identity, req, &stage)
	if err != nil {
		logger.Warn("exchange failed", "stage", stage, "error", err.Error())
		return s.failed(stage, err)
	}
	logger.Info("exchange completed",
		"from", result.FromCurrency, "to", result.ToCurrency,
		"from_amount", result.FromAmount.String(), "to_amount", result.ToAmount.String(),
		"transaction_id", result.TransactionID)
	return result
}

func (s *ExchangeService) run(ctx context.Context, identity string, req domain.ExchangeRequest, stage *domain.ExchangeStage) (domain.ExchangeResult, error) {
	if err := validateExchangeRequest(identity, req); err != nil {
		return domain.ExchangeResult{}, err
	}

	*stage = domain.StageRateLookup
	quote, err := s.rates.Quote(ctx, req.From, req.To)
	if err != nil {
		return domain.ExchangeResult{}, err
	}

	*stage = domain.StageConvert
	conversion, err := s.converter.Convert(req.Amount, quote, req.From, req.To)
	if err != nil {
		return domain.ExchangeResult{}, err
	}

	*stage = domain.StageBalanceCheck
	hasEnough, err := s.balances.CheckBalance(ctx, identity, req.From.Code(), conversion.ActualCost, s.checkTimeout)
	if err != nil {
		return domain.ExchangeResult{}, err
	}
	if !hasEnough {
		return domain.ExchangeResult{}, fmt.Errorf("%w in %s", apperrors.ErrInsufficientBalance, req.From.Code())
	}

	*stage = domain.StageBalanceUpdate
	ledgerTxID, err := s.balances.UpdateBalance(ctx, identity, req.From.Code(), req.To.Code(), conversion.ActualCost, conversion.ConvertedAmount)
	if err != nil {
		return domain.ExchangeResult{}, err
	}

	*stage = domain.StagePersist
	executedAt := s.now().UTC()
	saved, err := s.records.SaveExchangeTransaction(ctx, domain.ExchangeTransactionRecord{
		AccountReference:    req.AccountReference,
		FromCurrency:        req.From.Code(),
		ToCurrency:          req.To.Code(),
		FromAmount:          conversion.ActualCost,
		ToAmount:            conversion.ConvertedAmount,
		TransactionType:     req.Intent,
		LedgerTransactionID: ledgerTxID,
		Timestamp:           executedAt,
	})
	if err != nil {
		// The ledger has already been told to move funds; the record is missing
		// until reconciled by ledger transaction id.
		s.LogError(ctx, err, "exchange record not saved after balance update", "ledger_transaction_id", ledgerTxID)
		return domain.ExchangeResult{}, fmt.Errorf("balance updated under ledger transaction %s but the exchange record was not saved: %w", ledgerTxID, err)
	}

	*stage = domain.StageSuccess
	return domain.ExchangeResult{
		Status:        domain.ExchangeSucceeded,
		Message:       successMessage(req.Intent),
		ExecutedRate:  quote.Rate,
		FromAmount:    conversion.ActualCost,
		FromCurrency:  req.From.Code(),
		ToAmount:      conversion.ConvertedAmount,
		ToCurrency:    req.To.Code(),
		Timestamp:     executedAt,
		TransactionID: saved.ID,
	}, nil
}

func (s *ExchangeService) failed(stage domain.ExchangeStage, err error) domain.ExchangeResult {
	return domain.ExchangeResult{
		Status:      domain.ExchangeFailed,
		Message:     failurePrefix + err.Error(),
		Timestamp:   s.now().UTC(),
		FailedStage: stage,
	}
}

func validateExchangeRequest(identity string, req domain.ExchangeRequest) error {
	switch {
	case identity == "":
		return fmt.Errorf("%w: identity is required", apperrors.ErrValidation)
	case req.From == nil || req.To == nil:
		return fmt.Errorf("%w: both currencies are required", apperrors.ErrValidation)
	case req.From.Code() == req.To.Code():
		return fmt.Errorf("%w: cannot exchange %s to itself", apperrors.ErrValidation, req.From.Code())
	case !req.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	case req.Intent != domain.Buy && req.Intent != domain.Sell:
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Intent)
	}
	return nil
}

func successMessage(intent domain.TransactionIntent) string {
	if intent == domain.Sell {
		return "Sale completed"
	}
	return "Purchase completed"
}
