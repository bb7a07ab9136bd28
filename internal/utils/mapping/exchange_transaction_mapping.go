package mapping

import (
	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/SscSPs/exchange_service/internal/models"
)

// ToModelExchangeTransaction converts a domain ExchangeTransactionRecord to a model ExchangeTransaction
func ToModelExchangeTransaction(d domain.ExchangeTransactionRecord) models.ExchangeTransaction {
	return models.ExchangeTransaction{
		ID:                  d.ID,
		AccountReference:    d.AccountReference,
		FromCurrency:        d.FromCurrency,
		ToCurrency:          d.ToCurrency,
		FromAmount:          d.FromAmount,
		ToAmount:            d.ToAmount,
		TransactionType:     string(d.TransactionType),
		LedgerTransactionID: d.LedgerTransactionID,
		CreatedAt:           d.Timestamp,
	}
}

// ToDomainExchangeTransaction converts a model ExchangeTransaction to a domain ExchangeTransactionRecord
func ToDomainExchangeTransaction(m models.ExchangeTransaction) domain.ExchangeTransactionRecord {
	return domain.ExchangeTransactionRecord{
		ID:                  m.ID,
		AccountReference:    m.AccountReference,
		FromCurrency:        m.FromCurrency,
		ToCurrency:          m.ToCurrency,
		FromAmount:          m.FromAmount,
		ToAmount:            m.ToAmount,
		TransactionType:     domain.TransactionIntent(m.TransactionType),
		LedgerTransactionID: m.LedgerTransactionID,
		Timestamp:           m.CreatedAt,
	}
}
