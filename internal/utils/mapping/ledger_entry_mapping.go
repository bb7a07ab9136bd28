package mapping

import (
	"github.com/SscSPs/exchange_service/internal/core/domain"
	"github.com/SscSPs/exchange_service/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:               d.EntryID,
		AccountID:             d.AccountID,
		Amount:                d.Amount,
		EntryType:             models.LedgerEntryType(d.EntryType),
		RelatedCurrency:       d.RelatedCurrency,
		RelatedEntryID:        d.RelatedEntryID,
		ExchangeTransactionID: d.ExchangeTransaction,
		Description:           d.Description,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:             m.EntryID,
		AccountID:           m.AccountID,
		Amount:              m.Amount,
		EntryType:           domain.LedgerEntryType(m.EntryType),
		RelatedCurrency:     m.RelatedCurrency,
		RelatedEntryID:      m.RelatedEntryID,
		ExchangeTransaction: m.ExchangeTransactionID,
		Description:         m.Description,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}
