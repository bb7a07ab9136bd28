package services

import (
	"context"

	"github.com/SscSPs/exchange_service/internal/core/domain"
)

// LedgerSvc is the balance owner's side of the balance protocol.
type LedgerSvc interface {
	// CheckBalance always produces a reply carrying req's correlation id.
	CheckBalance(ctx context.Context, req domain.BalanceCheckRequest) domain.BalanceCheckReply

	// ApplyBalanceUpdate debits and credits both legs atomically. Replays of an
	// already applied transaction id are ignored.
	ApplyBalanceUpdate(ctx context.Context, n domain.BalanceUpdateNotification) error
}
