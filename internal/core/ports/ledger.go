package ports

import (
	"context"
	"errors"

	"ledger-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger-reported failures, distinguishable from communication faults. Any
// other error returned by a LedgerGateway is a remote-communication fault.
var (
	ErrLedgerAccountNotFound   = errors.New("ledger: account not found")
	ErrLedgerAccountNotActive  = errors.New("ledger: account not active")
	ErrLedgerInsufficientFunds = errors.New("ledger: insufficient funds")
)

// AccountSnapshot is the coordinator's read of an account at the ledger
// boundary.
type AccountSnapshot struct {
	ID         uuid.UUID            `json:"id"`
	CustomerID uuid.UUID            `json:"customer_id"`
	Type       domain.AccountType   `json:"type"`
	Balance    decimal.Decimal      `json:"balance"`
	Status     domain.AccountStatus `json:"status"`
}

// LedgerGateway is the synchronous boundary the coordinator uses to read and
// mutate account state. Calls block with a bounded timeout; a timeout is a
// remote-call failure, never a success.
type LedgerGateway interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*AccountSnapshot, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal, op domain.BalanceOperation) error
}
