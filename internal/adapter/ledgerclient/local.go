package ledgerclient

import (
	"context"
	"errors"

	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"
	"ledger-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocalGateway implements ports.LedgerGateway by calling the in-process
// account service directly. The coordinator sees the exact same error
// surface as with the HTTP gateway, so the topology stays swappable.
type LocalGateway struct {
	accounts ports.AccountService
}

// NewLocalGateway creates a gateway over the in-process account service.
func NewLocalGateway(accounts ports.AccountService) *LocalGateway {
	return &LocalGateway{accounts: accounts}
}

// GetAccount reads the current account snapshot.
func (g *LocalGateway) GetAccount(ctx context.Context, id uuid.UUID) (*ports.AccountSnapshot, error) {
	account, err := g.accounts.GetAccount(ctx, id)
	if err != nil {
		return nil, mapAccountError(err)
	}
	return &ports.AccountSnapshot{
		ID:         account.ID,
		CustomerID: account.CustomerID,
		Type:       account.Type,
		Balance:    account.Balance,
		Status:     account.Status,
	}, nil
}

// UpdateBalance applies a credit or debit on the in-process ledger.
func (g *LocalGateway) UpdateBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal, op domain.BalanceOperation) error {
	if _, err := g.accounts.MutateBalance(ctx, id, amount, op); err != nil {
		return mapAccountError(err)
	}
	return nil
}

// mapAccountError translates account-service errors into the gateway's
// sentinel errors by code, mirroring what mapLedgerError does over HTTP.
func mapAccountError(err error) error {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Code {
	case "ACC_001":
		return ports.ErrLedgerAccountNotFound
	case "ACC_002":
		return ports.ErrLedgerAccountNotActive
	case "ACC_003":
		return ports.ErrLedgerInsufficientFunds
	}
	return err
}
