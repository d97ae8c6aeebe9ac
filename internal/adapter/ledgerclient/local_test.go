package ledgerclient

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"
	"ledger-core/internal/core/ports/mocks"
	"ledger-core/pkg/apperror"
)

func TestLocalGateway_GetAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountService(ctrl)
	gateway := NewLocalGateway(accounts)
	ctx := context.Background()

	accountID := uuid.New()
	customerID := uuid.New()
	accounts.EXPECT().GetAccount(ctx, accountID).Return(&domain.Account{
		ID:         accountID,
		CustomerID: customerID,
		Type:       domain.AccountTypeSavings,
		Balance:    decimal.NewFromInt(500),
		Status:     domain.AccountStatusFrozen,
	}, nil)

	snapshot, err := gateway.GetAccount(ctx, accountID)

	require.NoError(t, err)
	assert.Equal(t, accountID, snapshot.ID)
	assert.Equal(t, customerID, snapshot.CustomerID)
	assert.Equal(t, domain.AccountTypeSavings, snapshot.Type)
	assert.Equal(t, domain.AccountStatusFrozen, snapshot.Status)
	assert.True(t, snapshot.Balance.Equal(decimal.NewFromInt(500)))
}

func TestLocalGateway_SentinelMapping(t *testing.T) {
	tests := []struct {
		name   string
		svcErr error
		want   error
	}{
		{"account not found", apperror.ErrAccountNotFound(), ports.ErrLedgerAccountNotFound},
		{"account not active", apperror.ErrAccountNotActive(), ports.ErrLedgerAccountNotActive},
		{"insufficient funds", apperror.ErrInsufficientFunds(), ports.ErrLedgerInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			accounts := mocks.NewMockAccountService(ctrl)
			gateway := NewLocalGateway(accounts)
			ctx := context.Background()

			accountID := uuid.New()
			accounts.EXPECT().
				MutateBalance(ctx, accountID, decimal.NewFromInt(100), domain.BalanceOperationSubtract).
				Return(decimal.Zero, tt.svcErr)

			err := gateway.UpdateBalance(ctx, accountID, decimal.NewFromInt(100), domain.BalanceOperationSubtract)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLocalGateway_UpdateBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountService(ctrl)
	gateway := NewLocalGateway(accounts)
	ctx := context.Background()

	accountID := uuid.New()
	accounts.EXPECT().
		MutateBalance(ctx, accountID, decimal.NewFromInt(75), domain.BalanceOperationAdd).
		Return(decimal.NewFromInt(175), nil)

	err := gateway.UpdateBalance(ctx, accountID, decimal.NewFromInt(75), domain.BalanceOperationAdd)

	assert.NoError(t, err)
}

func TestLocalGateway_UnknownErrorPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountService(ctrl)
	gateway := NewLocalGateway(accounts)
	ctx := context.Background()

	dbErr := errors.New("connection reset")
	accountID := uuid.New()
	accounts.EXPECT().GetAccount(ctx, accountID).Return(nil, dbErr)

	_, err := gateway.GetAccount(ctx, accountID)

	assert.ErrorIs(t, err, dbErr)
}
