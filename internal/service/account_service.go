package service

import (
	"context"
	"fmt"
	"time"

	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"
	"ledger-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountServiceImpl implements ports.AccountService. It is the single owner
// of account balance and status; every mutation locks the account row so
// concurrent debits cannot overdraw it.
type AccountServiceImpl struct {
	accountRepo ports.AccountRepository
	clients     ports.ClientDirectory
	transactor  ports.DBTransactor
	publisher   ports.EventPublisher
	log         zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	accountRepo ports.AccountRepository,
	clients ports.ClientDirectory,
	transactor ports.DBTransactor,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		clients:     clients,
		transactor:  transactor,
		publisher:   publisher,
		log:         log,
	}
}

// CreateAccount opens a new ACTIVE account after verifying the owning client
// exists and is ACTIVE (synchronous read). A client holds at most one
// CURRENT account.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, req ports.CreateAccountRequest) (*domain.Account, error) {
	if !req.Type.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown account type %q", req.Type))
	}
	if req.InitialBalance.IsNegative() {
		return nil, apperror.Validation("initial balance must not be negative")
	}

	client, err := s.clients.GetClient(ctx, req.CustomerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("client eligibility check: %w", err))
	}
	if client == nil {
		return nil, apperror.ErrClientNotEligible("client not found")
	}
	if !client.IsActive() {
		return nil, apperror.ErrClientNotEligible("client is not active")
	}

	if req.Type == domain.AccountTypeCurrent {
		existing, err := s.accountRepo.GetByCustomerAndType(ctx, req.CustomerID, domain.AccountTypeCurrent)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("current account check: %w", err))
		}
		if existing != nil {
			return nil, apperror.ErrDuplicateCurrentAccount()
		}
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:         uuid.New(),
		CustomerID: req.CustomerID,
		Type:       req.Type,
		Balance:    req.InitialBalance,
		Status:     domain.AccountStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	s.publish(ctx, domain.AccountCreatedEvent{
		AccountID:  account.ID,
		CustomerID: account.CustomerID,
		Type:       account.Type,
		Balance:    account.Balance,
		CreatedAt:  account.CreatedAt,
	})

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("customer_id", account.CustomerID.String()).
		Str("type", string(account.Type)).
		Msg("account created")

	return account, nil
}

// GetAccount fetches an account by id.
func (s *AccountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

// ListAccounts returns every account.
func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}
	return accounts, nil
}

// ListAccountsByCustomer returns a client's accounts.
func (s *AccountServiceImpl) ListAccountsByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts by customer: %w", err))
	}
	return accounts, nil
}

// MutateBalance applies a credit or debit with pessimistic locking. The
// status check, sufficiency check and write happen under one row lock, so
// the balance can never go negative under concurrent debits.
func (s *AccountServiceImpl) MutateBalance(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, op domain.BalanceOperation) (decimal.Decimal, error) {
	if !op.Valid() {
		return decimal.Zero, apperror.Validation(fmt.Sprintf("invalid balance operation %q", op))
	}
	if !amount.IsPositive() {
		return decimal.Zero, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, accountID)
	if err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return decimal.Zero, apperror.ErrAccountNotFound()
	}
	if !account.IsActive() {
		return decimal.Zero, apperror.ErrAccountNotActive()
	}

	var newBalance decimal.Decimal
	switch op {
	case domain.BalanceOperationAdd:
		newBalance = account.Balance.Add(amount)
	case domain.BalanceOperationSubtract:
		newBalance = account.Balance.Sub(amount)
		if newBalance.IsNegative() {
			return decimal.Zero, apperror.ErrInsufficientFunds()
		}
	}

	if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.ID, newBalance); err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Debug().
		Str("account_id", account.ID.String()).
		Str("operation", string(op)).
		Str("amount", amount.String()).
		Str("new_balance", newBalance.String()).
		Msg("balance mutated")

	return newBalance, nil
}

// SetStatus transitions the account to a new status. CLOSED is terminal and
// an account may close only at a zero balance.
func (s *AccountServiceImpl) SetStatus(ctx context.Context, accountID uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	if !status.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown account status %q", status))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	if !account.CanTransitionTo(status) {
		if account.Status == domain.AccountStatusClosed {
			return nil, apperror.ErrInvalidTransition("account is closed")
		}
		return nil, apperror.ErrInvalidTransition("cannot close an account with a non-zero balance")
	}

	if err := s.accountRepo.UpdateStatus(ctx, dbTx, account.ID, status); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update status: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	account.Status = status
	account.UpdatedAt = time.Now().UTC()

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("status", string(status)).
		Msg("account status changed")

	return account, nil
}

// BlockAllForClient transitions every ACTIVE account of the client to
// BLOCKED. Accounts already non-ACTIVE are left untouched, which makes the
// operation idempotent against event redelivery. Per-account errors are
// logged, never raised.
func (s *AccountServiceImpl) BlockAllForClient(ctx context.Context, customerID uuid.UUID) {
	accounts, err := s.accountRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.log.Error().Err(err).
			Str("customer_id", customerID.String()).
			Msg("listing accounts for blocking failed")
		return
	}

	blocked := 0
	for i := range accounts {
		if accounts[i].Status != domain.AccountStatusActive {
			continue
		}
		if _, err := s.SetStatus(ctx, accounts[i].ID, domain.AccountStatusBlocked); err != nil {
			s.log.Error().Err(err).
				Str("account_id", accounts[i].ID.String()).
				Msg("blocking account failed")
			continue
		}
		blocked++
	}

	s.log.Info().
		Str("customer_id", customerID.String()).
		Int("blocked", blocked).
		Msg("blocked accounts for suspended client")
}

// publish sends an event best-effort. The state change has already
// committed, so a publish failure is logged and swallowed.
func (s *AccountServiceImpl) publish(ctx context.Context, event domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("routing_key", event.RoutingKey()).Msg("event publish failed")
	}
}
