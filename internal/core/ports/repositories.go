package ports

import (
	"context"

	"ledger-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking; the read-check-write of balance and status for one
// account must run as a single critical section.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error)
	GetByCustomerAndType(ctx context.Context, customerID uuid.UUID, accountType domain.AccountType) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.AccountStatus) error
}

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ClientStatus) error
}

// TransactionRepository defines persistence for transaction records.
// Records are written once; UpdateOutcome exists solely for the transfer
// saga rewriting its own source leg after a compensation.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
	UpdateOutcome(ctx context.Context, id uuid.UUID, status domain.TransactionStatus, failureReason *string) error
}

// IdempotencyRepository defines persistence for idempotency logs (DB layer
// behind the Redis cache).
type IdempotencyRepository interface {
	Create(ctx context.Context, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// ReconciliationRepository records transfers whose compensation failed and
// need manual correction.
type ReconciliationRepository interface {
	Create(ctx context.Context, entry *domain.ReconciliationEntry) error
	List(ctx context.Context) ([]domain.ReconciliationEntry, error)
}

// OperatorRepository defines persistence for back-office operators.
type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error)
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
