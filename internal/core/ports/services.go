package ports

import (
	"context"
	"time"

	"ledger-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Account Ledger ---

// AccountService owns account state and balance. All balance mutations pass
// through MutateBalance, which serializes the read-check-write per account.
type AccountService interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*domain.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListAccountsByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Account, error)
	// MutateBalance applies a credit or debit and returns the new balance.
	MutateBalance(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, op domain.BalanceOperation) (decimal.Decimal, error)
	SetStatus(ctx context.Context, accountID uuid.UUID, status domain.AccountStatus) (*domain.Account, error)
	// BlockAllForClient blocks every ACTIVE account of the client. Idempotent
	// and best-effort per account: errors are logged, never raised.
	BlockAllForClient(ctx context.Context, customerID uuid.UUID)
}

// CreateAccountRequest holds validated input for account creation.
type CreateAccountRequest struct {
	CustomerID     uuid.UUID
	Type           domain.AccountType
	InitialBalance decimal.Decimal
}

// ClientDirectory is the ledger's synchronous read of client eligibility at
// account-creation time. Returns nil, nil when the client does not exist.
type ClientDirectory interface {
	GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error)
}

// --- Transaction Coordinator ---

// TransactionService coordinates money movements: it validates the request
// against current account state, applies the mutation through the ledger
// boundary, and records the terminal outcome.
type TransactionService interface {
	Create(ctx context.Context, req TransactionRequest) (*domain.Transaction, error)
	Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error)
	Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error)
	// Transfer debits the source and credits the target without a shared
	// database transaction; a failed credit is compensated by re-crediting
	// the source. The returned record is the source leg.
	Transfer(ctx context.Context, req TransferRequest) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

// TransactionRequest holds validated input for a single-account movement.
// ReferenceID deduplicates redelivered requests; when empty, one is
// generated and the request is treated as unique.
type TransactionRequest struct {
	AccountID   uuid.UUID
	Type        domain.TransactionType
	Amount      decimal.Decimal
	ReferenceID string
}

// TransferRequest holds validated input for a two-account transfer.
type TransferRequest struct {
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	Amount          decimal.Decimal
	ReferenceID     string
}

// --- Client Lifecycle ---

// ClientService owns client status. Suspension never calls the ledger
// directly; the cascade to account blocking travels through the event bus.
type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (*domain.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	SuspendClient(ctx context.Context, id uuid.UUID, reason string) (*domain.Client, error)
	ActivateClient(ctx context.Context, id uuid.UUID) (*domain.Client, error)
}

// CreateClientRequest holds validated input for client creation.
type CreateClientRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// --- Thin API boundary ---

// AuthService authenticates back-office operators of the thin API layer.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.Operator, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(operatorID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	OperatorID uuid.UUID
	Username   string
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
