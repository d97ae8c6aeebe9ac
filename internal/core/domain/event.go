package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routing keys follow <entity>.<verb> for topic-based delivery.
const (
	RoutingKeyAccountCreated       = "account.created"
	RoutingKeyTransactionCompleted = "transaction.completed"
	RoutingKeyClientCreated        = "client.created"
	RoutingKeyClientSuspended      = "client.suspended"
)

// Event is an immutable fact published after a state change commits.
// It carries no request context and acknowledges nothing beyond
// "this committed fact happened".
type Event interface {
	RoutingKey() string
}

// AccountCreatedEvent is emitted after a new account is persisted.
type AccountCreatedEvent struct {
	AccountID  uuid.UUID       `json:"account_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Type       AccountType     `json:"type"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (AccountCreatedEvent) RoutingKey() string { return RoutingKeyAccountCreated }

// TransactionCompletedEvent is emitted after a successful transaction commits.
type TransactionCompletedEvent struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CompletedAt   time.Time       `json:"completed_at"`
}

func (TransactionCompletedEvent) RoutingKey() string { return RoutingKeyTransactionCompleted }

// ClientCreatedEvent is emitted after a new client is persisted.
type ClientCreatedEvent struct {
	ClientID  uuid.UUID `json:"client_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (ClientCreatedEvent) RoutingKey() string { return RoutingKeyClientCreated }

// ClientSuspendedEvent is emitted after a client is suspended. The account
// ledger consumes it to block the client's accounts.
type ClientSuspendedEvent struct {
	ClientID    uuid.UUID `json:"client_id"`
	Email       string    `json:"email"`
	Reason      string    `json:"reason"`
	SuspendedAt time.Time `json:"suspended_at"`
}

func (ClientSuspendedEvent) RoutingKey() string { return RoutingKeyClientSuspended }
