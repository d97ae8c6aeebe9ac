package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the kind of bank account.
type AccountType string

const (
	AccountTypeCurrent AccountType = "CURRENT"
	AccountTypeSavings AccountType = "SAVINGS"
)

// Valid reports whether the account type is a known variant.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCurrent, AccountTypeSavings:
		return true
	}
	return false
}

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "ACTIVE"
	AccountStatusFrozen  AccountStatus = "FROZEN"
	AccountStatusBlocked AccountStatus = "BLOCKED"
	AccountStatusClosed  AccountStatus = "CLOSED"
)

// Valid reports whether the account status is a known variant.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusFrozen, AccountStatusBlocked, AccountStatusClosed:
		return true
	}
	return false
}

// BalanceOperation is the direction of a balance mutation.
type BalanceOperation string

const (
	BalanceOperationAdd      BalanceOperation = "ADD"
	BalanceOperationSubtract BalanceOperation = "SUBTRACT"
)

// Valid reports whether the operation is a known variant.
func (o BalanceOperation) Valid() bool {
	return o == BalanceOperationAdd || o == BalanceOperationSubtract
}

// Account holds a customer's balance. Balance is an exact decimal and is
// never negative; mutation is only permitted while the account is ACTIVE.
type Account struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Type       AccountType     `json:"type"`
	Balance    decimal.Decimal `json:"balance"`
	Status     AccountStatus   `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// IsActive returns true if balance mutations are allowed.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// CanTransitionTo reports whether the account may move to the target status.
// CLOSED is terminal, and closing requires a zero balance. Every other
// transition between ACTIVE, FROZEN and BLOCKED is allowed.
func (a *Account) CanTransitionTo(target AccountStatus) bool {
	if a.Status == AccountStatusClosed {
		return false
	}
	switch target {
	case AccountStatusClosed:
		return a.Balance.IsZero()
	case AccountStatusActive, AccountStatusFrozen, AccountStatusBlocked:
		return true
	}
	return false
}
