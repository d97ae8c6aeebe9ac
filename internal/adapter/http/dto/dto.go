package dto

import "github.com/shopspring/decimal"

// RegisterRequest is the request body for operator registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	OperatorID string `json:"operator_id"`
	Username   string `json:"username"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateAccountRequest is the request body for account creation.
type CreateAccountRequest struct {
	CustomerID     string          `json:"customer_id" binding:"required,uuid"`
	Type           string          `json:"type" binding:"required,oneof=CURRENT SAVINGS"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// UpdateBalanceRequest is the request body for a direct balance mutation.
type UpdateBalanceRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Operation string          `json:"operation" binding:"required,oneof=ADD SUBTRACT"`
}

// AccountResponse is the response body for account state.
type AccountResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Type       string          `json:"type"`
	Balance    decimal.Decimal `json:"balance"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

// BalanceResponse is the response body after a balance mutation.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// CreateTransactionRequest is the request body for a single-account movement.
type CreateTransactionRequest struct {
	AccountID   string          `json:"account_id" binding:"required,uuid"`
	Type        string          `json:"type" binding:"required,oneof=DEPOSIT WITHDRAWAL PAYMENT"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ReferenceID string          `json:"reference_id" binding:"max=100"`
}

// AmountRequest is the request body for deposit and withdrawal shortcuts.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// TransferRequest is the request body for a two-account transfer.
type TransferRequest struct {
	SourceAccountID string          `json:"source_account_id" binding:"required,uuid"`
	TargetAccountID string          `json:"target_account_id" binding:"required,uuid"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	ReferenceID     string          `json:"reference_id" binding:"max=100"`
}

// TransactionResponse is the response body for a transaction record.
type TransactionResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	FailureReason *string         `json:"failure_reason,omitempty"`
	ReferenceID   string          `json:"reference_id"`
	TransferID    *string         `json:"transfer_id,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// CreateClientRequest is the request body for client creation.
type CreateClientRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"max=30"`
	Address   string `json:"address" binding:"max=200"`
}

// SuspendClientRequest is the request body for client suspension.
type SuspendClientRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=200"`
}

// ClientResponse is the response body for client state.
type ClientResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
