package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypePayment    TransactionType = "PAYMENT"
)

// Valid reports whether the transaction type is a known variant.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer, TransactionTypePayment:
		return true
	}
	return false
}

// Operation maps the transaction type to the ledger balance operation.
// DEPOSIT credits the account; everything else, including the debit leg of a
// transfer, subtracts from it.
func (t TransactionType) Operation() BalanceOperation {
	if t == TransactionTypeDeposit {
		return BalanceOperationAdd
	}
	return BalanceOperationSubtract
}

// IsDebit reports whether the type subtracts from the target account.
func (t TransactionType) IsDebit() bool {
	return t.Operation() == BalanceOperationSubtract
}

// TransactionStatus is the terminal outcome of a transaction attempt.
// Intermediate coordinator states are never persisted.
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is the immutable record of one money-movement attempt.
// The coordinator is the only writer; the one permitted rewrite is the
// transfer saga marking its own source leg FAILED after a compensation.
type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	AccountID     uuid.UUID         `json:"account_id"`
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	Status        TransactionStatus `json:"status"`
	FailureReason *string           `json:"failure_reason,omitempty"`
	ReferenceID   string            `json:"reference_id"`
	TransferID    *uuid.UUID        `json:"transfer_id,omitempty"` // links the two legs of a transfer
	CreatedAt     time.Time         `json:"created_at"`
}

// IsSuccess returns true if the movement was applied.
func (t *Transaction) IsSuccess() bool {
	return t.Status == TransactionStatusSuccess
}

// BuildIdempotencyKey derives the idempotency key for a transaction request.
func BuildIdempotencyKey(accountID uuid.UUID, referenceID string) string {
	return fmt.Sprintf("%s:%s", accountID.String(), referenceID)
}

// BuildTransferIdempotencyKey derives the idempotency key for a transfer,
// scoped to the source account.
func BuildTransferIdempotencyKey(sourceAccountID uuid.UUID, referenceID string) string {
	return fmt.Sprintf("transfer:%s:%s", sourceAccountID.String(), referenceID)
}

// IdempotencyLog is the durable record of a request outcome, replayed on
// redelivery of the same reference.
type IdempotencyLog struct {
	Key           string    `json:"key"`
	TransactionID uuid.UUID `json:"transaction_id"`
	ResponseJSON  []byte    `json:"response_json"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReconciliationEntry flags a transfer whose compensation could not be
// applied: the source account was debited, the target credit failed, and the
// compensating credit also failed. Requires manual correction.
type ReconciliationEntry struct {
	ID              uuid.UUID       `json:"id"`
	SourceTxnID     uuid.UUID       `json:"source_txn_id"`
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	TargetAccountID uuid.UUID       `json:"target_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Details         string          `json:"details"`
	CreatedAt       time.Time       `json:"created_at"`
}
