package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Account Ledger (ACC) ----

func ErrAccountNotFound() *AppError {
	return New("ACC_001", "Account not found", http.StatusNotFound)
}

func ErrAccountNotActive() *AppError {
	return New("ACC_002", "Account is not active", http.StatusConflict)
}

func ErrInsufficientFunds() *AppError {
	return New("ACC_003", "Insufficient funds", http.StatusPaymentRequired)
}

func ErrInvalidTransition(detail string) *AppError {
	return New("ACC_004", fmt.Sprintf("Invalid status transition: %s", detail), http.StatusConflict)
}

func ErrDuplicateCurrentAccount() *AppError {
	return New("ACC_005", "Client already has a current account", http.StatusConflict)
}

func ErrClientNotEligible(detail string) *AppError {
	return New("ACC_006", fmt.Sprintf("Client not eligible: %s", detail), http.StatusUnprocessableEntity)
}

// ---- Transaction Coordinator (TXN) ----

func ErrInvalidAmount() *AppError {
	return New("TXN_001", "Amount must be greater than zero", http.StatusBadRequest)
}

func ErrUnsupportedTransactionType(t string) *AppError {
	return New("TXN_002", fmt.Sprintf("Unsupported transaction type: %s", t), http.StatusBadRequest)
}

func ErrTransactionNotFound() *AppError {
	return New("TXN_003", "Transaction not found", http.StatusNotFound)
}

func ErrSameAccountTransfer() *AppError {
	return New("TXN_004", "Source and target accounts must differ", http.StatusBadRequest)
}

// ---- Client Lifecycle (CLI) ----

func ErrClientNotFound() *AppError {
	return New("CLI_001", "Client not found", http.StatusNotFound)
}

func ErrEmailExists() *AppError {
	return New("CLI_002", "Email already registered", http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a TXN_001-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
