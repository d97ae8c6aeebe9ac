package handler

import (
	"ledger-core/internal/adapter/http/dto"
	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"
	"ledger-core/pkg/apperror"
	"ledger-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// AccountHandler handles account ledger endpoints.
type AccountHandler struct {
	accountSvc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// CreateAccount handles POST /api/v1/accounts.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid customer_id"))
		return
	}

	account, err := h.accountSvc.CreateAccount(c.Request.Context(), ports.CreateAccountRequest{
		CustomerID:     customerID,
		Type:           domain.AccountType(req.Type),
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toAccountResponse(account))
}

// GetAccount handles GET /api/v1/accounts/:id.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	account, err := h.accountSvc.GetAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAccountResponse(account))
}

// ListAccounts handles GET /api/v1/accounts. An optional customer_id query
// parameter narrows the listing to one customer.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		accounts []domain.Account
		err      error
	)
	if raw := c.Query("customer_id"); raw != "" {
		customerID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			response.Error(c, apperror.Validation("invalid customer_id"))
			return
		}
		accounts, err = h.accountSvc.ListAccountsByCustomer(ctx, customerID)
	} else {
		accounts, err = h.accountSvc.ListAccounts(ctx)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResponse(&accounts[i]))
	}
	response.OK(c, items)
}

// UpdateBalance handles PUT /api/v1/accounts/:id/balance. This is the
// ledger-boundary endpoint the coordinator calls in a remote deployment.
func (h *AccountHandler) UpdateBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	var req dto.UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	balance, err := h.accountSvc.MutateBalance(c.Request.Context(), id, req.Amount, domain.BalanceOperation(req.Operation))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		AccountID: id.String(),
		Balance:   balance,
	})
}

// Freeze handles POST /api/v1/accounts/:id/freeze.
func (h *AccountHandler) Freeze(c *gin.Context) {
	h.setStatus(c, domain.AccountStatusFrozen)
}

// Block handles POST /api/v1/accounts/:id/block.
func (h *AccountHandler) Block(c *gin.Context) {
	h.setStatus(c, domain.AccountStatusBlocked)
}

// Activate handles POST /api/v1/accounts/:id/activate.
func (h *AccountHandler) Activate(c *gin.Context) {
	h.setStatus(c, domain.AccountStatusActive)
}

// Close handles POST /api/v1/accounts/:id/close.
func (h *AccountHandler) Close(c *gin.Context) {
	h.setStatus(c, domain.AccountStatusClosed)
}

func (h *AccountHandler) setStatus(c *gin.Context, status domain.AccountStatus) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	account, err := h.accountSvc.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAccountResponse(account))
}

// toAccountResponse converts domain.Account to DTO.
func toAccountResponse(a *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:         a.ID.String(),
		CustomerID: a.CustomerID.String(),
		Type:       string(a.Type),
		Balance:    a.Balance,
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt.Format(timeFormat),
		UpdatedAt:  a.UpdatedAt.Format(timeFormat),
	}
}
