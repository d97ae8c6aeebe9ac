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

// TransactionHandler handles transaction coordinator endpoints.
type TransactionHandler struct {
	txSvc ports.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txSvc ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{txSvc: txSvc}
}

// CreateTransaction handles POST /api/v1/transactions.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid account_id"))
		return
	}

	txn, err := h.txSvc.Create(c.Request.Context(), ports.TransactionRequest{
		AccountID:   accountID,
		Type:        domain.TransactionType(req.Type),
		Amount:      req.Amount,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Deposit handles POST /api/v1/accounts/:id/deposit.
func (h *TransactionHandler) Deposit(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.txSvc.Deposit(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Withdraw handles POST /api/v1/accounts/:id/withdraw.
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.txSvc.Withdraw(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Transfer handles POST /api/v1/transactions/transfer.
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	sourceID, err := uuid.Parse(req.SourceAccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid source_account_id"))
		return
	}
	targetID, err := uuid.Parse(req.TargetAccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid target_account_id"))
		return
	}

	txn, err := h.txSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		SourceAccountID: sourceID,
		TargetAccountID: targetID,
		Amount:          req.Amount,
		ReferenceID:     req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// GetTransaction handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	txn, err := h.txSvc.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(txn))
}

// ListTransactions handles GET /api/v1/transactions. An optional account_id
// query parameter narrows the listing to one account.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		txns []domain.Transaction
		err  error
	)
	if raw := c.Query("account_id"); raw != "" {
		accountID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			response.Error(c, apperror.Validation("invalid account_id"))
			return
		}
		txns, err = h.txSvc.ListByAccount(ctx, accountID)
	} else {
		txns, err = h.txSvc.ListTransactions(ctx)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}
	response.OK(c, items)
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:            t.ID.String(),
		AccountID:     t.AccountID.String(),
		Type:          string(t.Type),
		Amount:        t.Amount,
		Status:        string(t.Status),
		FailureReason: t.FailureReason,
		ReferenceID:   t.ReferenceID,
		CreatedAt:     t.CreatedAt.Format(timeFormat),
	}
	if t.TransferID != nil {
		s := t.TransferID.String()
		resp.TransferID = &s
	}
	return resp
}
