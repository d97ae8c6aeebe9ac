package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ledger-core/internal/adapter/http/dto"
	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"
	"ledger-core/internal/core/ports/mocks"
	"ledger-core/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(t *testing.T, method string, target string, payload any) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	operatorID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), "teller-01", "password123").Return(&domain.Operator{
		ID:       operatorID,
		Username: "teller-01",
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Username: "teller-01",
		Password: "password123",
	})

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, operatorID.String(), data["operator_id"])
	assert.Equal(t, "teller-01", data["username"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w, c := jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]string{})

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "teller-01", "password123").Return("jwt-token-123", expiry, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.LoginRequest{
		Username: "teller-01",
		Password: "password123",
	})

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad", "badpassword").
		Return("", time.Time{}, apperror.ErrInvalidCredentials())

	w, c := jsonRequest(t, http.MethodPost, "/", dto.LoginRequest{
		Username: "bad",
		Password: "badpassword",
	})

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Account Handler Tests ---

func newTestAccountDomain(customerID uuid.UUID) *domain.Account {
	now := time.Now()
	return &domain.Account{
		ID:         uuid.New(),
		CustomerID: customerID,
		Type:       domain.AccountTypeCurrent,
		Balance:    decimal.NewFromInt(1000),
		Status:     domain.AccountStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCreateAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	customerID := uuid.New()
	account := newTestAccountDomain(customerID)

	mockAccounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.CreateAccountRequest) (*domain.Account, error) {
			assert.Equal(t, customerID, req.CustomerID)
			assert.Equal(t, domain.AccountTypeCurrent, req.Type)
			assert.True(t, req.InitialBalance.Equal(decimal.NewFromInt(1000)))
			return account, nil
		})

	w, c := jsonRequest(t, http.MethodPost, "/", dto.CreateAccountRequest{
		CustomerID:     customerID.String(),
		Type:           "CURRENT",
		InitialBalance: decimal.NewFromInt(1000),
	})

	h.CreateAccount(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, account.ID.String(), data["id"])
	assert.Equal(t, "CURRENT", data["type"])
	assert.Equal(t, "ACTIVE", data["status"])
}

func TestCreateAccount_DuplicateCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	mockAccounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrDuplicateCurrentAccount())

	w, c := jsonRequest(t, http.MethodPost, "/", dto.CreateAccountRequest{
		CustomerID: uuid.New().String(),
		Type:       "CURRENT",
	})

	h.CreateAccount(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetAccount_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetAccount(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	accountID := uuid.New()
	mockAccounts.EXPECT().
		MutateBalance(gomock.Any(), accountID, decimal.NewFromInt(250), domain.BalanceOperationSubtract).
		Return(decimal.NewFromInt(750), nil)

	w, c := jsonRequest(t, http.MethodPut, "/", dto.UpdateBalanceRequest{
		Amount:    decimal.NewFromInt(250),
		Operation: "SUBTRACT",
	})
	c.Params = gin.Params{{Key: "id", Value: accountID.String()}}

	h.UpdateBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, accountID.String(), data["account_id"])
	assert.Equal(t, "750", data["balance"])
}

func TestUpdateBalance_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	accountID := uuid.New()
	mockAccounts.EXPECT().
		MutateBalance(gomock.Any(), accountID, gomock.Any(), domain.BalanceOperationSubtract).
		Return(decimal.Zero, apperror.ErrInsufficientFunds())

	w, c := jsonRequest(t, http.MethodPut, "/", dto.UpdateBalanceRequest{
		Amount:    decimal.NewFromInt(9999),
		Operation: "SUBTRACT",
	})
	c.Params = gin.Params{{Key: "id", Value: accountID.String()}}

	h.UpdateBalance(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestFreezeAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	customerID := uuid.New()
	account := newTestAccountDomain(customerID)
	account.Status = domain.AccountStatusFrozen

	mockAccounts.EXPECT().
		SetStatus(gomock.Any(), account.ID, domain.AccountStatusFrozen).
		Return(account, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: account.ID.String()}}

	h.Freeze(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "FROZEN", data["status"])
}

func TestCloseAccount_NonZeroBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	accountID := uuid.New()
	mockAccounts.EXPECT().
		SetStatus(gomock.Any(), accountID, domain.AccountStatusClosed).
		Return(nil, apperror.ErrInvalidTransition("cannot close account with non-zero balance"))

	w, c := jsonRequest(t, http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: accountID.String()}}

	h.Close(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListAccounts_ByCustomer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	customerID := uuid.New()
	mockAccounts.EXPECT().ListAccountsByCustomer(gomock.Any(), customerID).
		Return([]domain.Account{*newTestAccountDomain(customerID)}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/?customer_id="+customerID.String(), nil)

	h.ListAccounts(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 1)
}

// --- Transaction Handler Tests ---

func newTestTransaction(accountID uuid.UUID) *domain.Transaction {
	return &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        domain.TransactionTypeDeposit,
		Amount:      decimal.NewFromInt(500),
		Status:      domain.TransactionStatusSuccess,
		ReferenceID: "DEP-001",
		CreatedAt:   time.Now(),
	}
}

func TestCreateTransaction_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTxn := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTxn)

	accountID := uuid.New()
	txn := newTestTransaction(accountID)

	mockTxn.EXPECT().Create(gomock.Any(), ports.TransactionRequest{
		AccountID:   accountID,
		Type:        domain.TransactionTypeDeposit,
		Amount:      decimal.NewFromInt(500),
		ReferenceID: "DEP-001",
	}).Return(txn, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.CreateTransactionRequest{
		AccountID:   accountID.String(),
		Type:        "DEPOSIT",
		Amount:      decimal.NewFromInt(500),
		ReferenceID: "DEP-001",
	})

	h.CreateTransaction(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, txn.ID.String(), data["id"])
	assert.Equal(t, "DEPOSIT", data["type"])
	assert.Equal(t, "SUCCESS", data["status"])
}

func TestCreateTransaction_FailedRecordIsStillCreated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTxn := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTxn)

	accountID := uuid.New()
	reason := "insufficient funds"
	txn := newTestTransaction(accountID)
	txn.Type = domain.TransactionTypeWithdrawal
	txn.Status = domain.TransactionStatusFailed
	txn.FailureReason = &reason

	// A business rejection comes back as a FAILED record, not an HTTP error.
	mockTxn.EXPECT().Create(gomock.Any(), gomock.Any()).Return(txn, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.CreateTransactionRequest{
		AccountID:   accountID.String(),
		Type:        "WITHDRAWAL",
		Amount:      decimal.NewFromInt(99999),
		ReferenceID: "WD-001",
	})

	h.CreateTransaction(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "FAILED", data["status"])
	assert.Equal(t, "insufficient funds", data["failure_reason"])
}

func TestTransfer_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTxn := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTxn)

	sourceID := uuid.New()
	targetID := uuid.New()
	transferID := uuid.New()
	txn := newTestTransaction(sourceID)
	txn.Type = domain.TransactionTypeTransfer
	txn.TransferID = &transferID

	mockTxn.EXPECT().Transfer(gomock.Any(), ports.TransferRequest{
		SourceAccountID: sourceID,
		TargetAccountID: targetID,
		Amount:          decimal.NewFromInt(500),
		ReferenceID:     "TRF-001",
	}).Return(txn, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.TransferRequest{
		SourceAccountID: sourceID.String(),
		TargetAccountID: targetID.String(),
		Amount:          decimal.NewFromInt(500),
		ReferenceID:     "TRF-001",
	})

	h.Transfer(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, transferID.String(), data["transfer_id"])
	assert.Equal(t, "TRANSFER", data["type"])
}

func TestTransfer_SameAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTxn := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTxn)

	accountID := uuid.New()
	mockTxn.EXPECT().Transfer(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrSameAccountTransfer())

	w, c := jsonRequest(t, http.MethodPost, "/", dto.TransferRequest{
		SourceAccountID: accountID.String(),
		TargetAccountID: accountID.String(),
		Amount:          decimal.NewFromInt(10),
		ReferenceID:     "TRF-002",
	})

	h.Transfer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTxn := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTxn)

	accountID := uuid.New()
	txn := newTestTransaction(accountID)
	mockTxn.EXPECT().Deposit(gomock.Any(), accountID, decimal.NewFromInt(500)).Return(txn, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.AmountRequest{Amount: decimal.NewFromInt(500)})
	c.Params = gin.Params{{Key: "id", Value: accountID.String()}}

	h.Deposit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGetTransaction_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTxn := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTxn)

	id := uuid.New()
	mockTxn.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, apperror.ErrTransactionNotFound())

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetTransaction(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTransactions_ByAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTxn := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTxn)

	accountID := uuid.New()
	mockTxn.EXPECT().ListByAccount(gomock.Any(), accountID).
		Return([]domain.Transaction{*newTestTransaction(accountID)}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/?account_id="+accountID.String(), nil)

	h.ListTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 1)
}

// --- Client Handler Tests ---

func newTestClientDomain() *domain.Client {
	now := time.Now()
	return &domain.Client{
		ID:        uuid.New(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "0123456789",
		Address:   "12 Analytical Row",
		Status:    domain.ClientStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateClient_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClients := mocks.NewMockClientService(ctrl)
	h := NewClientHandler(mockClients)

	client := newTestClientDomain()
	mockClients.EXPECT().CreateClient(gomock.Any(), ports.CreateClientRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "0123456789",
		Address:   "12 Analytical Row",
	}).Return(client, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.CreateClientRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "0123456789",
		Address:   "12 Analytical Row",
	})

	h.CreateClient(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, client.ID.String(), data["id"])
	assert.Equal(t, "ACTIVE", data["status"])
}

func TestCreateClient_EmailExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClients := mocks.NewMockClientService(ctrl)
	h := NewClientHandler(mockClients)

	mockClients.EXPECT().CreateClient(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrEmailExists())

	w, c := jsonRequest(t, http.MethodPost, "/", dto.CreateClientRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})

	h.CreateClient(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSuspendClient_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClients := mocks.NewMockClientService(ctrl)
	h := NewClientHandler(mockClients)

	client := newTestClientDomain()
	client.Status = domain.ClientStatusSuspended

	mockClients.EXPECT().SuspendClient(gomock.Any(), client.ID, "fraud review").Return(client, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.SuspendClientRequest{Reason: "fraud review"})
	c.Params = gin.Params{{Key: "id", Value: client.ID.String()}}

	h.SuspendClient(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "SUSPENDED", data["status"])
}

func TestSuspendClient_MissingReason(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClients := mocks.NewMockClientService(ctrl)
	h := NewClientHandler(mockClients)

	w, c := jsonRequest(t, http.MethodPost, "/", map[string]string{})
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

	h.SuspendClient(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Reconciliation Handler Tests ---

func TestListReconciliations_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRecon := mocks.NewMockReconciliationRepository(ctrl)
	h := NewReconciliationHandler(mockRecon)

	mockRecon.EXPECT().List(gomock.Any()).Return([]domain.ReconciliationEntry{
		{
			ID:              uuid.New(),
			SourceTxnID:     uuid.New(),
			SourceAccountID: uuid.New(),
			TargetAccountID: uuid.New(),
			Amount:          decimal.NewFromInt(500),
			Details:         "credit failed (account not active); compensation failed (gateway timeout)",
			CreatedAt:       time.Now(),
		},
	}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 1)
}

func TestListReconciliations_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRecon := mocks.NewMockReconciliationRepository(ctrl)
	h := NewReconciliationHandler(mockRecon)

	mockRecon.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

	w, c := jsonRequest(t, http.MethodGet, "/", nil)

	h.List(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Health Check Test ---

type stubHealthChecker struct {
	name string
	err  error
}

func (s stubHealthChecker) Ping(context.Context) error { return s.err }
func (s stubHealthChecker) Name() string               { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	w, c := jsonRequest(t, http.MethodGet, "/health", nil)

	HealthCheck(stubHealthChecker{name: "postgres"}, stubHealthChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Len(t, deps, 2)
}

func TestHealthCheck_Degraded(t *testing.T) {
	w, c := jsonRequest(t, http.MethodGet, "/health", nil)

	HealthCheck(
		stubHealthChecker{name: "postgres"},
		stubHealthChecker{name: "redis", err: errors.New("connection refused")},
	)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}
