package postgres

import (
	"context"
	"testing"
	"time"

	"ledger-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	entry := &domain.IdempotencyLog{
		Key:           "acc-1:DEP-001",
		TransactionID: uuid.New(),
		ResponseJSON:  []byte(`{"status":"SUCCESS"}`),
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO idempotency_logs").
		WithArgs(entry.Key, entry.TransactionID, entry.ResponseJSON, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Create_DuplicateKeyIsNoop(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	entry := &domain.IdempotencyLog{
		Key:           "acc-1:DEP-001",
		TransactionID: uuid.New(),
		ResponseJSON:  []byte(`{}`),
		CreatedAt:     time.Now().UTC(),
	}

	// ON CONFLICT DO NOTHING: zero rows affected, no error.
	mock.ExpectExec("INSERT INTO idempotency_logs").
		WithArgs(entry.Key, entry.TransactionID, entry.ResponseJSON, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err = repo.Create(context.Background(), entry)
	assert.NoError(t, err, "duplicate key should not error, first writer wins")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	txnID := uuid.New()
	created := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"key", "transaction_id", "response_json", "created_at"}).
		AddRow("acc-1:DEP-001", txnID, []byte(`{"status":"SUCCESS"}`), created)

	mock.ExpectQuery("SELECT .+ FROM idempotency_logs WHERE key").
		WithArgs("acc-1:DEP-001").
		WillReturnRows(rows)

	result, err := repo.Get(context.Background(), "acc-1:DEP-001")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txnID, result.TransactionID)
	assert.JSONEq(t, `{"status":"SUCCESS"}`, string(result.ResponseJSON))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM idempotency_logs WHERE key").
		WithArgs("missing-key").
		WillReturnRows(pgxmock.NewRows([]string{"key", "transaction_id", "response_json", "created_at"}))

	result, err := repo.Get(context.Background(), "missing-key")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
