package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"
	"ledger-core/pkg/apperror"
	"ledger-core/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const idempotencyTTL = 24 * time.Hour

// Failure reasons recorded on FAILED transactions. Remote and internal
// faults keep distinguishable prefixes so business failures can be told
// apart from infrastructure failures later.
const (
	reasonAccountNotFound   = "account not found"
	reasonAccountNotActive  = "account not active"
	reasonInsufficientFunds = "insufficient funds"
)

// TransactionServiceImpl implements ports.TransactionService. It coordinates
// a movement across the ledger boundary and owns every Transaction record;
// no other component writes them.
type TransactionServiceImpl struct {
	txRepo     ports.TransactionRepository
	idempRepo  ports.IdempotencyRepository
	idempCache ports.IdempotencyCache
	reconRepo  ports.ReconciliationRepository
	ledger     ports.LedgerGateway
	publisher  ports.EventPublisher
	collector  *metrics.Collector // nil = metrics disabled
	log        zerolog.Logger
}

// NewTransactionService creates a new TransactionServiceImpl.
func NewTransactionService(
	txRepo ports.TransactionRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	reconRepo ports.ReconciliationRepository,
	ledger ports.LedgerGateway,
	publisher ports.EventPublisher,
	collector *metrics.Collector,
	log zerolog.Logger,
) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		txRepo:     txRepo,
		idempRepo:  idempRepo,
		idempCache: idempCache,
		reconRepo:  reconRepo,
		ledger:     ledger,
		publisher:  publisher,
		collector:  collector,
		log:        log,
	}
}

// Create runs one non-transfer transaction attempt to its terminal RECORDED
// state. Domain-rule failures come back as a FAILED record, not an error;
// the returned error is reserved for internal faults (the record itself
// could not be written).
func (s *TransactionServiceImpl) Create(ctx context.Context, req ports.TransactionRequest) (*domain.Transaction, error) {
	if !req.Type.Valid() {
		return nil, apperror.ErrUnsupportedTransactionType(string(req.Type))
	}
	if req.Type == domain.TransactionTypeTransfer {
		return nil, apperror.Validation("transfers must use the transfer operation")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	ref := req.ReferenceID
	if ref == "" {
		ref = newReference(req.Type, req.AccountID)
	}

	idempKey := domain.BuildIdempotencyKey(req.AccountID, ref)
	if cached, ok := s.lookupIdempotent(ctx, idempKey); ok {
		return cached, nil
	}

	txn := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      req.Amount,
		ReferenceID: ref,
		CreatedAt:   time.Now().UTC(),
	}

	return s.execute(ctx, txn, idempKey)
}

// Deposit credits an account.
func (s *TransactionServiceImpl) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.Create(ctx, ports.TransactionRequest{
		AccountID: accountID,
		Type:      domain.TransactionTypeDeposit,
		Amount:    amount,
	})
}

// Withdraw debits an account.
func (s *TransactionServiceImpl) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.Create(ctx, ports.TransactionRequest{
		AccountID: accountID,
		Type:      domain.TransactionTypeWithdrawal,
		Amount:    amount,
	})
}

// Transfer moves funds between two accounts with saga compensation instead
// of a shared transaction. The debit leg runs the ordinary algorithm; if the
// target credit then fails, the source debit is reversed. A transfer always
// ends as either {source debit success, target deposit success} or {source
// FAILED, no target-side effect}.
func (s *TransactionServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.SourceAccountID == req.TargetAccountID {
		return nil, apperror.ErrSameAccountTransfer()
	}

	ref := req.ReferenceID
	if ref == "" {
		ref = newReference(domain.TransactionTypeTransfer, req.SourceAccountID)
	}

	idempKey := domain.BuildTransferIdempotencyKey(req.SourceAccountID, ref)
	if cached, ok := s.lookupIdempotent(ctx, idempKey); ok {
		return cached, nil
	}

	transferID := uuid.New()
	sourceTxn := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   req.SourceAccountID,
		Type:        domain.TransactionTypeTransfer,
		Amount:      req.Amount,
		ReferenceID: ref,
		TransferID:  &transferID,
		CreatedAt:   time.Now().UTC(),
	}

	// Debit leg. The idempotency outcome is stored only once the whole
	// transfer reaches its terminal state, so no key is passed here.
	rec, err := s.execute(ctx, sourceTxn, "")
	if err != nil {
		return nil, err
	}
	if !rec.IsSuccess() {
		s.storeIdempotent(ctx, idempKey, rec)
		return rec, nil
	}

	// Credit leg.
	if creditErr := s.creditTarget(ctx, req, ref, transferID); creditErr != nil {
		rec = s.compensate(ctx, rec, req, creditErr)
		s.storeIdempotent(ctx, idempKey, rec)
		return rec, nil
	}

	s.storeIdempotent(ctx, idempKey, rec)

	s.log.Info().
		Str("transfer_id", transferID.String()).
		Str("source_account_id", req.SourceAccountID.String()).
		Str("target_account_id", req.TargetAccountID.String()).
		Str("amount", req.Amount.String()).
		Msg("transfer completed")

	return rec, nil
}

// GetTransaction fetches a transaction by id.
func (s *TransactionServiceImpl) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	return txn, nil
}

// ListTransactions returns every transaction record.
func (s *TransactionServiceImpl) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// ListByAccount returns the records targeting one account.
func (s *TransactionServiceImpl) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	txns, err := s.txRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions by account: %w", err))
	}
	return txns, nil
}

// execute runs the validate/apply/record pipeline for a single leg. The
// intermediate states live only inside this call; the record persisted at
// the end is the first externally observable outcome.
func (s *TransactionServiceImpl) execute(ctx context.Context, txn *domain.Transaction, idempKey string) (*domain.Transaction, error) {
	// Validate against current account state, read synchronously.
	snapshot, err := s.ledger.GetAccount(ctx, txn.AccountID)
	if err != nil {
		if errors.Is(err, ports.ErrLedgerAccountNotFound) {
			return s.recordFailure(ctx, txn, idempKey, reasonAccountNotFound)
		}
		return s.recordFailure(ctx, txn, idempKey, remoteReason(err))
	}
	if snapshot.Status != domain.AccountStatusActive {
		return s.recordFailure(ctx, txn, idempKey, reasonAccountNotActive)
	}

	// Skip the remote call when the debit visibly exceeds the balance.
	if txn.Type.IsDebit() && txn.Amount.GreaterThan(snapshot.Balance) {
		return s.recordFailure(ctx, txn, idempKey, reasonInsufficientFunds)
	}

	// Apply the mutation at the ledger boundary.
	if err := s.ledger.UpdateBalance(ctx, txn.AccountID, txn.Amount, txn.Type.Operation()); err != nil {
		return s.recordFailure(ctx, txn, idempKey, applyFailureReason(err))
	}

	// Record the terminal outcome. The balance has committed; a failure
	// here is an internal fault, not a reason to pretend nothing moved.
	txn.Status = domain.TransactionStatusSuccess
	if err := s.txRepo.Create(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record transaction: %w", err))
	}

	s.recordMetric(txn)
	s.publish(ctx, domain.TransactionCompletedEvent{
		TransactionID: txn.ID,
		AccountID:     txn.AccountID,
		Type:          txn.Type,
		Amount:        txn.Amount,
		CompletedAt:   time.Now().UTC(),
	})
	if idempKey != "" {
		s.storeIdempotent(ctx, idempKey, txn)
	}

	s.log.Info().
		Str("txn_id", txn.ID.String()).
		Str("account_id", txn.AccountID.String()).
		Str("type", string(txn.Type)).
		Str("amount", txn.Amount.String()).
		Msg("transaction applied")

	return txn, nil
}

// creditTarget applies the second transfer leg: credit the target account
// and persist its DEPOSIT record. Any error triggers compensation.
func (s *TransactionServiceImpl) creditTarget(ctx context.Context, req ports.TransferRequest, ref string, transferID uuid.UUID) error {
	if err := s.ledger.UpdateBalance(ctx, req.TargetAccountID, req.Amount, domain.BalanceOperationAdd); err != nil {
		return fmt.Errorf("%s", applyFailureReason(err))
	}

	leg := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   req.TargetAccountID,
		Type:        domain.TransactionTypeDeposit,
		Amount:      req.Amount,
		Status:      domain.TransactionStatusSuccess,
		ReferenceID: ref + "-credit",
		TransferID:  &transferID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, leg); err != nil {
		return fmt.Errorf("internal error: record target leg: %v", err)
	}

	s.recordMetric(leg)
	return nil
}

// compensate restores the source debit after a failed credit leg and marks
// the source record FAILED. The compensating credit is attempted once; if it
// also fails the transfer is left in a partial state that must be surfaced
// loudly for manual reconciliation, never swallowed.
func (s *TransactionServiceImpl) compensate(ctx context.Context, sourceTxn *domain.Transaction, req ports.TransferRequest, cause error) *domain.Transaction {
	if err := s.ledger.UpdateBalance(ctx, req.SourceAccountID, req.Amount, domain.BalanceOperationAdd); err != nil {
		entry := &domain.ReconciliationEntry{
			ID:              uuid.New(),
			SourceTxnID:     sourceTxn.ID,
			SourceAccountID: req.SourceAccountID,
			TargetAccountID: req.TargetAccountID,
			Amount:          req.Amount,
			Details:         fmt.Sprintf("credit failed (%v); compensation failed (%v)", cause, err),
			CreatedAt:       time.Now().UTC(),
		}
		if rerr := s.reconRepo.Create(ctx, entry); rerr != nil {
			s.log.Error().Err(rerr).Str("txn_id", sourceTxn.ID.String()).Msg("writing reconciliation entry failed")
		}
		if s.collector != nil {
			s.collector.RecordCompensationFailure()
		}
		s.log.Error().
			Err(err).
			Str("txn_id", sourceTxn.ID.String()).
			Str("source_account_id", req.SourceAccountID.String()).
			Str("amount", req.Amount.String()).
			Msg("TRANSFER COMPENSATION FAILED: source debited without target credit, manual reconciliation required")
	} else {
		if s.collector != nil {
			s.collector.RecordCompensation()
		}
		s.log.Warn().
			Str("txn_id", sourceTxn.ID.String()).
			Msg("transfer credit failed, source debit compensated")
	}

	reason := fmt.Sprintf("credit on target failed: %v", cause)
	if err := s.txRepo.UpdateOutcome(ctx, sourceTxn.ID, domain.TransactionStatusFailed, &reason); err != nil {
		s.log.Error().Err(err).Str("txn_id", sourceTxn.ID.String()).Msg("marking source leg failed errored")
	}

	sourceTxn.Status = domain.TransactionStatusFailed
	sourceTxn.FailureReason = &reason
	if s.collector != nil {
		s.collector.RecordTransaction(string(sourceTxn.Type), string(domain.TransactionStatusFailed))
	}
	return sourceTxn
}

// recordFailure persists a FAILED record. The balance is untouched; the
// record is the terminal, externally observable outcome of the attempt.
func (s *TransactionServiceImpl) recordFailure(ctx context.Context, txn *domain.Transaction, idempKey string, reason string) (*domain.Transaction, error) {
	txn.Status = domain.TransactionStatusFailed
	txn.FailureReason = &reason
	if err := s.txRepo.Create(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record failed transaction: %w", err))
	}

	s.recordMetric(txn)
	if idempKey != "" {
		s.storeIdempotent(ctx, idempKey, txn)
	}

	s.log.Warn().
		Str("txn_id", txn.ID.String()).
		Str("account_id", txn.AccountID.String()).
		Str("type", string(txn.Type)).
		Str("reason", reason).
		Msg("transaction failed")

	return txn, nil
}

// lookupIdempotent checks the Redis cache, then the DB log, for an already
// recorded outcome of this reference. Redelivered requests replay it.
func (s *TransactionServiceImpl) lookupIdempotent(ctx context.Context, key string) (*domain.Transaction, bool) {
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		if txn := unmarshalTransaction(cached, s.log); txn != nil {
			return txn, true
		}
	}

	idempLog, err := s.idempRepo.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("db idempotency check failed")
		return nil, false
	}
	if idempLog != nil {
		if txn := unmarshalTransaction(idempLog.ResponseJSON, s.log); txn != nil {
			return txn, true
		}
	}
	return nil, false
}

// storeIdempotent records the terminal outcome in the DB log and the Redis
// cache, best-effort.
func (s *TransactionServiceImpl) storeIdempotent(ctx context.Context, key string, txn *domain.Transaction) {
	respJSON, err := json.Marshal(txn)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("marshaling idempotency payload failed")
		return
	}

	entry := &domain.IdempotencyLog{
		Key:           key,
		TransactionID: txn.ID,
		ResponseJSON:  respJSON,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.idempRepo.Create(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("saving idempotency log failed")
	}
	if err := s.idempCache.Set(ctx, key, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("caching idempotency in redis failed")
	}
}

// publish sends an event best-effort after the outcome has committed.
func (s *TransactionServiceImpl) publish(ctx context.Context, event domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		if s.collector != nil {
			s.collector.RecordEventPublishFailure()
		}
		s.log.Warn().Err(err).Str("routing_key", event.RoutingKey()).Msg("event publish failed")
		return
	}
	if s.collector != nil {
		s.collector.RecordEventPublished(event.RoutingKey())
	}
}

func (s *TransactionServiceImpl) recordMetric(txn *domain.Transaction) {
	if s.collector != nil {
		s.collector.RecordTransaction(string(txn.Type), string(txn.Status))
	}
}

// applyFailureReason classifies a mutateBalance error into a reason string
// that keeps remote account faults distinguishable from internal faults.
func applyFailureReason(err error) string {
	switch {
	case errors.Is(err, ports.ErrLedgerAccountNotFound):
		return reasonAccountNotFound
	case errors.Is(err, ports.ErrLedgerAccountNotActive):
		return reasonAccountNotActive
	case errors.Is(err, ports.ErrLedgerInsufficientFunds):
		return reasonInsufficientFunds
	default:
		return remoteReason(err)
	}
}

func remoteReason(err error) string {
	return fmt.Sprintf("remote account error: %v", err)
}

func unmarshalTransaction(data []byte, log zerolog.Logger) *domain.Transaction {
	txn := &domain.Transaction{}
	if err := json.Unmarshal(data, txn); err != nil {
		log.Warn().Err(err).Msg("unmarshaling cached transaction failed")
		return nil
	}
	return txn
}

func newReference(t domain.TransactionType, accountID uuid.UUID) string {
	return fmt.Sprintf("%s-%s-%d", t, accountID.String()[:8], time.Now().UnixMilli())
}
