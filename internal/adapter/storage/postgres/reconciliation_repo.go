package postgres

import (
	"context"
	"fmt"

	"ledger-core/internal/core/domain"
)

// ReconciliationRepo implements ports.ReconciliationRepository.
type ReconciliationRepo struct {
	pool Pool
}

// NewReconciliationRepo creates a new ReconciliationRepo.
func NewReconciliationRepo(pool Pool) *ReconciliationRepo {
	return &ReconciliationRepo{pool: pool}
}

// Create inserts a reconciliation entry for a transfer whose compensation
// failed.
func (r *ReconciliationRepo) Create(ctx context.Context, e *domain.ReconciliationEntry) error {
	query := `INSERT INTO reconciliation_entries (id, source_txn_id, source_account_id, target_account_id, amount, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.SourceTxnID, e.SourceAccountID, e.TargetAccountID,
		e.Amount, e.Details, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reconciliation entry: %w", err)
	}
	return nil
}

// List returns all reconciliation entries, newest first.
func (r *ReconciliationRepo) List(ctx context.Context) ([]domain.ReconciliationEntry, error) {
	query := `SELECT id, source_txn_id, source_account_id, target_account_id, amount, details, created_at
		FROM reconciliation_entries ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reconciliation entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.ReconciliationEntry
	for rows.Next() {
		var e domain.ReconciliationEntry
		if err := rows.Scan(
			&e.ID, &e.SourceTxnID, &e.SourceAccountID, &e.TargetAccountID,
			&e.Amount, &e.Details, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reconciliation entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reconciliation entries: %w", err)
	}
	return entries, nil
}
