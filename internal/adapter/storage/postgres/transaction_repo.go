package postgres

import (
	"context"
	"fmt"

	"secure-wallet/internal/core/domain"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Save inserts a ledger record for the user.
func (r *TransactionRepo) Save(ctx context.Context, email string, tx *domain.Transaction) error {
	query := `INSERT INTO transactions (id, email, kind, amount, currency, from_party, to_party, timestamp, status, fee, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		tx.ID, email, tx.Kind, tx.Amount, tx.Currency,
		tx.From, tx.To, tx.Timestamp, tx.Status, tx.Fee, tx.Note,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List returns the user's ledger, newest-first.
func (r *TransactionRepo) List(ctx context.Context, email string) ([]domain.Transaction, error) {
	query := `SELECT id, kind, amount, currency, from_party, to_party, timestamp, status, fee, note
		FROM transactions WHERE email = $1 ORDER BY timestamp DESC`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var records []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(
			&tx.ID, &tx.Kind, &tx.Amount, &tx.Currency,
			&tx.From, &tx.To, &tx.Timestamp, &tx.Status, &tx.Fee, &tx.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		records = append(records, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return records, nil
}
