package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
	"github.com/pdrm55/vesthub/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository over the
// append-only ledger table.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `
	id, user_id, investment_id, kind, status, amount, description, tx_hash, created_at
`

// Create inserts a new ledger entry within a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	pgxTx := tx.(*Tx).PgxTx()
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := pgxTx.Exec(ctx, query,
		txn.ID,
		txn.UserID,
		txn.InvestmentID,
		txn.Kind,
		txn.Status,
		txn.Amount,
		txn.Description,
		txn.TxHash,
		txn.CreatedAt,
	)

	return err
}

// GetByID retrieves a ledger entry by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a ledger entry by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	return scanTransaction(pgxTx.QueryRow(ctx, query, id))
}

// ProfitExistsOn reports whether a profit entry referencing the investment
// already exists for the given UTC calendar day. The predicate matches the
// expression index on the table, so the check stays cheap as the ledger grows.
func (r *TransactionRepository) ProfitExistsOn(ctx context.Context, tx usecase.Transaction, investmentID string, day time.Time) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE investment_id = $1
			  AND kind = $2
			  AND (created_at AT TIME ZONE 'UTC')::date = $3::date
		)
	`

	var exists bool
	err := pgxTx.QueryRow(ctx, query, investmentID, domain.TxKindProfit, domain.DateOf(day)).Scan(&exists)
	return exists, err
}

// SumCompletedEarnings sums completed profit and referral_bonus entries for a
// user outside any transaction.
func (r *TransactionRepository) SumCompletedEarnings(ctx context.Context, userID string) (decimal.Decimal, error) {
	return sumCompletedEarnings(ctx, r.pool, userID)
}

// SumCompletedEarningsTx is SumCompletedEarnings inside a transaction, for
// balance derivation under the user row lock.
func (r *TransactionRepository) SumCompletedEarningsTx(ctx context.Context, tx usecase.Transaction, userID string) (decimal.Decimal, error) {
	return sumCompletedEarnings(ctx, tx.(*Tx).PgxTx(), userID)
}

// SumHeldWithdrawals sums withdrawal entries that are pending or completed.
// Rejected withdrawals release their hold.
func (r *TransactionRepository) SumHeldWithdrawals(ctx context.Context, userID string) (decimal.Decimal, error) {
	return sumHeldWithdrawals(ctx, r.pool, userID)
}

// SumHeldWithdrawalsTx is SumHeldWithdrawals inside a transaction.
func (r *TransactionRepository) SumHeldWithdrawalsTx(ctx context.Context, tx usecase.Transaction, userID string) (decimal.Decimal, error) {
	return sumHeldWithdrawals(ctx, tx.(*Tx).PgxTx(), userID)
}

// SetStatus resolves a pending entry within a transaction. Ledger rows are
// otherwise immutable; status and tx_hash are the only mutable columns.
func (r *TransactionRepository) SetStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, txHash *string) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `
		UPDATE transactions
		SET status = $2, tx_hash = COALESCE($3, tx_hash)
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query, id, status, txHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByUser lists a user's ledger entries with pagination, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	return r.list(ctx, query, userID, limit, offset)
}

// ListByInvestment lists the ledger entries referencing an investment.
func (r *TransactionRepository) ListByInvestment(ctx context.Context, investmentID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE investment_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	return r.list(ctx, query, investmentID, limit, offset)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func sumCompletedEarnings(ctx context.Context, q querier, userID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		  AND kind IN ($2, $3)
		  AND status = $4
	`

	var sum decimal.Decimal
	err := q.QueryRow(ctx, query,
		userID,
		domain.TxKindProfit,
		domain.TxKindReferralBonus,
		domain.TxStatusCompleted,
	).Scan(&sum)

	return sum, err
}

func sumHeldWithdrawals(ctx context.Context, q querier, userID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		  AND kind = $2
		  AND status IN ($3, $4)
	`

	var sum decimal.Decimal
	err := q.QueryRow(ctx, query,
		userID,
		domain.TxKindWithdrawal,
		domain.TxStatusPending,
		domain.TxStatusCompleted,
	).Scan(&sum)

	return sum, err
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.InvestmentID,
		&txn.Kind,
		&txn.Status,
		&txn.Amount,
		&txn.Description,
		&txn.TxHash,
		&txn.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &txn, nil
}
