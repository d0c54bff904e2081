package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdrm55/vesthub/internal/domain"
	"github.com/pdrm55/vesthub/internal/usecase"
)

// InvestmentRepository implements usecase.InvestmentRepository.
type InvestmentRepository struct {
	pool *pgxpool.Pool
}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(pool *pgxpool.Pool) *InvestmentRepository {
	return &InvestmentRepository{pool: pool}
}

const investmentColumns = `
	id, user_id, plan_id, principal, status, payment_tx_id,
	start_date, end_date, last_profit_date, created_at, updated_at
`

// Create inserts a new investment.
func (r *InvestmentRepository) Create(ctx context.Context, investment *domain.Investment) error {
	query := `
		INSERT INTO investments (` + investmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		investment.ID,
		investment.UserID,
		investment.PlanID,
		investment.Principal,
		investment.Status,
		investment.PaymentTxID,
		investment.StartDate,
		investment.EndDate,
		investment.LastProfitDate,
		investment.CreatedAt,
		investment.UpdatedAt,
	)

	return err
}

// GetByID retrieves an investment by ID.
func (r *InvestmentRepository) GetByID(ctx context.Context, id string) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`
	return scanInvestment(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an investment by ID with a FOR UPDATE lock.
func (r *InvestmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Investment, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1 FOR UPDATE`
	return scanInvestment(pgxTx.QueryRow(ctx, query, id))
}

// ListActiveIDs lists the IDs of all active investments, oldest first. Only
// IDs are returned; the accrual engine re-reads each row under its own lock.
func (r *InvestmentRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT id FROM investments
		WHERE status = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, domain.InvestmentActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ListByUser lists a user's investments with pagination, newest first.
func (r *InvestmentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investments []*domain.Investment
	for rows.Next() {
		investment, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, investment)
	}

	return investments, rows.Err()
}

// UpdateStatus updates an investment's lifecycle status within a transaction.
func (r *InvestmentRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.InvestmentStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `UPDATE investments SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, status, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvestmentNotFound
	}

	return nil
}

// SetPaymentTxID records the payment reference within a transaction.
func (r *InvestmentRepository) SetPaymentTxID(ctx context.Context, tx usecase.Transaction, id, paymentTxID string, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `UPDATE investments SET payment_tx_id = $2, updated_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, paymentTxID, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvestmentNotFound
	}

	return nil
}

// SetLastProfitDate advances the last-profit-date marker within a transaction.
// SetStartDate resets the accrual start when the deposit is approved, so
// profit never accrues for days the investment spent waiting for payment.
func (r *InvestmentRepository) SetStartDate(ctx context.Context, tx usecase.Transaction, id string, start time.Time, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `UPDATE investments SET start_date = $2, updated_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, start, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvestmentNotFound
	}

	return nil
}

func (r *InvestmentRepository) SetLastProfitDate(ctx context.Context, tx usecase.Transaction, id string, day time.Time, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `UPDATE investments SET last_profit_date = $2, updated_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, day, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvestmentNotFound
	}

	return nil
}

func scanInvestment(row pgx.Row) (*domain.Investment, error) {
	var investment domain.Investment
	err := row.Scan(
		&investment.ID,
		&investment.UserID,
		&investment.PlanID,
		&investment.Principal,
		&investment.Status,
		&investment.PaymentTxID,
		&investment.StartDate,
		&investment.EndDate,
		&investment.LastProfitDate,
		&investment.CreatedAt,
		&investment.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvestmentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &investment, nil
}
