package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdrm55/vesthub/internal/domain"
)

// PlanRepository implements usecase.PlanRepository.
type PlanRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

const planColumns = `
	id, name, description, annual_rate, duration_months, risk_level, active
`

// GetByID retrieves a plan by ID.
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`

	var plan domain.Plan
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&plan.ID,
		&plan.Name,
		&plan.Description,
		&plan.AnnualRate,
		&plan.DurationMonths,
		&plan.RiskLevel,
		&plan.Active,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

// List retrieves all plans.
func (r *PlanRepository) List(ctx context.Context) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY annual_rate`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		var plan domain.Plan
		err := rows.Scan(
			&plan.ID,
			&plan.Name,
			&plan.Description,
			&plan.AnnualRate,
			&plan.DurationMonths,
			&plan.RiskLevel,
			&plan.Active,
		)
		if err != nil {
			return nil, err
		}
		plans = append(plans, &plan)
	}

	return plans, rows.Err()
}
