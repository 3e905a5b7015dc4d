package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/entity"
	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/repository"
)

// incentiveFormulaRepo implements repository.IncentiveFormulaRepository
type incentiveFormulaRepo struct {
	pool *pgxpool.Pool
}

// NewIncentiveFormulaRepository creates a new incentive formula repository
func NewIncentiveFormulaRepository(pool *pgxpool.Pool) repository.IncentiveFormulaRepository {
	return &incentiveFormulaRepo{pool: pool}
}

// Create stores a formula and deactivates the employee's previous active one
// in the same transaction, so at most one formula is active per employee.
func (r *incentiveFormulaRepo) Create(ctx context.Context, f *entity.IncentiveFormula) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"UPDATE incentive_formulas SET is_active = false, updated_at = NOW() WHERE employee_id = $1 AND is_active = true",
		f.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to deactivate previous formula: %w", err)
	}

	query := `
		INSERT INTO incentive_formulas (id, employee_id, name, expression, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, query,
		f.ID, f.EmployeeID, f.Name, f.Expression, f.IsActive, f.CreatedBy, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert formula: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *incentiveFormulaRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.IncentiveFormula, error) {
	query := `
		SELECT id, employee_id, name, expression, is_active, created_by, created_at, updated_at
		FROM incentive_formulas WHERE id = $1
	`
	var f entity.IncentiveFormula
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.EmployeeID, &f.Name, &f.Expression, &f.IsActive, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *incentiveFormulaRepo) GetActiveByEmployeeID(ctx context.Context, employeeID uuid.UUID) (*entity.IncentiveFormula, error) {
	query := `
		SELECT id, employee_id, name, expression, is_active, created_by, created_at, updated_at
		FROM incentive_formulas WHERE employee_id = $1 AND is_active = true
		ORDER BY created_at DESC LIMIT 1
	`
	var f entity.IncentiveFormula
	err := r.pool.QueryRow(ctx, query, employeeID).Scan(
		&f.ID, &f.EmployeeID, &f.Name, &f.Expression, &f.IsActive, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *incentiveFormulaRepo) ListByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]*entity.IncentiveFormula, error) {
	query := `
		SELECT id, employee_id, name, expression, is_active, created_by, created_at, updated_at
		FROM incentive_formulas WHERE employee_id = $1 ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var formulas []*entity.IncentiveFormula
	for rows.Next() {
		var f entity.IncentiveFormula
		if err := rows.Scan(&f.ID, &f.EmployeeID, &f.Name, &f.Expression, &f.IsActive, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		formulas = append(formulas, &f)
	}
	return formulas, nil
}

func (r *incentiveFormulaRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE incentive_formulas SET is_active = false, updated_at = NOW() WHERE id = $1", id)
	return err
}
