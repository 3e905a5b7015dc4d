package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/entity"
	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/repository"
)

// payrollRecordRepo implements repository.PayrollRecordRepository
type payrollRecordRepo struct {
	pool *pgxpool.Pool
}

// NewPayrollRecordRepository creates a new payroll record repository
func NewPayrollRecordRepository(pool *pgxpool.Pool) repository.PayrollRecordRepository {
	return &payrollRecordRepo{pool: pool}
}

func (r *payrollRecordRepo) Upsert(ctx context.Context, record *entity.PayrollRecord) error {
	query := `
		INSERT INTO payroll_records (id, employee_id, period, base_salary, incentive, grand_total, input_values, version_hash, calculated_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (employee_id, period) DO UPDATE SET
			base_salary = EXCLUDED.base_salary,
			incentive = EXCLUDED.incentive,
			grand_total = EXCLUDED.grand_total,
			input_values = EXCLUDED.input_values,
			version_hash = EXCLUDED.version_hash,
			calculated_at = EXCLUDED.calculated_at,
			updated_at = EXCLUDED.updated_at
	`
	inputValues, _ := record.InputValuesJSON()
	_, err := r.pool.Exec(ctx, query,
		record.ID, record.EmployeeID, record.Period, record.BaseSalary, record.Incentive,
		record.GrandTotal, inputValues, record.VersionHash, record.CalculatedAt, record.UpdatedAt)
	return err
}

// UpsertBatch uses PostgreSQL COPY protocol for high-performance bulk inserts
// For updates, we use a temp table approach
func (r *payrollRecordRepo) UpsertBatch(ctx context.Context, records []*entity.PayrollRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tempTable := fmt.Sprintf("temp_payroll_%d", time.Now().UnixNano())
	_, err = tx.Exec(ctx, fmt.Sprintf(`
		CREATE TEMP TABLE %s (
			id UUID,
			employee_id UUID,
			period VARCHAR(7),
			base_salary DECIMAL(18,2),
			incentive DECIMAL(18,2),
			grand_total DECIMAL(18,2),
			input_values JSONB,
			version_hash VARCHAR(64),
			calculated_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ
		) ON COMMIT DROP
	`, tempTable))
	if err != nil {
		return 0, fmt.Errorf("failed to create temp table: %w", err)
	}

	columns := []string{"id", "employee_id", "period", "base_salary", "incentive", "grand_total", "input_values", "version_hash", "calculated_at", "updated_at"}
	rows := make([][]interface{}, len(records))
	for i, p := range records {
		inputValues, _ := json.Marshal(p.InputValues)
		rows[i] = []interface{}{
			p.ID, p.EmployeeID, p.Period, p.BaseSalary, p.Incentive, p.GrandTotal, inputValues, p.VersionHash, p.CalculatedAt, p.UpdatedAt,
		}
	}

	copyCount, err := tx.CopyFrom(ctx, pgx.Identifier{tempTable}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy to temp table: %w", err)
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(`
		INSERT INTO payroll_records (id, employee_id, period, base_salary, incentive, grand_total, input_values, version_hash, calculated_at, updated_at)
		SELECT id, employee_id, period, base_salary, incentive, grand_total, input_values, version_hash, calculated_at, updated_at FROM %s
		ON CONFLICT (employee_id, period) DO UPDATE SET
			base_salary = EXCLUDED.base_salary,
			incentive = EXCLUDED.incentive,
			grand_total = EXCLUDED.grand_total,
			input_values = EXCLUDED.input_values,
			version_hash = EXCLUDED.version_hash,
			calculated_at = EXCLUDED.calculated_at,
			updated_at = EXCLUDED.updated_at
	`, tempTable))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert from temp table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return copyCount, nil
}

func (r *payrollRecordRepo) GetByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, period string) (*entity.PayrollRecord, error) {
	query := `
		SELECT id, employee_id, period, base_salary, incentive, grand_total, input_values, version_hash, calculated_at, created_at, updated_at
		FROM payroll_records WHERE employee_id = $1 AND period = $2
	`
	var p entity.PayrollRecord
	err := r.pool.QueryRow(ctx, query, employeeID, period).Scan(
		&p.ID, &p.EmployeeID, &p.Period, &p.BaseSalary, &p.Incentive, &p.GrandTotal, &p.InputValues, &p.VersionHash, &p.CalculatedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *payrollRecordRepo) ListByPeriod(ctx context.Context, period string, limit, offset int) ([]*entity.PayrollRecord, error) {
	query := `
		SELECT id, employee_id, period, base_salary, incentive, grand_total, input_values, version_hash, calculated_at, created_at, updated_at
		FROM payroll_records WHERE period = $1 ORDER BY grand_total DESC LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, period, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPayrollRecords(rows)
}

func (r *payrollRecordRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]*entity.PayrollRecord, error) {
	query := `
		SELECT id, employee_id, period, base_salary, incentive, grand_total, input_values, version_hash, calculated_at, created_at, updated_at
		FROM payroll_records WHERE employee_id = $1 ORDER BY period DESC LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPayrollRecords(rows)
}

func scanPayrollRecords(rows pgx.Rows) ([]*entity.PayrollRecord, error) {
	var records []*entity.PayrollRecord
	for rows.Next() {
		var p entity.PayrollRecord
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Period, &p.BaseSalary, &p.Incentive, &p.GrandTotal, &p.InputValues, &p.VersionHash, &p.CalculatedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, &p)
	}
	return records, nil
}
