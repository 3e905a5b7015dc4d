package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/entity"
	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/repository"
)

// employeeRepo implements repository.EmployeeRepository
type employeeRepo struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(pool *pgxpool.Pool) repository.EmployeeRepository {
	return &employeeRepo{pool: pool}
}

func (r *employeeRepo) Create(ctx context.Context, employee *entity.Employee) error {
	query := `
		INSERT INTO employees (id, employee_no, name, department, position, base_salary, hire_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		employee.ID, employee.EmployeeNo, employee.Name, employee.Department, employee.Position,
		employee.BaseSalary, employee.HireDate, employee.IsActive, employee.CreatedAt, employee.UpdatedAt)
	return err
}

// CreateBatch uses PostgreSQL COPY protocol for high-performance bulk inserts
func (r *employeeRepo) CreateBatch(ctx context.Context, employees []*entity.Employee) (int64, error) {
	columns := []string{"id", "employee_no", "name", "department", "position", "base_salary", "hire_date", "is_active", "created_at", "updated_at"}

	rows := make([][]interface{}, len(employees))
	for i, e := range employees {
		rows[i] = []interface{}{
			e.ID, e.EmployeeNo, e.Name, e.Department, e.Position, e.BaseSalary, e.HireDate, e.IsActive, e.CreatedAt, e.UpdatedAt,
		}
	}

	copyCount, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"employees"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy employees: %w", err)
	}

	return copyCount, nil
}

func (r *employeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	query := `
		SELECT id, employee_no, name, department, position, base_salary, hire_date, is_active, created_at, updated_at
		FROM employees WHERE id = $1
	`
	var e entity.Employee
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.EmployeeNo, &e.Name, &e.Department, &e.Position, &e.BaseSalary, &e.HireDate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepo) GetByEmployeeNo(ctx context.Context, employeeNo string) (*entity.Employee, error) {
	query := `
		SELECT id, employee_no, name, department, position, base_salary, hire_date, is_active, created_at, updated_at
		FROM employees WHERE employee_no = $1
	`
	var e entity.Employee
	err := r.pool.QueryRow(ctx, query, employeeNo).Scan(
		&e.ID, &e.EmployeeNo, &e.Name, &e.Department, &e.Position, &e.BaseSalary, &e.HireDate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepo) List(ctx context.Context, limit, offset int) ([]*entity.Employee, error) {
	query := `
		SELECT id, employee_no, name, department, position, base_salary, hire_date, is_active, created_at, updated_at
		FROM employees
		ORDER BY employee_no
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*entity.Employee
	for rows.Next() {
		var e entity.Employee
		if err := rows.Scan(&e.ID, &e.EmployeeNo, &e.Name, &e.Department, &e.Position, &e.BaseSalary, &e.HireDate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, &e)
	}
	return employees, nil
}

func (r *employeeRepo) ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	query := `SELECT id FROM employees WHERE is_active = true ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *employeeRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE is_active = true").Scan(&count)
	return count, err
}

func (r *employeeRepo) Update(ctx context.Context, employee *entity.Employee) error {
	query := `
		UPDATE employees SET employee_no = $2, name = $3, department = $4, position = $5, base_salary = $6, hire_date = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		employee.ID, employee.EmployeeNo, employee.Name, employee.Department, employee.Position, employee.BaseSalary, employee.HireDate, employee.IsActive)
	return err
}

func (r *employeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	return err
}
