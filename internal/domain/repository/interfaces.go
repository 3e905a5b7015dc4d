package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/entity"
)

// EmployeeRepository defines the interface for employee operations
type EmployeeRepository interface {
	// Create creates a new employee
	Create(ctx context.Context, employee *entity.Employee) error
	// CreateBatch creates multiple employees using COPY protocol
	CreateBatch(ctx context.Context, employees []*entity.Employee) (int64, error)
	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	// GetByEmployeeNo retrieves an employee by employee number
	GetByEmployeeNo(ctx context.Context, employeeNo string) (*entity.Employee, error)
	// List retrieves employees with pagination
	List(ctx context.Context, limit, offset int) ([]*entity.Employee, error)
	// ListIDs retrieves active employee IDs with pagination (for batch processing)
	ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
	// Count returns the total count of active employees
	Count(ctx context.Context) (int64, error)
	// Update updates an employee
	Update(ctx context.Context, employee *entity.Employee) error
	// Delete deletes an employee
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalesRecordRepository defines the interface for sales record operations
type SalesRecordRepository interface {
	// Upsert creates or updates a sales record for an employee and period
	Upsert(ctx context.Context, record *entity.SalesRecord) error
	// CreateBatch creates multiple sales records using COPY protocol
	CreateBatch(ctx context.Context, records []*entity.SalesRecord) (int64, error)
	// GetByEmployeeAndPeriod retrieves a record for one employee and period
	GetByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, period string) (*entity.SalesRecord, error)
	// ListByPeriod retrieves all records for a period
	ListByPeriod(ctx context.Context, period string, limit, offset int) ([]*entity.SalesRecord, error)
}

// IncentiveFormulaRepository defines the interface for incentive formula operations
type IncentiveFormulaRepository interface {
	// Create stores a formula and deactivates the employee's previous active one
	Create(ctx context.Context, f *entity.IncentiveFormula) error
	// GetByID retrieves a formula by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.IncentiveFormula, error)
	// GetActiveByEmployeeID retrieves the active formula for an employee
	GetActiveByEmployeeID(ctx context.Context, employeeID uuid.UUID) (*entity.IncentiveFormula, error)
	// ListByEmployeeID retrieves all formulas for an employee, newest first
	ListByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]*entity.IncentiveFormula, error)
	// Deactivate marks a formula inactive
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// PayrollRecordRepository defines the interface for payroll record operations
type PayrollRecordRepository interface {
	// Upsert creates or updates a payroll record
	Upsert(ctx context.Context, record *entity.PayrollRecord) error
	// UpsertBatch creates or updates multiple records using COPY protocol
	UpsertBatch(ctx context.Context, records []*entity.PayrollRecord) (int64, error)
	// GetByEmployeeAndPeriod retrieves a record for one employee and period
	GetByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, period string) (*entity.PayrollRecord, error)
	// ListByPeriod retrieves records for a period with pagination
	ListByPeriod(ctx context.Context, period string, limit, offset int) ([]*entity.PayrollRecord, error)
	// ListByEmployee retrieves an employee's records, newest period first
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]*entity.PayrollRecord, error)
}

// BatchJobRepository defines the interface for batch job operations
type BatchJobRepository interface {
	// Create creates a new batch job
	Create(ctx context.Context, job *entity.BatchJob) error
	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BatchJob, error)
	// UpdateStatus updates a job's status and progress
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus, processed, failed int64) error
	// UpdateProgress updates a job's progress atomically
	UpdateProgress(ctx context.Context, id uuid.UUID, processed, failed int64) error
	// Complete marks a job as completed
	Complete(ctx context.Context, id uuid.UUID) error
	// Fail marks a job as failed
	Fail(ctx context.Context, id uuid.UUID, errorMsg string) error
	// ListRecent retrieves recent jobs
	ListRecent(ctx context.Context, limit int) ([]*entity.BatchJob, error)
}
