package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Employee represents an employee master record
type Employee struct {
	ID         uuid.UUID `json:"id"`
	EmployeeNo string    `json:"employee_no"`
	Name       string    `json:"name"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	BaseSalary float64   `json:"base_salary"`
	HireDate   time.Time `json:"hire_date"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// YearsOfService returns full years between hire date and the given time
func (e *Employee) YearsOfService(at time.Time) float64 {
	if e.HireDate.IsZero() || at.Before(e.HireDate) {
		return 0
	}
	years := at.Year() - e.HireDate.Year()
	anniversary := e.HireDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return float64(years)
}

// SalesRecord represents an employee's sales figures for one period (YYYY-MM)
type SalesRecord struct {
	ID               uuid.UUID `json:"id"`
	EmployeeID       uuid.UUID `json:"employee_id"`
	Period           string    `json:"period"`
	PersonalSales    float64   `json:"personal_sales"`
	TeamSales        float64   `json:"team_sales"`
	TotalSales       float64   `json:"total_sales"`
	PerformanceScore float64   `json:"performance_score"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IncentiveFormula represents an admin-defined incentive rule stored as data.
// An expression is only ever persisted after passing formula.Validate.
type IncentiveFormula struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Name       string    `json:"name"`
	Expression string    `json:"expression"` // e.g. "sales > 5000000 ? sales * 0.3 : 0"
	IsActive   bool      `json:"is_active"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PayrollRecord represents the calculated payroll for an employee and period
type PayrollRecord struct {
	ID           uuid.UUID          `json:"id"`
	EmployeeID   uuid.UUID          `json:"employee_id"`
	Period       string             `json:"period"`
	BaseSalary   float64            `json:"base_salary"`
	Incentive    float64            `json:"incentive"`
	GrandTotal   float64            `json:"grand_total"`
	InputValues  map[string]float64 `json:"input_values"` // variable bindings as JSONB
	VersionHash  string             `json:"version_hash,omitempty"`
	CalculatedAt time.Time          `json:"calculated_at"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// InputValuesJSON returns input_values as JSON bytes
func (p *PayrollRecord) InputValuesJSON() ([]byte, error) {
	return json.Marshal(p.InputValues)
}

// JobStatus represents the status of a batch job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCancelled JobStatus = "CANCELLED"
)

// JobType represents the type of batch job
type JobType string

const (
	JobTypeRecalculateAll      JobType = "RECALCULATE_ALL"
	JobTypeRecalculateEmployee JobType = "RECALCULATE_EMPLOYEE"
	JobTypeImportData          JobType = "IMPORT_DATA"
	JobTypeExportData          JobType = "EXPORT_DATA"
)

// BatchJob represents a background job for large operations
type BatchJob struct {
	ID               uuid.UUID              `json:"id"`
	JobType          JobType                `json:"job_type"`
	Status           JobStatus              `json:"status"`
	Period           string                 `json:"period,omitempty"`
	TotalRecords     int64                  `json:"total_records"`
	ProcessedRecords int64                  `json:"processed_records"`
	FailedRecords    int64                  `json:"failed_records"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	ErrorMessage     string                 `json:"error_message,omitempty"`
	StartedAt        *time.Time             `json:"started_at,omitempty"`
	FinishedAt       *time.Time             `json:"finished_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// Progress returns the progress percentage
func (b *BatchJob) Progress() float64 {
	if b.TotalRecords == 0 {
		return 0
	}
	return float64(b.ProcessedRecords) / float64(b.TotalRecords) * 100
}
