package payroll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/entity"
)

// In-memory repository fakes. Only the read paths the engine uses carry
// state; write paths that the engine never calls are no-ops.

type fakeEmployeeRepo struct {
	employees map[uuid.UUID]*entity.Employee
	ids       []uuid.UUID // stable order for pagination
}

func (f *fakeEmployeeRepo) add(e *entity.Employee) {
	if f.employees == nil {
		f.employees = map[uuid.UUID]*entity.Employee{}
	}
	f.employees[e.ID] = e
	f.ids = append(f.ids, e.ID)
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e *entity.Employee) error { return nil }
func (f *fakeEmployeeRepo) CreateBatch(ctx context.Context, e []*entity.Employee) (int64, error) {
	return 0, nil
}
func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return nil, errors.New("employee not found")
}
func (f *fakeEmployeeRepo) GetByEmployeeNo(ctx context.Context, no string) (*entity.Employee, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeEmployeeRepo) List(ctx context.Context, limit, offset int) ([]*entity.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	if offset >= len(f.ids) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.ids) {
		end = len(f.ids)
	}
	return f.ids[offset:end], nil
}
func (f *fakeEmployeeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.employees)), nil
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, e *entity.Employee) error { return nil }
func (f *fakeEmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error       { return nil }

type fakeSalesRepo struct {
	records map[uuid.UUID]*entity.SalesRecord // keyed by employee ID, single period
}

func (f *fakeSalesRepo) Upsert(ctx context.Context, r *entity.SalesRecord) error { return nil }
func (f *fakeSalesRepo) CreateBatch(ctx context.Context, r []*entity.SalesRecord) (int64, error) {
	return 0, nil
}
func (f *fakeSalesRepo) GetByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, period string) (*entity.SalesRecord, error) {
	if r, ok := f.records[employeeID]; ok && r.Period == period {
		return r, nil
	}
	return nil, errors.New("sales record not found")
}
func (f *fakeSalesRepo) ListByPeriod(ctx context.Context, period string, limit, offset int) ([]*entity.SalesRecord, error) {
	return nil, nil
}

type fakeFormulaRepo struct {
	active map[uuid.UUID]*entity.IncentiveFormula
}

func (f *fakeFormulaRepo) Create(ctx context.Context, fm *entity.IncentiveFormula) error { return nil }
func (f *fakeFormulaRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.IncentiveFormula, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeFormulaRepo) GetActiveByEmployeeID(ctx context.Context, employeeID uuid.UUID) (*entity.IncentiveFormula, error) {
	if fm, ok := f.active[employeeID]; ok {
		return fm, nil
	}
	return nil, errors.New("no active formula")
}
func (f *fakeFormulaRepo) ListByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]*entity.IncentiveFormula, error) {
	return nil, nil
}
func (f *fakeFormulaRepo) Deactivate(ctx context.Context, id uuid.UUID) error { return nil }

type fakePayrollRepo struct {
	mu      sync.Mutex
	records []*entity.PayrollRecord
}

func (f *fakePayrollRepo) Upsert(ctx context.Context, r *entity.PayrollRecord) error { return nil }
func (f *fakePayrollRepo) UpsertBatch(ctx context.Context, records []*entity.PayrollRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, records...)
	return int64(len(records)), nil
}
func (f *fakePayrollRepo) GetByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, period string) (*entity.PayrollRecord, error) {
	return nil, errors.New("not implemented")
}
func (f *fakePayrollRepo) ListByPeriod(ctx context.Context, period string, limit, offset int) ([]*entity.PayrollRecord, error) {
	return nil, nil
}
func (f *fakePayrollRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]*entity.PayrollRecord, error) {
	return nil, nil
}

type fakeJobRepo struct{}

func (f *fakeJobRepo) Create(ctx context.Context, j *entity.BatchJob) error { return nil }
func (f *fakeJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.BatchJob, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, s entity.JobStatus, p, fl int64) error {
	return nil
}
func (f *fakeJobRepo) UpdateProgress(ctx context.Context, id uuid.UUID, p, fl int64) error {
	return nil
}
func (f *fakeJobRepo) Complete(ctx context.Context, id uuid.UUID) error         { return nil }
func (f *fakeJobRepo) Fail(ctx context.Context, id uuid.UUID, msg string) error { return nil }
func (f *fakeJobRepo) ListRecent(ctx context.Context, limit int) ([]*entity.BatchJob, error) {
	return nil, nil
}

func newTestEmployee(baseSalary float64) *entity.Employee {
	return &entity.Employee{
		ID:         uuid.New(),
		EmployeeNo: "EMP-0001",
		Name:       "Kim",
		BaseSalary: baseSalary,
		HireDate:   time.Now().AddDate(-3, 0, 0),
		IsActive:   true,
	}
}

func TestCalculateEmployee_AppliesActiveFormula(t *testing.T) {
	emp := newTestEmployee(3000000)

	employees := &fakeEmployeeRepo{employees: map[uuid.UUID]*entity.Employee{emp.ID: emp}}
	sales := &fakeSalesRepo{records: map[uuid.UUID]*entity.SalesRecord{
		emp.ID: {EmployeeID: emp.ID, Period: "2025-06", TotalSales: 8000000, PersonalSales: 6000000, TeamSales: 2000000},
	}}
	formulas := &fakeFormulaRepo{active: map[uuid.UUID]*entity.IncentiveFormula{
		emp.ID: {EmployeeID: emp.ID, Expression: "sales > 5000000 ? sales * 0.3 : 0", IsActive: true},
	}}

	engine := NewCalculationEngine(employees, sales, formulas, &fakePayrollRepo{})

	record, err := engine.CalculateEmployee(context.Background(), emp.ID, "2025-06")
	require.NoError(t, err)

	assert.Equal(t, 2400000.0, record.Incentive)
	assert.Equal(t, 3000000.0, record.BaseSalary)
	assert.Equal(t, 5400000.0, record.GrandTotal)
	assert.Equal(t, "2025-06", record.Period)
	assert.NotEmpty(t, record.VersionHash)
	assert.Equal(t, 8000000.0, record.InputValues["sales"])
}

func TestCalculateEmployee_NoFormulaMeansZeroIncentive(t *testing.T) {
	emp := newTestEmployee(3000000)

	employees := &fakeEmployeeRepo{employees: map[uuid.UUID]*entity.Employee{emp.ID: emp}}
	engine := NewCalculationEngine(employees, &fakeSalesRepo{}, &fakeFormulaRepo{}, &fakePayrollRepo{})

	record, err := engine.CalculateEmployee(context.Background(), emp.ID, "2025-06")
	require.NoError(t, err)

	assert.Equal(t, 0.0, record.Incentive)
	assert.Equal(t, 3000000.0, record.GrandTotal)
}

func TestCalculateEmployee_MissingSalesDefaultsToZero(t *testing.T) {
	emp := newTestEmployee(2500000)

	employees := &fakeEmployeeRepo{employees: map[uuid.UUID]*entity.Employee{emp.ID: emp}}
	formulas := &fakeFormulaRepo{active: map[uuid.UUID]*entity.IncentiveFormula{
		emp.ID: {EmployeeID: emp.ID, Expression: "sales * 0.1", IsActive: true},
	}}
	engine := NewCalculationEngine(employees, &fakeSalesRepo{}, formulas, &fakePayrollRepo{})

	record, err := engine.CalculateEmployee(context.Background(), emp.ID, "2025-06")
	require.NoError(t, err)

	assert.Equal(t, 0.0, record.Incentive)
}

func TestCalculateEmployee_UnknownEmployee(t *testing.T) {
	engine := NewCalculationEngine(&fakeEmployeeRepo{}, &fakeSalesRepo{}, &fakeFormulaRepo{}, &fakePayrollRepo{})

	_, err := engine.CalculateEmployee(context.Background(), uuid.New(), "2025-06")
	assert.Error(t, err)
}

func TestRecalculateAll_ProcessesEveryEmployee(t *testing.T) {
	employees := &fakeEmployeeRepo{}
	formulas := &fakeFormulaRepo{active: map[uuid.UUID]*entity.IncentiveFormula{}}
	sales := &fakeSalesRepo{records: map[uuid.UUID]*entity.SalesRecord{}}

	for i := 0; i < 25; i++ {
		emp := newTestEmployee(2000000)
		employees.add(emp)
		sales.records[emp.ID] = &entity.SalesRecord{EmployeeID: emp.ID, Period: "2025-06", TotalSales: 4000000}
		formulas.active[emp.ID] = &entity.IncentiveFormula{EmployeeID: emp.ID, Expression: "sales * 0.05", IsActive: true}
	}

	payroll := &fakePayrollRepo{}
	engine := NewCalculationEngine(employees, sales, formulas, payroll)
	pool := NewWorkerPool(engine, employees, payroll, &fakeJobRepo{}, 4, 10)

	err := pool.RecalculateAll(context.Background(), uuid.New(), "2025-06")
	require.NoError(t, err)

	require.Len(t, payroll.records, 25)
	for _, r := range payroll.records {
		assert.Equal(t, 200000.0, r.Incentive)
		assert.Equal(t, "2025-06", r.Period)
	}
}
