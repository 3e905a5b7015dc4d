package payroll

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/entity"
	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/repository"
	"github.com/nukk-pain/smpain-HR-sub007/pkg/formula"
)

// CalculationEngine computes payroll records from employee data and the
// employee's active incentive formula. All formula evaluation goes through
// pkg/formula, which is pure and fail-safe, so a broken formula produces a
// zero incentive rather than an error here.
type CalculationEngine struct {
	employeeRepo repository.EmployeeRepository
	salesRepo    repository.SalesRecordRepository
	formulaRepo  repository.IncentiveFormulaRepository
	payrollRepo  repository.PayrollRecordRepository
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine(
	employeeRepo repository.EmployeeRepository,
	salesRepo repository.SalesRecordRepository,
	formulaRepo repository.IncentiveFormulaRepository,
	payrollRepo repository.PayrollRecordRepository,
) *CalculationEngine {
	return &CalculationEngine{
		employeeRepo: employeeRepo,
		salesRepo:    salesRepo,
		formulaRepo:  formulaRepo,
		payrollRepo:  payrollRepo,
	}
}

// CalculateEmployee calculates the payroll record for one employee and period
func (e *CalculationEngine) CalculateEmployee(ctx context.Context, employeeID uuid.UUID, period string) (*entity.PayrollRecord, error) {
	employee, err := e.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	now := time.Now()
	vars := map[string]float64{
		"baseSalary": employee.BaseSalary,
		"years":      employee.YearsOfService(now),
	}

	// Missing sales data for the period means all sales variables stay 0.
	sales, err := e.salesRepo.GetByEmployeeAndPeriod(ctx, employeeID, period)
	if err == nil {
		vars["sales"] = sales.TotalSales
		vars["personalSales"] = sales.PersonalSales
		vars["teamSales"] = sales.TeamSales
		vars["totalSales"] = sales.TotalSales
		vars["performance"] = sales.PerformanceScore
	}

	var incentive float64
	active, err := e.formulaRepo.GetActiveByEmployeeID(ctx, employeeID)
	if err == nil {
		incentive = formula.Calculate(active.Expression, vars)
	} else {
		log.Printf("No active formula for employee %s, incentive = 0", employee.EmployeeNo)
	}

	// Version hash over the bindings for change detection
	varsJSON, _ := json.Marshal(vars)
	hash := sha256.Sum256(varsJSON)

	record := &entity.PayrollRecord{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		Period:       period,
		BaseSalary:   employee.BaseSalary,
		Incentive:    incentive,
		GrandTotal:   employee.BaseSalary + incentive,
		InputValues:  vars,
		VersionHash:  hex.EncodeToString(hash[:]),
		CalculatedAt: now,
		UpdatedAt:    now,
	}

	return record, nil
}

// WorkerPool manages concurrent payroll calculation workers
type WorkerPool struct {
	engine       *CalculationEngine
	employeeRepo repository.EmployeeRepository
	payrollRepo  repository.PayrollRecordRepository
	jobRepo      repository.BatchJobRepository
	workerCount  int
	batchSize    int
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(
	engine *CalculationEngine,
	employeeRepo repository.EmployeeRepository,
	payrollRepo repository.PayrollRecordRepository,
	jobRepo repository.BatchJobRepository,
	workerCount, batchSize int,
) *WorkerPool {
	return &WorkerPool{
		engine:       engine,
		employeeRepo: employeeRepo,
		payrollRepo:  payrollRepo,
		jobRepo:      jobRepo,
		workerCount:  workerCount,
		batchSize:    batchSize,
	}
}

// RecalculateAll recalculates payroll for all active employees for one period
func (wp *WorkerPool) RecalculateAll(ctx context.Context, jobID uuid.UUID, period string) error {
	totalCount, err := wp.employeeRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count employees: %w", err)
	}

	wp.jobRepo.UpdateStatus(ctx, jobID, entity.JobStatusRunning, 0, 0)

	idChan := make(chan uuid.UUID, wp.batchSize*2)
	resultChan := make(chan *entity.PayrollRecord, wp.batchSize*2)
	errChan := make(chan error, 1)

	var processedCount int64
	var failedCount int64

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < wp.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for employeeID := range idChan {
				record, err := wp.engine.CalculateEmployee(ctx, employeeID, period)
				if err != nil {
					log.Printf("Worker %d: failed to calculate employee %s: %v", workerID, employeeID, err)
					atomic.AddInt64(&failedCount, 1)
					continue
				}
				resultChan <- record
			}
		}(i)
	}

	// Start result collector
	var resultWg sync.WaitGroup
	resultWg.Add(1)
	go func() {
		defer resultWg.Done()
		buffer := make([]*entity.PayrollRecord, 0, wp.batchSize)

		for record := range resultChan {
			buffer = append(buffer, record)

			if len(buffer) >= wp.batchSize {
				if _, err := wp.payrollRepo.UpsertBatch(ctx, buffer); err != nil {
					log.Printf("Failed to upsert batch: %v", err)
				}
				atomic.AddInt64(&processedCount, int64(len(buffer)))

				wp.jobRepo.UpdateProgress(ctx, jobID, int64(len(buffer)), 0)

				buffer = buffer[:0]
			}
		}

		// Flush remaining
		if len(buffer) > 0 {
			if _, err := wp.payrollRepo.UpsertBatch(ctx, buffer); err != nil {
				log.Printf("Failed to upsert final batch: %v", err)
			}
			atomic.AddInt64(&processedCount, int64(len(buffer)))
			wp.jobRepo.UpdateProgress(ctx, jobID, int64(len(buffer)), 0)
		}
	}()

	// Dispatcher: fetch IDs and send to workers
	go func() {
		defer close(idChan)
		offset := 0
		for {
			ids, err := wp.employeeRepo.ListIDs(ctx, wp.batchSize, offset)
			if err != nil {
				errChan <- fmt.Errorf("failed to list employee IDs: %w", err)
				return
			}
			if len(ids) == 0 {
				break
			}
			for _, id := range ids {
				select {
				case <-ctx.Done():
					return
				case idChan <- id:
				}
			}
			offset += len(ids)
		}
	}()

	wg.Wait()
	close(resultChan)
	resultWg.Wait()

	if err := wp.jobRepo.Complete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	log.Printf("Payroll recalculation complete: period=%s processed=%d, failed=%d, total=%d", period, processedCount, failedCount, totalCount)
	return nil
}
