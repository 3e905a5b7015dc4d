package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nukk-pain/smpain-HR-sub007/config"
	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/entity"
	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/repository"
	"github.com/nukk-pain/smpain-HR-sub007/internal/infrastructure/persistence"
	"github.com/nukk-pain/smpain-HR-sub007/internal/modules/payroll"
	"github.com/nukk-pain/smpain-HR-sub007/pkg/database"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Printf("Starting payroll worker with %d workers and batch size %d",
		cfg.Worker.Count, cfg.Worker.BatchSize)

	// Database connection
	pool, err := database.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Initialize repositories
	employeeRepo := persistence.NewEmployeeRepository(pool)
	salesRepo := persistence.NewSalesRecordRepository(pool)
	formulaRepo := persistence.NewIncentiveFormulaRepository(pool)
	payrollRepo := persistence.NewPayrollRecordRepository(pool)
	jobRepo := persistence.NewBatchJobRepository(pool)

	// Initialize calculation engine and worker pool
	engine := payroll.NewCalculationEngine(employeeRepo, salesRepo, formulaRepo, payrollRepo)
	workerPool := payroll.NewWorkerPool(engine, employeeRepo, payrollRepo, jobRepo, cfg.Worker.Count, cfg.Worker.BatchSize)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Payroll worker ready. Waiting for jobs...")

	// Check for pending jobs periodically
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			log.Println("Shutting down payroll worker...")
			cancel()
			return

		case <-ticker.C:
			jobs, err := jobRepo.ListRecent(ctx, 10)
			if err != nil {
				log.Printf("Failed to list jobs: %v", err)
				continue
			}

			for _, job := range jobs {
				if job.Status == entity.JobStatusPending {
					log.Printf("Found pending job: %s", job.ID)
					processJob(ctx, workerPool, jobRepo, job)
				}
			}
		}
	}
}

func processJob(ctx context.Context, workerPool *payroll.WorkerPool, jobRepo repository.BatchJobRepository, job *entity.BatchJob) {
	period := job.Period
	if period == "" {
		period = time.Now().Format("2006-01")
	}

	startTime := time.Now()
	log.Printf("Starting job %s (period %s) at %s", job.ID, period, startTime.Format(time.RFC3339))

	if err := workerPool.RecalculateAll(ctx, job.ID, period); err != nil {
		log.Printf("Job %s failed: %v", job.ID, err)
		jobRepo.Fail(ctx, job.ID, err.Error())
		return
	}

	elapsed := time.Since(startTime)
	log.Printf("Job %s completed in %v", job.ID, elapsed)
}
