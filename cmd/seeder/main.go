package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/nukk-pain/smpain-HR-sub007/config"
	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/entity"
	"github.com/nukk-pain/smpain-HR-sub007/internal/infrastructure/persistence"
	"github.com/nukk-pain/smpain-HR-sub007/pkg/database"
)

var (
	employeeCount = flag.Int("employees", 5000, "Number of employees to generate")
	monthCount    = flag.Int("months", 12, "Number of monthly sales periods per employee")
	batchSize     = flag.Int("batch", 2000, "Batch size for COPY operations")
	workerCount   = flag.Int("workers", 8, "Number of parallel workers")
)

var departments = []string{"Sales", "Marketing", "Engineering", "Finance", "Operations", "Support"}
var positions = []string{"Staff", "Senior Staff", "Assistant Manager", "Manager", "Director"}

// Default incentive rules assigned round-robin to seeded employees.
var defaultFormulas = []string{
	"sales * 0.1",
	"sales > 5000000 ? sales * 0.3 : 0",
	"sales > 10000000 ? sales * 0.25 : sales > 5000000 ? sales * 0.15 : sales * 0.05",
	"personalSales * 0.15 + teamSales * 0.02",
	"(sales >= 3000000) * (sales - 3000000) * 0.2",
}

func main() {
	flag.Parse()
	godotenv.Load()

	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║             HR PAYROLL ENGINE - DATA SEEDER                   ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Println()

	log.Printf("Configuration:")
	log.Printf("  Employees:     %d", *employeeCount)
	log.Printf("  Months:        %d", *monthCount)
	log.Printf("  Batch Size:    %d", *batchSize)
	log.Printf("  Workers:       %d", *workerCount)
	log.Printf("  CPU Cores:     %d", runtime.NumCPU())
	fmt.Println()

	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	overallStart := time.Now()

	// Phase 1: Employees
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	employees, err := seedEmployees(ctx, pool)
	if err != nil {
		log.Fatalf("Failed to seed employees: %v", err)
	}

	// Phase 2: Sales history
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if err := seedSalesRecords(ctx, pool, employees); err != nil {
		log.Fatalf("Failed to seed sales records: %v", err)
	}

	// Phase 3: Incentive formulas
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if err := seedFormulas(ctx, pool, employees); err != nil {
		log.Fatalf("Failed to seed formulas: %v", err)
	}

	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("Seeding finished in %v", time.Since(overallStart))
}

func seedEmployees(ctx context.Context, pool *pgxpool.Pool) ([]*entity.Employee, error) {
	repo := persistence.NewEmployeeRepository(pool)
	start := time.Now()

	employees := make([]*entity.Employee, *employeeCount)
	now := time.Now()
	for i := 0; i < *employeeCount; i++ {
		employees[i] = &entity.Employee{
			ID:         uuid.New(),
			EmployeeNo: fmt.Sprintf("EMP-%06d", i+1),
			Name:       fmt.Sprintf("Employee %06d", i+1),
			Department: randomChoice(departments),
			Position:   randomChoice(positions),
			BaseSalary: float64(rand.Intn(40)+20) * 100000,
			HireDate:   now.AddDate(-rand.Intn(15), -rand.Intn(12), 0),
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	var total int64
	for offset := 0; offset < len(employees); offset += *batchSize {
		end := offset + *batchSize
		if end > len(employees) {
			end = len(employees)
		}
		n, err := repo.CreateBatch(ctx, employees[offset:end])
		if err != nil {
			return nil, err
		}
		total += n
	}

	log.Printf("Seeded %d employees in %v", total, time.Since(start))
	return employees, nil
}

func seedSalesRecords(ctx context.Context, pool *pgxpool.Pool, employees []*entity.Employee) error {
	repo := persistence.NewSalesRecordRepository(pool)
	start := time.Now()

	periods := make([]string, *monthCount)
	for i := range periods {
		periods[i] = time.Now().AddDate(0, -i, 0).Format("2006-01")
	}

	var inserted int64
	var wg sync.WaitGroup
	empChan := make(chan *entity.Employee, *batchSize)

	for w := 0; w < *workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buffer := make([]*entity.SalesRecord, 0, *batchSize)
			now := time.Now()

			flush := func() {
				if len(buffer) == 0 {
					return
				}
				n, err := repo.CreateBatch(ctx, buffer)
				if err != nil {
					log.Printf("Failed to copy sales batch: %v", err)
				}
				atomic.AddInt64(&inserted, n)
				buffer = buffer[:0]
			}

			for emp := range empChan {
				for _, period := range periods {
					personal := float64(rand.Intn(12000)) * 1000
					team := float64(rand.Intn(30000)) * 1000
					buffer = append(buffer, &entity.SalesRecord{
						ID:               uuid.New(),
						EmployeeID:       emp.ID,
						Period:           period,
						PersonalSales:    personal,
						TeamSales:        team,
						TotalSales:       personal + team,
						PerformanceScore: float64(rand.Intn(100)),
						CreatedAt:        now,
						UpdatedAt:        now,
					})
					if len(buffer) >= *batchSize {
						flush()
					}
				}
			}
			flush()
		}()
	}

	for _, emp := range employees {
		empChan <- emp
	}
	close(empChan)
	wg.Wait()

	log.Printf("Seeded %d sales records in %v", atomic.LoadInt64(&inserted), time.Since(start))
	return nil
}

func seedFormulas(ctx context.Context, pool *pgxpool.Pool, employees []*entity.Employee) error {
	repo := persistence.NewIncentiveFormulaRepository(pool)
	start := time.Now()

	now := time.Now()
	var created int64
	for i, emp := range employees {
		f := &entity.IncentiveFormula{
			ID:         uuid.New(),
			EmployeeID: emp.ID,
			Name:       fmt.Sprintf("Default incentive rule %d", i%len(defaultFormulas)+1),
			Expression: defaultFormulas[i%len(defaultFormulas)],
			IsActive:   true,
			CreatedBy:  "seeder",
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := repo.Create(ctx, f); err != nil {
			return err
		}
		created++
	}

	log.Printf("Seeded %d incentive formulas in %v", created, time.Since(start))
	return nil
}

func randomChoice(choices []string) string {
	return choices[rand.Intn(len(choices))]
}

func init() {
	runtime.GOMAXPROCS(runtime.NumCPU())
}
