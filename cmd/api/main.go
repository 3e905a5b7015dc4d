package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nukk-pain/smpain-HR-sub007/config"
	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/entity"
	"github.com/nukk-pain/smpain-HR-sub007/internal/infrastructure/persistence"
	"github.com/nukk-pain/smpain-HR-sub007/internal/modules/payroll"
	"github.com/nukk-pain/smpain-HR-sub007/pkg/database"
	"github.com/nukk-pain/smpain-HR-sub007/pkg/formula"
)

type formulaRequest struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Name       string    `json:"name"`
	Expression string    `json:"expression"`
	CreatedBy  string    `json:"created_by"`
}

type expressionRequest struct {
	Expression string `json:"expression"`
}

type simulateRequest struct {
	Expression  string    `json:"expression"`
	SalesValues []float64 `json:"sales_values"`
}

func main() {
	godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

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

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "HR Payroll API",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: false,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// API v1 routes
	api := app.Group("/api/v1")

	// Employee endpoints
	api.Get("/employees", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 20)
		offset := c.QueryInt("offset", 0)
		employees, err := employeeRepo.List(ctx, limit, offset)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		count, _ := employeeRepo.Count(ctx)
		return c.JSON(fiber.Map{
			"data":   employees,
			"total":  count,
			"limit":  limit,
			"offset": offset,
		})
	})

	api.Get("/employees/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		employee, err := employeeRepo.GetByID(ctx, id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		return c.JSON(employee)
	})

	api.Get("/employees/:id/formulas", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		formulas, err := formulaRepo.ListByEmployeeID(ctx, id)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"data": formulas})
	})

	api.Get("/employees/:id/payroll", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		limit := c.QueryInt("limit", 12)
		records, err := payrollRepo.ListByEmployee(ctx, id, limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"data": records})
	})

	// Formula endpoints. Validation gates persistence: an expression that
	// fails Validate is never stored.
	api.Post("/formulas/validate", func(c *fiber.Ctx) error {
		var req expressionRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}
		return c.JSON(formula.Validate(req.Expression))
	})

	api.Post("/formulas/simulate", func(c *fiber.Ctx) error {
		var req simulateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}
		if len(req.SalesValues) == 0 {
			return c.Status(400).JSON(fiber.Map{"error": "sales_values is required"})
		}
		return c.JSON(fiber.Map{"data": formula.Simulate(req.Expression, req.SalesValues)})
	})

	api.Post("/formulas/analyze", func(c *fiber.Ctx) error {
		var req expressionRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}
		return c.JSON(formula.Analyze(req.Expression))
	})

	api.Post("/formulas", func(c *fiber.Ctx) error {
		var req formulaRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}
		if res := formula.Validate(req.Expression); !res.IsValid {
			return c.Status(400).JSON(res)
		}
		if _, err := employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "employee not found"})
		}

		now := time.Now()
		f := &entity.IncentiveFormula{
			ID:         uuid.New(),
			EmployeeID: req.EmployeeID,
			Name:       req.Name,
			Expression: req.Expression,
			IsActive:   true,
			CreatedBy:  req.CreatedBy,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := formulaRepo.Create(ctx, f); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(f)
	})

	// Payroll endpoints
	api.Get("/payroll", func(c *fiber.Ctx) error {
		period := c.Query("period")
		if period == "" {
			return c.Status(400).JSON(fiber.Map{"error": "period is required"})
		}
		limit := c.QueryInt("limit", 20)
		offset := c.QueryInt("offset", 0)
		records, err := payrollRepo.ListByPeriod(ctx, period, limit, offset)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{
			"data":   records,
			"limit":  limit,
			"offset": offset,
		})
	})

	// Recalculation endpoints
	api.Post("/recalculate/all", func(c *fiber.Ctx) error {
		period := c.Query("period")
		if period == "" {
			period = time.Now().Format("2006-01")
		}

		now := time.Now()
		job := &entity.BatchJob{
			ID:        uuid.New(),
			JobType:   entity.JobTypeRecalculateAll,
			Status:    entity.JobStatusPending,
			Period:    period,
			CreatedAt: now,
			StartedAt: &now,
		}
		if err := jobRepo.Create(ctx, job); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}

		// Start async recalculation
		go func() {
			if err := workerPool.RecalculateAll(context.Background(), job.ID, period); err != nil {
				log.Printf("Recalculation failed: %v", err)
				jobRepo.Fail(context.Background(), job.ID, err.Error())
			}
		}()

		return c.Status(202).JSON(fiber.Map{
			"job_id":  job.ID,
			"period":  period,
			"message": "Payroll recalculation started",
			"status":  job.Status,
		})
	})

	// Job status endpoints
	api.Get("/jobs", func(c *fiber.Ctx) error {
		jobs, err := jobRepo.ListRecent(ctx, 20)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"data": jobs})
	})

	api.Get("/jobs/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
		}
		job, err := jobRepo.GetByID(ctx, id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		return c.JSON(fiber.Map{
			"job":      job,
			"progress": job.Progress(),
		})
	})

	// Stats endpoint
	api.Get("/stats", func(c *fiber.Ctx) error {
		employeeCount, _ := employeeRepo.Count(ctx)
		return c.JSON(fiber.Map{
			"employees": employeeCount,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		app.Shutdown()
	}()

	// Start server
	log.Printf("Starting API server on :%s", cfg.App.Port)
	if err := app.Listen(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
