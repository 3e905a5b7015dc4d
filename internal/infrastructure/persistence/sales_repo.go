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

// salesRecordRepo implements repository.SalesRecordRepository
type salesRecordRepo struct {
	pool *pgxpool.Pool
}

// NewSalesRecordRepository creates a new sales record repository
func NewSalesRecordRepository(pool *pgxpool.Pool) repository.SalesRecordRepository {
	return &salesRecordRepo{pool: pool}
}

func (r *salesRecordRepo) Upsert(ctx context.Context, record *entity.SalesRecord) error {
	query := `
		INSERT INTO sales_records (id, employee_id, period, personal_sales, team_sales, total_sales, performance_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, period) DO UPDATE SET
			personal_sales = EXCLUDED.personal_sales,
			team_sales = EXCLUDED.team_sales,
			total_sales = EXCLUDED.total_sales,
			performance_score = EXCLUDED.performance_score,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID, record.EmployeeID, record.Period, record.PersonalSales, record.TeamSales,
		record.TotalSales, record.PerformanceScore, record.CreatedAt, record.UpdatedAt)
	return err
}

// CreateBatch uses PostgreSQL COPY protocol for high-performance bulk inserts
func (r *salesRecordRepo) CreateBatch(ctx context.Context, records []*entity.SalesRecord) (int64, error) {
	columns := []string{"id", "employee_id", "period", "personal_sales", "team_sales", "total_sales", "performance_score", "created_at", "updated_at"}

	rows := make([][]interface{}, len(records))
	for i, s := range records {
		rows[i] = []interface{}{
			s.ID, s.EmployeeID, s.Period, s.PersonalSales, s.TeamSales, s.TotalSales, s.PerformanceScore, s.CreatedAt, s.UpdatedAt,
		}
	}

	copyCount, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"sales_records"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy sales records: %w", err)
	}

	return copyCount, nil
}

func (r *salesRecordRepo) GetByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, period string) (*entity.SalesRecord, error) {
	query := `
		SELECT id, employee_id, period, personal_sales, team_sales, total_sales, performance_score, created_at, updated_at
		FROM sales_records WHERE employee_id = $1 AND period = $2
	`
	var s entity.SalesRecord
	err := r.pool.QueryRow(ctx, query, employeeID, period).Scan(
		&s.ID, &s.EmployeeID, &s.Period, &s.PersonalSales, &s.TeamSales, &s.TotalSales, &s.PerformanceScore, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *salesRecordRepo) ListByPeriod(ctx context.Context, period string, limit, offset int) ([]*entity.SalesRecord, error) {
	query := `
		SELECT id, employee_id, period, personal_sales, team_sales, total_sales, performance_score, created_at, updated_at
		FROM sales_records WHERE period = $1 ORDER BY total_sales DESC LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, period, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*entity.SalesRecord
	for rows.Next() {
		var s entity.SalesRecord
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.Period, &s.PersonalSales, &s.TeamSales, &s.TotalSales, &s.PerformanceScore, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, &s)
	}
	return records, nil
}
