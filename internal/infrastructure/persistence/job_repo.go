package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/entity"
	"github.com/nukk-pain/smpain-HR-sub007/internal/domain/repository"
)

// batchJobRepo implements repository.BatchJobRepository
type batchJobRepo struct {
	pool *pgxpool.Pool
}

// NewBatchJobRepository creates a new batch job repository
func NewBatchJobRepository(pool *pgxpool.Pool) repository.BatchJobRepository {
	return &batchJobRepo{pool: pool}
}

func (r *batchJobRepo) Create(ctx context.Context, job *entity.BatchJob) error {
	query := `
		INSERT INTO batch_jobs (id, job_type, status, period, total_records, processed_records, failed_records, metadata, error_message, started_at, finished_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		job.ID, job.JobType, job.Status, job.Period, job.TotalRecords, job.ProcessedRecords, job.FailedRecords, job.Metadata, job.ErrorMessage, job.StartedAt, job.FinishedAt, job.CreatedAt)
	return err
}

func (r *batchJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.BatchJob, error) {
	query := `
		SELECT id, job_type, status, period, total_records, processed_records, failed_records, metadata, error_message, started_at, finished_at, created_at
		FROM batch_jobs WHERE id = $1
	`
	var job entity.BatchJob
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.JobType, &job.Status, &job.Period, &job.TotalRecords, &job.ProcessedRecords, &job.FailedRecords, &job.Metadata, &job.ErrorMessage, &job.StartedAt, &job.FinishedAt, &job.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *batchJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus, processed, failed int64) error {
	query := `
		UPDATE batch_jobs SET status = $2, processed_records = $3, failed_records = $4
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, status, processed, failed)
	return err
}

func (r *batchJobRepo) UpdateProgress(ctx context.Context, id uuid.UUID, processed, failed int64) error {
	query := `
		UPDATE batch_jobs SET processed_records = processed_records + $2, failed_records = failed_records + $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, processed, failed)
	return err
}

func (r *batchJobRepo) Complete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := `
		UPDATE batch_jobs SET status = $2, finished_at = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, entity.JobStatusCompleted, now)
	return err
}

func (r *batchJobRepo) Fail(ctx context.Context, id uuid.UUID, errorMsg string) error {
	now := time.Now()
	query := `
		UPDATE batch_jobs SET status = $2, error_message = $3, finished_at = $4
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, entity.JobStatusFailed, errorMsg, now)
	return err
}

func (r *batchJobRepo) ListRecent(ctx context.Context, limit int) ([]*entity.BatchJob, error) {
	query := `
		SELECT id, job_type, status, period, total_records, processed_records, failed_records, metadata, error_message, started_at, finished_at, created_at
		FROM batch_jobs ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*entity.BatchJob
	for rows.Next() {
		var job entity.BatchJob
		if err := rows.Scan(&job.ID, &job.JobType, &job.Status, &job.Period, &job.TotalRecords, &job.ProcessedRecords, &job.FailedRecords, &job.Metadata, &job.ErrorMessage, &job.StartedAt, &job.FinishedAt, &job.CreatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}
	return jobs, nil
}
