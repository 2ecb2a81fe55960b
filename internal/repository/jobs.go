package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/entity"
)

type JobRepository interface {
	Create(ctx context.Context, job *entity.ProcessingJob) error
	Update(ctx context.Context, job *entity.ProcessingJob) error
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*entity.ProcessingJob, error)
	// ListExhaustedDocuments returns IDs of documents whose jobs have burned
	// through their retry budget without completing.
	ListExhaustedDocuments(ctx context.Context) ([]uuid.UUID, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}

type jobRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewJobRepository(pool *pgxpool.Pool, log *slog.Logger) JobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &jobRepo{pool: pool, log: log}
}

func (r *jobRepo) Create(ctx context.Context, job *entity.ProcessingJob) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO processing_jobs
			(id, document_id, job_type, status, retry_count, max_retries, error_message, result_data, created_at, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		job.ID, job.DocumentID, job.JobType, job.Status, job.RetryCount,
		job.MaxRetries, job.ErrorMessage, job.ResultData, job.CreatedAt,
		job.StartedAt, job.CompletedAt)
	if err != nil {
		r.log.Error("job create failed", "document_id", job.DocumentID, "job_type", job.JobType, "err", err)
		return common.WrapError(err, "create processing job")
	}
	r.log.Info("job created", "job_id", job.ID, "document_id", job.DocumentID, "job_type", job.JobType)
	return nil
}

func (r *jobRepo) Update(ctx context.Context, job *entity.ProcessingJob) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE processing_jobs
		SET status = $2, retry_count = $3, error_message = $4, result_data = $5,
			started_at = $6, completed_at = $7
		WHERE id = $1`,
		job.ID, job.Status, job.RetryCount, job.ErrorMessage, job.ResultData,
		job.StartedAt, job.CompletedAt)
	if err != nil {
		r.log.Error("job update failed", "job_id", job.ID, "err", err)
		return common.WrapError(err, "update processing job")
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *jobRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*entity.ProcessingJob, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document_id, job_type, status, retry_count, max_retries,
			error_message, result_data, created_at, started_at, completed_at
		FROM processing_jobs
		WHERE document_id = $1
		ORDER BY created_at`, documentID)
	if err != nil {
		return nil, common.WrapError(err, "list processing jobs")
	}
	defer rows.Close()

	var jobs []*entity.ProcessingJob
	for rows.Next() {
		var j entity.ProcessingJob
		if err := rows.Scan(&j.ID, &j.DocumentID, &j.JobType, &j.Status,
			&j.RetryCount, &j.MaxRetries, &j.ErrorMessage, &j.ResultData,
			&j.CreatedAt, &j.StartedAt, &j.CompletedAt); err != nil {
			return nil, common.WrapError(err, "scan processing job")
		}
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) ListExhaustedDocuments(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT document_id
		FROM processing_jobs
		WHERE status = 'failed' AND retry_count >= max_retries`)
	if err != nil {
		return nil, common.WrapError(err, "list exhausted documents")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, common.WrapError(err, "scan document id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *jobRepo) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM processing_jobs WHERE document_id = $1`, documentID)
	if err != nil {
		return common.WrapError(err, "delete processing jobs")
	}
	return nil
}
