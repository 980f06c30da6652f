package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// SyncJobRepository persists the synchronization job queue. Every state
// transition is a single conditional statement so claims stay race-safe
// if the worker is ever scaled out.
type SyncJobRepository interface {
	Create(ctx context.Context, job *domain.SyncJob) error
	// ClaimDue atomically moves up to limit due PENDING jobs to
	// PROCESSING and returns them.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]domain.SyncJob, error)
	MarkDone(ctx context.Context, id string) error
	// Reschedule returns a claimed job to PENDING with an incremented
	// attempt count and a future next_run_at.
	Reschedule(ctx context.Context, id string, attempts int, nextRunAt time.Time, lastError string) error
	MarkFailed(ctx context.Context, id string, attempts int, lastError string) error
	// ReclaimStale requeues PROCESSING jobs untouched since the cutoff.
	ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error)
	List(ctx context.Context, limit, offset int) ([]domain.SyncJobListing, error)
}

type syncJobRepository struct {
	pool *pgxpool.Pool
}

// NewSyncJobRepository instantiates the repository.
func NewSyncJobRepository(pool *pgxpool.Pool) SyncJobRepository {
	return &syncJobRepository{pool: pool}
}

func (r *syncJobRepository) Create(ctx context.Context, job *domain.SyncJob) error {
	const query = `
        INSERT INTO sync_jobs (ticket_id, system, status, attempts, next_run_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		job.TicketID,
		job.System,
		job.Status,
		job.Attempts,
		job.NextRunAt,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

func (r *syncJobRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]domain.SyncJob, error) {
	// SKIP LOCKED keeps two claimants from selecting the same rows; the
	// status guard in the subquery makes the PENDING->PROCESSING
	// transition conditional on the job's current state.
	const query = `
        UPDATE sync_jobs SET status='PROCESSING', updated_at=NOW()
        WHERE id IN (
            SELECT id FROM sync_jobs
            WHERE status='PENDING' AND next_run_at <= $1
            ORDER BY next_run_at ASC
            LIMIT $2
            FOR UPDATE SKIP LOCKED
        )
        RETURNING id, ticket_id, system, status, attempts, last_error, next_run_at, created_at, updated_at`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSyncJobs(rows)
}

func (r *syncJobRepository) MarkDone(ctx context.Context, id string) error {
	const query = `
        UPDATE sync_jobs SET status='DONE', last_error=NULL, updated_at=NOW()
        WHERE id=$1 AND status='PROCESSING'`
	return r.transition(ctx, query, id)
}

func (r *syncJobRepository) Reschedule(ctx context.Context, id string, attempts int, nextRunAt time.Time, lastError string) error {
	const query = `
        UPDATE sync_jobs SET status='PENDING', attempts=$1, next_run_at=$2, last_error=$3, updated_at=NOW()
        WHERE id=$4 AND status='PROCESSING'`
	return r.transition(ctx, query, attempts, nextRunAt, lastError, id)
}

func (r *syncJobRepository) MarkFailed(ctx context.Context, id string, attempts int, lastError string) error {
	const query = `
        UPDATE sync_jobs SET status='FAILED', attempts=$1, last_error=$2, updated_at=NOW()
        WHERE id=$3 AND status='PROCESSING'`
	return r.transition(ctx, query, attempts, lastError, id)
}

func (r *syncJobRepository) ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
        UPDATE sync_jobs SET status='PENDING', updated_at=NOW()
        WHERE status='PROCESSING' AND updated_at < $1`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *syncJobRepository) List(ctx context.Context, limit, offset int) ([]domain.SyncJobListing, error) {
	const query = `
        SELECT j.id, j.ticket_id, j.system, j.status, j.attempts, j.last_error, j.next_run_at,
               j.created_at, j.updated_at, t.subject
        FROM sync_jobs j
        JOIN tickets t ON t.id = j.ticket_id
        ORDER BY j.created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SyncJobListing
	for rows.Next() {
		var listing domain.SyncJobListing
		if err := rows.Scan(
			&listing.ID,
			&listing.TicketID,
			&listing.System,
			&listing.Status,
			&listing.Attempts,
			&listing.LastError,
			&listing.NextRunAt,
			&listing.CreatedAt,
			&listing.UpdatedAt,
			&listing.TicketSubject,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}

func (r *syncJobRepository) transition(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanSyncJobs(rows pgx.Rows) ([]domain.SyncJob, error) {
	var result []domain.SyncJob
	for rows.Next() {
		var job domain.SyncJob
		if err := rows.Scan(
			&job.ID,
			&job.TicketID,
			&job.System,
			&job.Status,
			&job.Attempts,
			&job.LastError,
			&job.NextRunAt,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}
