package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/integrations"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Clock abstracts time so backoff scheduling is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// SyncWorker drains the sync-job queue: it claims due PENDING jobs on a
// fixed interval, delivers each ticket to its external system, and
// either completes the job or reschedules it with linear capped
// backoff. Jobs are processed sequentially so at most one external call
// is in flight from this process.
type SyncWorker struct {
	jobs     repository.SyncJobRepository
	tickets  repository.TicketRepository
	refs     repository.ExternalRefRepository
	audit    repository.AuditLogRepository
	adapters integrations.Registry

	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	clock      Clock

	pollInterval time.Duration
	batchSize    int
	maxAttempts  int
	callTimeout  time.Duration
	lease        time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// SyncWorkerDependencies bundles the worker's collaborators.
type SyncWorkerDependencies struct {
	SyncJobRepo repository.SyncJobRepository
	TicketRepo  repository.TicketRepository
	RefRepo     repository.ExternalRefRepository
	AuditRepo   repository.AuditLogRepository
	Adapters    integrations.Registry
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Clock       Clock
}

// NewSyncWorker constructs the worker from configuration.
func NewSyncWorker(cfg config.SyncConfig, deps SyncWorkerDependencies) *SyncWorker {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 5
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 8
	}
	return &SyncWorker{
		jobs:         deps.SyncJobRepo,
		tickets:      deps.TicketRepo,
		refs:         deps.RefRepo,
		audit:        deps.AuditRepo,
		adapters:     deps.Adapters,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		clock:        clock,
		pollInterval: cfg.PollInterval(),
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		callTimeout:  cfg.CallTimeout(),
		lease:        cfg.ProcessingLease(),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start launches the poll loop. It returns immediately; call Stop to
// shut the loop down after any in-flight job finishes.
func (w *SyncWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop signals the loop and waits for it to drain.
func (w *SyncWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *SyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("sync worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize),
		zap.Int("max_attempts", w.maxAttempts))

	for {
		select {
		case <-w.stopCh:
			w.logger.Info("sync worker stopped")
			return
		case <-ctx.Done():
			w.logger.Info("sync worker context cancelled")
			return
		case <-ticker.C:
			w.RunCycle(ctx)
		}
	}
}

// RunCycle performs one poll iteration: requeue abandoned jobs, claim a
// batch of due jobs, process them sequentially. One job's failure never
// aborts the rest of the batch.
func (w *SyncWorker) RunCycle(ctx context.Context) {
	now := w.clock.Now()

	reclaimed, err := w.jobs.ReclaimStale(ctx, now.Add(-w.lease))
	if err != nil {
		w.logger.Error("failed to reclaim stale jobs", zap.Error(err))
	} else if reclaimed > 0 {
		w.logger.Warn("requeued jobs stuck in PROCESSING", zap.Int64("count", reclaimed))
	}

	claimed, err := w.jobs.ClaimDue(ctx, now, w.batchSize)
	if err != nil {
		w.logger.Error("failed to claim sync jobs", zap.Error(err))
		return
	}

	for i := range claimed {
		w.processJob(ctx, &claimed[i])
	}
}

func (w *SyncWorker) processJob(ctx context.Context, job *domain.SyncJob) {
	ticket, err := w.tickets.GetByID(ctx, job.TicketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Orphaned job; terminal, nothing to deliver.
			w.fail(ctx, job, w.maxAttempts, "ticket missing")
			return
		}
		w.handleFailure(ctx, job, err)
		return
	}

	adapter, ok := w.adapters.For(job.System)
	if !ok {
		w.fail(ctx, job, w.maxAttempts, "no adapter for system "+string(job.System))
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, w.callTimeout)
	externalID, err := adapter.CreateTicket(callCtx, ticket.Subject, ticket.Description)
	cancel()
	if err != nil {
		w.handleFailure(ctx, job, err)
		return
	}

	w.complete(ctx, job, externalID)
}

func (w *SyncWorker) complete(ctx context.Context, job *domain.SyncJob, externalID string) {
	ref := &domain.ExternalTicketRef{
		TicketID:   job.TicketID,
		System:     job.System,
		ExternalID: externalID,
		LastSyncAt: w.clock.Now(),
	}
	if err := w.refs.Upsert(ctx, ref); err != nil {
		// The external ticket exists but we could not record it; retry
		// the job, the upsert keeps the ref unique per system.
		w.handleFailure(ctx, job, err)
		return
	}

	if err := w.jobs.MarkDone(ctx, job.ID); err != nil {
		w.logger.Error("failed to mark job done", zap.String("job_id", job.ID), zap.Error(err))
		return
	}

	w.appendAudit(ctx, job.TicketID, domain.AuditSyncSuccess, map[string]any{
		"system":      job.System,
		"external_id": externalID,
	})
	w.metrics.RecordSync(string(job.System), "success")
	w.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketSynced,
		TicketID:  job.TicketID,
		Timestamp: w.clock.Now(),
		Payload: events.TicketSyncedPayload{
			System:     job.System,
			ExternalID: externalID,
		},
	})

	w.logger.Info("ticket synced",
		zap.String("ticket_id", job.TicketID),
		zap.String("system", string(job.System)),
		zap.String("external_id", externalID))
}

func (w *SyncWorker) handleFailure(ctx context.Context, job *domain.SyncJob, cause error) {
	attempts := job.Attempts + 1
	if attempts >= w.maxAttempts {
		w.fail(ctx, job, attempts, cause.Error())
		return
	}

	nextRun := w.clock.Now().Add(BackoffDelay(attempts))
	if err := w.jobs.Reschedule(ctx, job.ID, attempts, nextRun, cause.Error()); err != nil {
		w.logger.Error("failed to reschedule job", zap.String("job_id", job.ID), zap.Error(err))
		return
	}

	w.recordFailure(ctx, job, attempts, cause.Error(), false)
	w.logger.Warn("sync attempt failed, rescheduled",
		zap.String("ticket_id", job.TicketID),
		zap.String("system", string(job.System)),
		zap.Int("attempts", attempts),
		zap.Time("next_run_at", nextRun),
		zap.String("error", cause.Error()))
}

func (w *SyncWorker) fail(ctx context.Context, job *domain.SyncJob, attempts int, reason string) {
	if err := w.jobs.MarkFailed(ctx, job.ID, attempts, reason); err != nil {
		w.logger.Error("failed to mark job failed", zap.String("job_id", job.ID), zap.Error(err))
		return
	}

	w.recordFailure(ctx, job, attempts, reason, true)
	w.logger.Error("sync job failed terminally",
		zap.String("ticket_id", job.TicketID),
		zap.String("system", string(job.System)),
		zap.Int("attempts", attempts),
		zap.String("error", reason))
}

func (w *SyncWorker) recordFailure(ctx context.Context, job *domain.SyncJob, attempts int, reason string, terminal bool) {
	w.appendAudit(ctx, job.TicketID, domain.AuditSyncFailed, map[string]any{
		"system":   job.System,
		"attempts": attempts,
		"error":    reason,
	})
	w.metrics.RecordSync(string(job.System), "failure")
	w.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketSyncFailed,
		TicketID:  job.TicketID,
		Timestamp: w.clock.Now(),
		Payload: events.TicketSyncFailedPayload{
			System:   job.System,
			Attempts: attempts,
			Error:    reason,
			Terminal: terminal,
		},
	})
}

func (w *SyncWorker) appendAudit(ctx context.Context, ticketID, action string, meta map[string]any) {
	entry := &domain.AuditLogEntry{
		Action:   action,
		Entity:   "Ticket",
		EntityID: &ticketID,
		Meta:     meta,
	}
	if err := w.audit.Append(ctx, entry); err != nil {
		w.logger.Error("failed to append audit entry", zap.String("action", action), zap.Error(err))
	}
}

func (w *SyncWorker) publish(ctx context.Context, event events.Event) {
	if w.dispatcher == nil {
		return
	}
	_ = w.dispatcher.Publish(ctx, event)
}

// BackoffDelay is the wait before the given (already incremented)
// attempt is retried: attempts*2 minutes, capped at one hour.
func BackoffDelay(attempts int) time.Duration {
	minutes := attempts * 2
	if minutes > 60 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}
