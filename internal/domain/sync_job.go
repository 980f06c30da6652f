package domain

import "time"

// TargetSystem identifies an external ticketing system.
type TargetSystem string

const (
	SystemGLPI   TargetSystem = "GLPI"
	SystemSolman TargetSystem = "SOLMAN"
)

// SyncJobStatus enumerates the job state machine. PENDING and the two
// terminal states are stable; PROCESSING is transient and reclaimed by
// the worker if a crash leaves it behind.
type SyncJobStatus string

const (
	SyncJobPending    SyncJobStatus = "PENDING"
	SyncJobProcessing SyncJobStatus = "PROCESSING"
	SyncJobDone       SyncJobStatus = "DONE"
	SyncJobFailed     SyncJobStatus = "FAILED"
)

// SyncJob is a unit of work representing "deliver this ticket to an
// external system". Jobs are retained in terminal states for auditing.
type SyncJob struct {
	ID        string
	TicketID  string
	System    TargetSystem
	Status    SyncJobStatus
	Attempts  int
	LastError *string
	NextRunAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SyncJobListing pairs a job with its ticket's subject for diagnostics.
type SyncJobListing struct {
	SyncJob
	TicketSubject string
}
