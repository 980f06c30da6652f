package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// SyncJobResponse is the operational view of one queue entry.
type SyncJobResponse struct {
	ID            string               `json:"id"`
	TicketID      string               `json:"ticket_id"`
	TicketSubject string               `json:"ticket_subject"`
	System        domain.TargetSystem  `json:"system"`
	Status        domain.SyncJobStatus `json:"status"`
	Attempts      int                  `json:"attempts"`
	LastError     *string              `json:"last_error,omitempty"`
	NextRunAt     time.Time            `json:"next_run_at"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
