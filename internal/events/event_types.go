package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketSynced        EventType = "ticket_synced"
	EventTicketSyncFailed    EventType = "ticket_sync_failed"
)

// Event represents a domain event emitted by services and the worker.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Category     string                `json:"category"`
	Priority     domain.TicketPriority `json:"priority"`
	TargetSystem domain.TargetSystem   `json:"target_system"`
	IsSpam       bool                  `json:"is_spam"`
	Confidence   float64               `json:"confidence"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Note      string              `json:"note,omitempty"`
}

// TicketSyncedPayload payload.
type TicketSyncedPayload struct {
	System     domain.TargetSystem `json:"system"`
	ExternalID string              `json:"external_id"`
}

// TicketSyncFailedPayload payload.
type TicketSyncFailedPayload struct {
	System   domain.TargetSystem `json:"system"`
	Attempts int                 `json:"attempts"`
	Error    string              `json:"error"`
	Terminal bool                `json:"terminal"`
}
