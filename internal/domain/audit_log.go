package domain

import "time"

// Audit actions recorded by this service.
const (
	AuditTicketCreated       = "TICKET_CREATED"
	AuditTicketStatusUpdated = "TICKET_STATUS_UPDATED"
	AuditSyncSuccess         = "SYNC_SUCCESS"
	AuditSyncFailed          = "SYNC_FAILED"
)

// AuditLogEntry is an immutable record of a state-changing action.
// Entries are never updated or deleted.
type AuditLogEntry struct {
	ID        string
	ActorID   *string
	Action    string
	Entity    string
	EntityID  *string
	Meta      map[string]any
	CreatedAt time.Time
}
