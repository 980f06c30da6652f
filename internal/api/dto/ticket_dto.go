package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest is the intake payload.
type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// CreateTicketResponse acknowledges intake. Classification details are
// available via GET; intake only confirms the spam verdict.
type CreateTicketResponse struct {
	TicketID string `json:"ticket_id"`
	IsSpam   bool   `json:"is_spam"`
}

// UpdateStatusRequest is the agent-side status change payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// TicketSummary is the list-view shape of a ticket.
type TicketSummary struct {
	ID           string                `json:"id"`
	Subject      string                `json:"subject"`
	Category     string                `json:"category"`
	Priority     domain.TicketPriority `json:"priority"`
	Status       domain.TicketStatus   `json:"status"`
	IsSpam       bool                  `json:"is_spam"`
	AssignedToID *string               `json:"assigned_to_id,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ExternalRefResponse shows where a ticket landed externally.
type ExternalRefResponse struct {
	System     domain.TargetSystem `json:"system"`
	ExternalID string              `json:"external_id"`
	LastSyncAt time.Time           `json:"last_sync_at"`
}

// AuditEntryResponse is one immutable audit record.
type AuditEntryResponse struct {
	ID        string         `json:"id"`
	ActorID   *string        `json:"actor_id,omitempty"`
	Action    string         `json:"action"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// TicketDetailResponse is the full ticket view with refs and trail.
type TicketDetailResponse struct {
	TicketSummary
	Description  string                `json:"description"`
	SpamReason   *string               `json:"spam_reason,omitempty"`
	ExternalRefs []ExternalRefResponse `json:"external_refs"`
	AuditTrail   []AuditEntryResponse  `json:"audit_trail"`
}
