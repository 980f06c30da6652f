package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusOnHold     TicketStatus = "ON_HOLD"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
	TicketStatusReopened   TicketStatus = "REOPENED"
)

// TicketPriority enumerates urgency as assigned by the classifier.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// Ticket is the aggregate for support requests. Tickets are never
// deleted; their lifecycle ends in CLOSED (or loops through REOPENED).
type Ticket struct {
	ID           string
	Subject      string
	Description  string
	Category     string
	Priority     TicketPriority
	Status       TicketStatus
	CreatedByID  string
	AssignedToID *string
	IsSpam       bool
	SpamReason   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
