package domain

import "time"

// ExternalTicketRef records the identifier an external system assigned
// to a ticket. At most one ref exists per (ticket, system) pair.
type ExternalTicketRef struct {
	ID         string
	TicketID   string
	System     TargetSystem
	ExternalID string
	LastSyncAt time.Time
}
