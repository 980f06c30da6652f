package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService covers reads and agent-side mutations after intake.
type TicketService struct {
	tickets    repository.TicketRepository
	refs       repository.ExternalRefRepository
	jobs       repository.SyncJobRepository
	audit      repository.AuditLogRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	RefRepo     repository.ExternalRefRepository
	SyncJobRepo repository.SyncJobRepository
	AuditRepo   repository.AuditLogRepository
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		refs:       deps.RefRepo,
		jobs:       deps.SyncJobRepo,
		audit:      deps.AuditRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ListMine returns tickets created by the caller.
func (s *TicketService) ListMine(ctx context.Context, userID string, limit, offset int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByCreator(ctx, userID, limit, offset)
	return tickets, apperrors.MapError(err)
}

// ListAssigned returns tickets assigned to the agent.
func (s *TicketService) ListAssigned(ctx context.Context, agentID string, limit, offset int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByAssignee(ctx, agentID, limit, offset)
	return tickets, apperrors.MapError(err)
}

// GetTicket fetches a ticket with its external refs and audit entries,
// enforcing access: creators see their own tickets, agents see tickets
// assigned to them, admins see everything.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, []domain.ExternalTicketRef, []domain.AuditLogEntry, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, nil, apperrors.MapError(err)
	}
	if !canReadTicket(caller, ticket) {
		return nil, nil, nil, apperrors.NewForbidden("access denied")
	}

	refs, err := s.refs.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	trail, err := s.audit.ListByEntity(ctx, "Ticket", ticket.ID, 50)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	return ticket, refs, trail, nil
}

// UpdateStatus applies a status transition on behalf of the assigned
// agent and records it in the audit trail.
func (s *TicketService) UpdateStatus(ctx context.Context, agent *domain.User, ticketID string, newStatus domain.TicketStatus, note string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.AssignedToID == nil || *ticket.AssignedToID != agent.ID {
		return nil, apperrors.NewForbidden("ticket not assigned to caller")
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, newStatus); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Status = newStatus

	if err := s.audit.Append(ctx, &domain.AuditLogEntry{
		ActorID:  &agent.ID,
		Action:   domain.AuditTicketStatusUpdated,
		Entity:   "Ticket",
		EntityID: &ticket.ID,
		Meta: map[string]any{
			"status": newStatus,
			"note":   note,
		},
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketStatusChanged,
		TicketID:  ticket.ID,
		ActorID:   &agent.ID,
		Timestamp: time.Now(),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Note:      note,
		},
	})
	return ticket, nil
}

// ListSyncJobs exposes the job queue with ticket subjects for
// operational diagnostics.
func (s *TicketService) ListSyncJobs(ctx context.Context, limit, offset int) ([]domain.SyncJobListing, error) {
	jobs, err := s.jobs.List(ctx, limit, offset)
	return jobs, apperrors.MapError(err)
}

// ListAuditLog exposes the audit trail to administrators.
func (s *TicketService) ListAuditLog(ctx context.Context, limit, offset int) ([]domain.AuditLogEntry, error) {
	entries, err := s.audit.List(ctx, limit, offset)
	return entries, apperrors.MapError(err)
}

func canReadTicket(caller *domain.User, ticket *domain.Ticket) bool {
	if caller == nil {
		return false
	}
	switch caller.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleITAgent:
		return ticket.AssignedToID != nil && *ticket.AssignedToID == caller.ID
	default:
		return ticket.CreatedByID == caller.ID
	}
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusOnHold:     {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusReopened},
	domain.TicketStatusClosed:     {domain.TicketStatusReopened},
	domain.TicketStatusReopened:   {domain.TicketStatusInProgress, domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusClosed},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
