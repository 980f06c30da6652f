package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/classifier"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const (
	subjectMinLen     = 3
	subjectMaxLen     = 140
	descriptionMinLen = 10
	descriptionMaxLen = 5000
)

// IntakeService orchestrates ticket creation: classify, persist, audit,
// and enqueue synchronization. Ticket creation never fails because of
// assistive-classifier or downstream-system health.
type IntakeService struct {
	tickets       repository.TicketRepository
	jobs          repository.SyncJobRepository
	audit         repository.AuditLogRepository
	suggester     classifier.Suggester
	selector      AssigneeSelector
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	assistTimeout time.Duration
}

// IntakeDependencies bundles what the intake pipeline needs.
type IntakeDependencies struct {
	TicketRepo    repository.TicketRepository
	SyncJobRepo   repository.SyncJobRepository
	AuditRepo     repository.AuditLogRepository
	Suggester     classifier.Suggester
	Selector      AssigneeSelector
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	AssistTimeout time.Duration
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		tickets:       deps.TicketRepo,
		jobs:          deps.SyncJobRepo,
		audit:         deps.AuditRepo,
		suggester:     deps.Suggester,
		selector:      deps.Selector,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		assistTimeout: deps.AssistTimeout,
	}
}

// CreateTicket runs the intake pipeline for a validated submission.
// Spam tickets are persisted and audited but never enqueued.
func (s *IntakeService) CreateTicket(ctx context.Context, creatorID string, input TicketCreateInput) (*domain.Ticket, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// The rule classifier is total; its result is the guaranteed
	// fallback before the assistive call is even attempted.
	fallback := classifier.Classify(input.Subject, input.Description)
	suggested := classifier.Suggestion{Result: fallback, Confidence: 0}

	assistCtx, cancel := context.WithTimeout(ctx, s.assistTimeout)
	if suggestion, err := s.suggester.Suggest(assistCtx, input.Subject, input.Description); err != nil {
		s.logger.Debug("assistive classification unavailable, using rule fallback", zap.Error(err))
	} else {
		suggested = suggestion
	}
	cancel()

	var assigneeID *string
	if agent, err := s.selector.SelectAssignee(ctx); err != nil {
		return nil, apperrors.MapError(err)
	} else if agent != nil {
		assigneeID = &agent.ID
	}

	ticket := &domain.Ticket{
		Subject:      input.Subject,
		Description:  input.Description,
		Category:     suggested.Category,
		Priority:     suggested.Priority,
		Status:       domain.TicketStatusOpen,
		CreatedByID:  creatorID,
		AssignedToID: assigneeID,
		IsSpam:       suggested.IsSpam,
	}
	if suggested.SpamReason != "" {
		reason := suggested.SpamReason
		ticket.SpamReason = &reason
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.audit.Append(ctx, &domain.AuditLogEntry{
		ActorID:  &creatorID,
		Action:   domain.AuditTicketCreated,
		Entity:   "Ticket",
		EntityID: &ticket.ID,
		Meta: map[string]any{
			"confidence":     suggested.Confidence,
			"assigned_to_id": assigneeID,
			"is_spam":        ticket.IsSpam,
			"spam_reason":    ticket.SpamReason,
		},
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	if !ticket.IsSpam {
		job := &domain.SyncJob{
			TicketID:  ticket.ID,
			System:    suggested.TargetSystem,
			Status:    domain.SyncJobPending,
			Attempts:  0,
			NextRunAt: time.Now(),
		}
		if err := s.jobs.Create(ctx, job); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		ActorID:   &creatorID,
		Timestamp: time.Now(),
		Payload: events.TicketCreatedPayload{
			Category:     ticket.Category,
			Priority:     ticket.Priority,
			TargetSystem: suggested.TargetSystem,
			IsSpam:       ticket.IsSpam,
			Confidence:   suggested.Confidence,
		},
	})

	return ticket, nil
}

func validateInput(input TicketCreateInput) error {
	if n := len(input.Subject); n < subjectMinLen || n > subjectMaxLen {
		return apperrors.NewValidationError("subject must be 3-140 characters", map[string]any{"length": n})
	}
	if n := len(input.Description); n < descriptionMinLen || n > descriptionMaxLen {
		return apperrors.NewValidationError("description must be 10-5000 characters", map[string]any{"length": n})
	}
	return nil
}

func (s *IntakeService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
