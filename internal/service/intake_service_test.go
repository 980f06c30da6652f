package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/classifier"
	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

type memTicketRepo struct {
	tickets map[string]*domain.Ticket
	seq     int
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *memTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	r.seq++
	t.ID = fmt.Sprintf("ticket-%d", r.seq)
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	stored := *t
	r.tickets[t.ID] = &stored
	return nil
}

func (r *memTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *memTicketRepo) ListByCreator(_ context.Context, creatorID string, _, _ int) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, t := range r.tickets {
		if t.CreatedByID == creatorID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (r *memTicketRepo) ListByAssignee(_ context.Context, agentID string, _, _ int) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, t := range r.tickets {
		if t.AssignedToID != nil && *t.AssignedToID == agentID {
			result = append(result, *t)
		}
	}
	return result, nil
}

type memJobRepo struct {
	created []domain.SyncJob
}

func (r *memJobRepo) Create(_ context.Context, job *domain.SyncJob) error {
	job.ID = fmt.Sprintf("job-%d", len(r.created)+1)
	r.created = append(r.created, *job)
	return nil
}

func (r *memJobRepo) ClaimDue(_ context.Context, _ time.Time, _ int) ([]domain.SyncJob, error) {
	return nil, nil
}

func (r *memJobRepo) MarkDone(_ context.Context, _ string) error { return nil }

func (r *memJobRepo) Reschedule(_ context.Context, _ string, _ int, _ time.Time, _ string) error {
	return nil
}

func (r *memJobRepo) MarkFailed(_ context.Context, _ string, _ int, _ string) error { return nil }

func (r *memJobRepo) ReclaimStale(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func (r *memJobRepo) List(_ context.Context, _, _ int) ([]domain.SyncJobListing, error) {
	return nil, nil
}

type memAuditRepo struct {
	entries []domain.AuditLogEntry
}

func (r *memAuditRepo) Append(_ context.Context, entry *domain.AuditLogEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAuditRepo) List(_ context.Context, _, _ int) ([]domain.AuditLogEntry, error) {
	return r.entries, nil
}

func (r *memAuditRepo) ListByEntity(_ context.Context, _, entityID string, _ int) ([]domain.AuditLogEntry, error) {
	var result []domain.AuditLogEntry
	for _, e := range r.entries {
		if e.EntityID != nil && *e.EntityID == entityID {
			result = append(result, e)
		}
	}
	return result, nil
}

type stubSuggester struct {
	suggestion classifier.Suggestion
	err        error
	called     bool
}

func (s *stubSuggester) Suggest(_ context.Context, _, _ string) (classifier.Suggestion, error) {
	s.called = true
	if s.err != nil {
		return classifier.Suggestion{}, s.err
	}
	return s.suggestion, nil
}

type stubSelector struct {
	agent *domain.User
	err   error
}

func (s *stubSelector) SelectAssignee(_ context.Context) (*domain.User, error) {
	return s.agent, s.err
}

type intakeFixture struct {
	svc     *IntakeService
	tickets *memTicketRepo
	jobs    *memJobRepo
	audit   *memAuditRepo
}

func newIntakeFixture(suggester classifier.Suggester, selector AssigneeSelector) *intakeFixture {
	f := &intakeFixture{
		tickets: newMemTicketRepo(),
		jobs:    &memJobRepo{},
		audit:   &memAuditRepo{},
	}
	f.svc = NewIntakeService(IntakeDependencies{
		TicketRepo:    f.tickets,
		SyncJobRepo:   f.jobs,
		AuditRepo:     f.audit,
		Suggester:     suggester,
		Selector:      selector,
		Logger:        zap.NewNop(),
		AssistTimeout: time.Second,
	})
	return f
}

func ruleSuggester() *stubSuggester {
	return &stubSuggester{err: apperrors.NewServiceUnavailable("assistive classification disabled")}
}

func TestCreateTicketNetworkOutage(t *testing.T) {
	f := newIntakeFixture(ruleSuggester(), &stubSelector{})

	ticket, err := f.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Subject:     "WiFi down on floor 3",
		Description: "Nobody on floor 3 can reach the network since this morning.",
	})
	require.NoError(t, err)

	assert.Equal(t, classifier.CategoryNetwork, ticket.Category)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.False(t, ticket.IsSpam)

	require.Len(t, f.jobs.created, 1)
	job := f.jobs.created[0]
	assert.Equal(t, ticket.ID, job.TicketID)
	assert.Equal(t, domain.SystemGLPI, job.System)
	assert.Equal(t, domain.SyncJobPending, job.Status)
	assert.Equal(t, 0, job.Attempts)
	assert.WithinDuration(t, time.Now(), job.NextRunAt, 5*time.Second)
}

func TestCreateTicketSpamIsNotEnqueued(t *testing.T) {
	f := newIntakeFixture(ruleSuggester(), &stubSelector{})

	ticket, err := f.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Subject:     "You won a prize!",
		Description: "Claim your free gift card now, click here to collect your winnings.",
	})
	require.NoError(t, err)

	assert.True(t, ticket.IsSpam)
	require.NotNil(t, ticket.SpamReason)
	assert.Contains(t, *ticket.SpamReason, "Keyword match")
	assert.Empty(t, f.jobs.created)

	// Spam tickets are still persisted and audited.
	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, domain.AuditTicketCreated, entry.Action)
	assert.Equal(t, true, entry.Meta["is_spam"])
}

func TestCreateTicketEnterpriseAppRoutesToSolman(t *testing.T) {
	f := newIntakeFixture(ruleSuggester(), &stubSelector{})

	ticket, err := f.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Subject:     "SAP login rejected",
		Description: "The SAP portal refuses my credentials since the last patch.",
	})
	require.NoError(t, err)

	assert.Equal(t, classifier.CategoryEnterpriseApp, ticket.Category)
	require.Len(t, f.jobs.created, 1)
	assert.Equal(t, domain.SystemSolman, f.jobs.created[0].System)
}

func TestCreateTicketUsesAssistiveSuggestion(t *testing.T) {
	suggester := &stubSuggester{suggestion: classifier.Suggestion{
		Result: classifier.Result{
			Category:     classifier.CategoryHardware,
			Priority:     domain.TicketPriorityCritical,
			TargetSystem: domain.SystemGLPI,
		},
		Confidence: 0.92,
	}}
	f := newIntakeFixture(suggester, &stubSelector{})

	ticket, err := f.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Subject:     "Screen flickers",
		Description: "External monitor flickers every few seconds regardless of cable.",
	})
	require.NoError(t, err)

	assert.True(t, suggester.called)
	assert.Equal(t, classifier.CategoryHardware, ticket.Category)
	assert.Equal(t, domain.TicketPriorityCritical, ticket.Priority)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, 0.92, f.audit.entries[0].Meta["confidence"])
}

func TestCreateTicketFallsBackWhenAssistFails(t *testing.T) {
	suggester := &stubSuggester{err: apperrors.NewServiceUnavailable("assist timed out")}
	f := newIntakeFixture(suggester, &stubSelector{})

	ticket, err := f.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Subject:     "Printer out of order",
		Description: "The 4th floor printer shows a paper jam that is not there.",
	})
	require.NoError(t, err)

	assert.True(t, suggester.called)
	assert.Equal(t, classifier.CategoryHardware, ticket.Category)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, float64(0), f.audit.entries[0].Meta["confidence"])
}

func TestCreateTicketAssignsFirstAgent(t *testing.T) {
	agent := &domain.User{ID: "agent-7", Role: domain.RoleITAgent}
	f := newIntakeFixture(ruleSuggester(), &stubSelector{agent: agent})

	ticket, err := f.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Subject:     "Mouse double clicks",
		Description: "Single clicks register twice on my desktop mouse.",
	})
	require.NoError(t, err)

	require.NotNil(t, ticket.AssignedToID)
	assert.Equal(t, "agent-7", *ticket.AssignedToID)
}

func TestCreateTicketUnassignedWhenNoAgents(t *testing.T) {
	f := newIntakeFixture(ruleSuggester(), &stubSelector{})

	ticket, err := f.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Subject:     "Keyboard key stuck",
		Description: "The escape key on my laptop keyboard is physically stuck.",
	})
	require.NoError(t, err)
	assert.Nil(t, ticket.AssignedToID)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newIntakeFixture(ruleSuggester(), &stubSelector{})

	tests := []struct {
		name  string
		input TicketCreateInput
	}{
		{"subject too short", TicketCreateInput{Subject: "hi", Description: "a perfectly valid description"}},
		{"subject too long", TicketCreateInput{Subject: strings.Repeat("x", 141), Description: "a perfectly valid description"}},
		{"description too short", TicketCreateInput{Subject: "valid subject", Description: "too short"}},
		{"description too long", TicketCreateInput{Subject: "valid subject", Description: strings.Repeat("x", 5001)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTicket(context.Background(), "user-1", tt.input)
			require.Error(t, err)
			var derr *apperrors.DomainError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, "VALIDATION_FAILED", derr.Code)

			assert.Empty(t, f.tickets.tickets, "invalid input must not persist a ticket")
			assert.Empty(t, f.jobs.created)
		})
	}
}
