package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// AssigneeSelector picks the agent a new ticket is assigned to. The
// policy is pluggable; intake works with a nil result (unassigned).
type AssigneeSelector interface {
	SelectAssignee(ctx context.Context) (*domain.User, error)
}

// firstAgentSelector assigns every ticket to the first available
// IT agent. No load balancing; replace the selector to change that.
type firstAgentSelector struct {
	users repository.UserRepository
}

// NewFirstAgentSelector builds the default selection policy.
func NewFirstAgentSelector(users repository.UserRepository) AssigneeSelector {
	return &firstAgentSelector{users: users}
}

func (s *firstAgentSelector) SelectAssignee(ctx context.Context) (*domain.User, error) {
	agent, err := s.users.FirstByRole(ctx, domain.RoleITAgent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}
