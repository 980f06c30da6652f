package integrations

import (
	"context"
	"fmt"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// solmanAdapter is a stub client for SAP Solution Manager.
type solmanAdapter struct {
	enabled bool
}

// NewSolmanAdapter builds the SOLMAN adapter.
func NewSolmanAdapter(enabled bool) Adapter {
	return &solmanAdapter{enabled: enabled}
}

func (a *solmanAdapter) System() domain.TargetSystem {
	return domain.SystemSolman
}

func (a *solmanAdapter) CreateTicket(ctx context.Context, subject, description string) (string, error) {
	if !a.enabled {
		return "", apperrors.NewServiceUnavailable("Solman down/disabled")
	}
	if err := ctx.Err(); err != nil {
		return "", apperrors.NewServiceUnavailable("Solman call cancelled")
	}
	return fmt.Sprintf("SOL-%s", shortID()), nil
}
