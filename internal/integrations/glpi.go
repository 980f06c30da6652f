package integrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// glpiAdapter is a stub client for the GLPI asset-management system.
// The real wire protocol is out of scope; the stub honors the feature
// toggle and fabricates identifiers in GLPI's format.
type glpiAdapter struct {
	enabled bool
}

// NewGLPIAdapter builds the GLPI adapter.
func NewGLPIAdapter(enabled bool) Adapter {
	return &glpiAdapter{enabled: enabled}
}

func (a *glpiAdapter) System() domain.TargetSystem {
	return domain.SystemGLPI
}

func (a *glpiAdapter) CreateTicket(ctx context.Context, subject, description string) (string, error) {
	if !a.enabled {
		return "", apperrors.NewServiceUnavailable("GLPI down/disabled")
	}
	if err := ctx.Err(); err != nil {
		return "", apperrors.NewServiceUnavailable("GLPI call cancelled")
	}
	return fmt.Sprintf("GLPI-%s", shortID()), nil
}

func shortID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
