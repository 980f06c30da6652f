package integrations

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Adapter creates a ticket in one external system and returns the
// identifier that system assigned. Implementations fail with
// SERVICE_UNAVAILABLE when the target is disabled or unreachable.
type Adapter interface {
	System() domain.TargetSystem
	CreateTicket(ctx context.Context, subject, description string) (externalID string, err error)
}

// Registry resolves the adapter for a job's target system.
type Registry map[domain.TargetSystem]Adapter

// NewRegistry indexes adapters by the system they talk to.
func NewRegistry(adapters ...Adapter) Registry {
	registry := make(Registry, len(adapters))
	for _, adapter := range adapters {
		registry[adapter.System()] = adapter
	}
	return registry
}

// For returns the adapter registered for the given system.
func (r Registry) For(system domain.TargetSystem) (Adapter, bool) {
	adapter, ok := r[system]
	return adapter, ok
}
