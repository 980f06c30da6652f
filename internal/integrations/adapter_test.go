package integrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func TestRegistryResolvesBySystem(t *testing.T) {
	registry := NewRegistry(NewGLPIAdapter(true), NewSolmanAdapter(true))

	glpi, ok := registry.For(domain.SystemGLPI)
	require.True(t, ok)
	assert.Equal(t, domain.SystemGLPI, glpi.System())

	solman, ok := registry.For(domain.SystemSolman)
	require.True(t, ok)
	assert.Equal(t, domain.SystemSolman, solman.System())

	_, ok = registry.For(domain.TargetSystem("JIRA"))
	assert.False(t, ok)
}

func TestGLPIAdapterCreatesExternalID(t *testing.T) {
	adapter := NewGLPIAdapter(true)

	id, err := adapter.CreateTicket(context.Background(), "printer broken", "no toner")
	require.NoError(t, err)
	assert.Regexp(t, `^GLPI-[0-9A-F]{8}$`, id)
}

func TestSolmanAdapterCreatesExternalID(t *testing.T) {
	adapter := NewSolmanAdapter(true)

	id, err := adapter.CreateTicket(context.Background(), "sap issue", "finance module down")
	require.NoError(t, err)
	assert.Regexp(t, `^SOL-[0-9A-F]{8}$`, id)
}

func TestDisabledAdaptersFailAsUnavailable(t *testing.T) {
	for _, adapter := range []Adapter{NewGLPIAdapter(false), NewSolmanAdapter(false)} {
		_, err := adapter.CreateTicket(context.Background(), "s", "d")
		require.Error(t, err)
		assert.True(t, apperrors.IsServiceUnavailable(err))
	}
}

func TestAdaptersHonorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, adapter := range []Adapter{NewGLPIAdapter(true), NewSolmanAdapter(true)} {
		_, err := adapter.CreateTicket(ctx, "s", "d")
		require.Error(t, err)
		assert.True(t, apperrors.IsServiceUnavailable(err))
	}
}
