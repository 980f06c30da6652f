package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestClassifyDefaults(t *testing.T) {
	res := Classify("Access request", "please grant me a license for the design tool")
	assert.Equal(t, CategoryGeneralIT, res.Category)
	assert.Equal(t, domain.TicketPriorityMedium, res.Priority)
	assert.Equal(t, domain.SystemGLPI, res.TargetSystem)
	assert.False(t, res.IsSpam)
}

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		name        string
		subject     string
		description string
		category    string
		target      domain.TargetSystem
	}{
		{
			name:        "network keyword",
			subject:     "WiFi keeps dropping",
			description: "connection unstable in meeting rooms",
			category:    CategoryNetwork,
			target:      domain.SystemGLPI,
		},
		{
			name:        "hardware keyword",
			subject:     "Broken printer",
			description: "the device on floor 2 shows an error",
			category:    CategoryHardware,
			target:      domain.SystemGLPI,
		},
		{
			name:        "enterprise keyword routes to solman",
			subject:     "SAP login failure",
			description: "cannot open the finance module",
			category:    CategoryEnterpriseApp,
			target:      domain.SystemSolman,
		},
		{
			name:        "hardware overrides network",
			subject:     "laptop cannot join the network",
			description: "cable and wifi both fail",
			category:    CategoryHardware,
			target:      domain.SystemGLPI,
		},
		{
			name:        "enterprise overrides everything",
			subject:     "solman unreachable over wifi from my laptop",
			description: "integration broken",
			category:    CategoryEnterpriseApp,
			target:      domain.SystemSolman,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.subject, tt.description)
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.target, res.TargetSystem)
		})
	}
}

func TestClassifyPriorities(t *testing.T) {
	tests := []struct {
		name        string
		description string
		priority    domain.TicketPriority
	}{
		{"plain request stays medium", "please replace the toner", domain.TicketPriorityMedium},
		{"down escalates to high", "the file share is down", domain.TicketPriorityHigh},
		{"outage escalates to high", "ongoing outage in the warehouse", domain.TicketPriorityHigh},
		{"critical overrides high", "critical outage, nothing works", domain.TicketPriorityCritical},
		{"sev1 marker", "sev1: all users affected", domain.TicketPriorityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify("status report", tt.description)
			assert.Equal(t, tt.priority, res.Priority)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	first := Classify("WiFi down in building 2", "no network access since 9am outage")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify("WiFi down in building 2", "no network access since 9am outage"))
	}
}

// Scenario from the original routing rules: a network outage report.
func TestClassifyNetworkOutageScenario(t *testing.T) {
	res := Classify("WiFi down in building 2", "no network access since 9am outage")
	assert.Equal(t, CategoryNetwork, res.Category)
	assert.Equal(t, domain.TicketPriorityHigh, res.Priority)
	assert.Equal(t, domain.SystemGLPI, res.TargetSystem)
	assert.False(t, res.IsSpam)
}

func TestClassifyPassesSpamVerdictThrough(t *testing.T) {
	res := Classify("You won a prize!", "click here to claim your gift card")
	assert.True(t, res.IsSpam)
	assert.Contains(t, res.SpamReason, "win")
}
