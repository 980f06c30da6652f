package classifier

import (
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Default labels assigned when no keyword rule fires.
const (
	CategoryGeneralIT     = "General IT"
	CategoryNetwork       = "Network"
	CategoryHardware      = "Hardware"
	CategoryEnterpriseApp = "Enterprise App"
)

// Result is the classifier's verdict for a ticket.
type Result struct {
	Category     string
	Priority     domain.TicketPriority
	TargetSystem domain.TargetSystem
	IsSpam       bool
	SpamReason   string
}

// Classify runs the deterministic rule engine over a ticket's text.
// It never fails and serves as the mandatory fallback when assistive
// classification is unavailable.
//
// Category rules overwrite each other in sequence, so a later match
// wins when several keyword groups are present. This precedence
// (network, then hardware, then enterprise) is intentional.
func Classify(subject, description string) Result {
	text := strings.ToLower(subject + "\n" + description)

	spam := DetectSpam(subject, description)

	category := CategoryGeneralIT
	if containsAny(text, "wifi", "network", "lan") {
		category = CategoryNetwork
	}
	if containsAny(text, "laptop", "printer", "mouse") {
		category = CategoryHardware
	}
	if containsAny(text, "sap", "solman") {
		category = CategoryEnterpriseApp
	}

	priority := domain.TicketPriorityMedium
	if containsAny(text, "down", "outage") {
		priority = domain.TicketPriorityHigh
	}
	if containsAny(text, "critical", "sev1") {
		priority = domain.TicketPriorityCritical
	}

	target := domain.SystemGLPI
	if category == CategoryEnterpriseApp {
		target = domain.SystemSolman
	}

	return Result{
		Category:     category,
		Priority:     priority,
		TargetSystem: target,
		IsSpam:       spam.IsSpam,
		SpamReason:   spam.Reason,
	}
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
