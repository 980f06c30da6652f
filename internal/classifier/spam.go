package classifier

import (
	"fmt"
	"strings"
)

// spamKeywords is checked in order; the first match becomes the reason.
var spamKeywords = []string{
	"win", "prize", "winner", "lottery", "gift card", "free money", "viagra", "cialis",
	"dating", "casino", "slots", "bitcoin", "crypto", "investment", "guaranteed profit",
	"verify your account", "update your billing", "suspended account", "urgent action required",
	"buy now", "click here", "subscribe", "limited time offer",
}

const maxEmbeddedURLs = 3

// SpamVerdict is the result of spam detection.
type SpamVerdict struct {
	IsSpam bool
	Reason string
}

// DetectSpam inspects subject and description for spam signals. It is
// total and deterministic: keyword match first, then URL density.
func DetectSpam(subject, description string) SpamVerdict {
	text := strings.ToLower(subject + " " + description)

	for _, keyword := range spamKeywords {
		if strings.Contains(text, keyword) {
			return SpamVerdict{IsSpam: true, Reason: fmt.Sprintf("Keyword match: %s", keyword)}
		}
	}

	urls := strings.Count(text, "http://") + strings.Count(text, "https://")
	if urls > maxEmbeddedURLs {
		return SpamVerdict{IsSpam: true, Reason: "Too many URLs"}
	}

	return SpamVerdict{}
}
