package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSpamKeywords(t *testing.T) {
	tests := []struct {
		name        string
		subject     string
		description string
		reason      string
	}{
		{
			name:        "prize keyword in subject",
			subject:     "You won a PRIZE!",
			description: "claim it today",
			reason:      "Keyword match: prize",
		},
		{
			name:        "gift card in description",
			subject:     "Congratulations",
			description: "click to redeem your Gift Card",
			reason:      "Keyword match: gift card",
		},
		{
			name:        "crypto pitch",
			subject:     "Crypto opportunity",
			description: "double your coins overnight",
			reason:      "Keyword match: crypto",
		},
		{
			name:        "phishing phrase",
			subject:     "Action needed",
			description: "please Verify Your Account immediately",
			reason:      "Keyword match: verify your account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := DetectSpam(tt.subject, tt.description)
			assert.True(t, verdict.IsSpam)
			assert.Equal(t, tt.reason, verdict.Reason)
		})
	}
}

func TestDetectSpamKeywordsAreCaseInsensitive(t *testing.T) {
	verdict := DetectSpam("LOTTERY RESULTS", "you are a LoTtErY winner")
	assert.True(t, verdict.IsSpam)
	assert.Contains(t, verdict.Reason, "lottery")
}

func TestDetectSpamTooManyURLs(t *testing.T) {
	links := strings.Repeat("see http://a.example ", 3) + "and https://b.example"
	verdict := DetectSpam("network docs", links)
	assert.True(t, verdict.IsSpam)
	assert.Equal(t, "Too many URLs", verdict.Reason)
}

func TestDetectSpamThreeURLsIsFine(t *testing.T) {
	verdict := DetectSpam("network docs", "http://a https://b http://c")
	assert.False(t, verdict.IsSpam)
	assert.Empty(t, verdict.Reason)
}

func TestDetectSpamCleanInput(t *testing.T) {
	verdict := DetectSpam("Printer jam on floor 3", "paper stuck in tray 2, error E04")
	assert.False(t, verdict.IsSpam)
	assert.Empty(t, verdict.Reason)
}

func TestDetectSpamKeywordTakesPrecedenceOverURLs(t *testing.T) {
	desc := "lottery " + strings.Repeat("http://x.example ", 5)
	verdict := DetectSpam("hello", desc)
	assert.True(t, verdict.IsSpam)
	assert.Equal(t, "Keyword match: lottery", verdict.Reason)
}
