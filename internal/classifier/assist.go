package classifier

import (
	"context"

	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// Suggestion is an assistive classification with a confidence score.
type Suggestion struct {
	Result
	Confidence float64
}

// Suggester produces assistive classification suggestions. It may fail
// with SERVICE_UNAVAILABLE at any time; callers must hold a rule-based
// fallback before invoking it.
type Suggester interface {
	Suggest(ctx context.Context, subject, description string) (Suggestion, error)
}

// ruleSuggester is the stand-in assistive classifier. It reuses the
// rule engine and reports a fixed confidence, until a real model
// replaces it behind the same interface.
type ruleSuggester struct {
	enabled    bool
	confidence float64
}

// NewRuleSuggester builds the default Suggester implementation.
func NewRuleSuggester(enabled bool) Suggester {
	return &ruleSuggester{enabled: enabled, confidence: 0.65}
}

func (s *ruleSuggester) Suggest(ctx context.Context, subject, description string) (Suggestion, error) {
	if !s.enabled {
		return Suggestion{}, apperrors.NewServiceUnavailable("assistive classification disabled")
	}
	if err := ctx.Err(); err != nil {
		return Suggestion{}, apperrors.NewServiceUnavailable("assistive classification timed out")
	}
	return Suggestion{
		Result:     Classify(subject, description),
		Confidence: s.confidence,
	}, nil
}
