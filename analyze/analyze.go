package analyze

import (
	"context"
	"strings"

	"github.com/petasbytes/agent-tools/memory"
)

// Status is the three-way classification of whether the assistant's latest
// answer satisfies the user's request.
type Status string

const (
	// StatusCompleted: the task is done; no further interaction needed.
	StatusCompleted Status = "COMPLETED"
	// StatusNeedsMoreInfo: the assistant is waiting on the user for detail.
	StatusNeedsMoreInfo Status = "NEEDS_MORE_INFO"
	// StatusContinue: the task is underway and the assistant should go on.
	StatusContinue Status = "CONTINUE"
)

// Analyzer classifies the latest assistant answer against the conversation
// so far. History is ordered oldest-first and already contains the turn the
// latest answer belongs to.
type Analyzer interface {
	Analyze(ctx context.Context, history []memory.Turn, latest string) Status
}

// completionPhrases mark an answer as a closing statement. Checked before
// the clarification cues; first match wins.
var completionPhrases = []string{
	"hope this helps",
	"hope that helps",
	"hope this answers your question",
	"if you have any other questions",
	"feel free to ask",
	"let me know if you need anything else",
	"does this solve your problem",
	"good luck",
	"that's it",
	"to summarize",
	"in summary",
	"in conclusion",
}

// clarificationCues mark an answer as a request for more information.
var clarificationCues = []string{
	"could you provide more",
	"i need more details",
	"tell me more about",
	"could you clarify",
	"can you clarify",
	"what exactly would you like",
	"could you be more specific",
	"please provide",
	"?",
}

// RuleAnalyzer classifies with fixed phrase checks and no external calls.
type RuleAnalyzer struct{}

// NewRuleAnalyzer returns the rule-based analyzer.
func NewRuleAnalyzer() *RuleAnalyzer { return &RuleAnalyzer{} }

// Analyze returns CONTINUE while the conversation has at most one turn,
// then checks completion phrases before clarification cues.
func (a *RuleAnalyzer) Analyze(_ context.Context, history []memory.Turn, latest string) Status {
	if len(history) <= 1 {
		return StatusContinue
	}
	lower := strings.ToLower(latest)
	for _, phrase := range completionPhrases {
		if strings.Contains(lower, phrase) {
			return StatusCompleted
		}
	}
	for _, cue := range clarificationCues {
		if strings.Contains(lower, cue) {
			return StatusNeedsMoreInfo
		}
	}
	return StatusContinue
}

// ParseStatus maps free model text back to a Status: exact state-name match
// first, then secondary keyword heuristics, defaulting to CONTINUE.
func ParseStatus(text string) Status {
	for _, s := range []Status{StatusCompleted, StatusNeedsMoreInfo, StatusContinue} {
		if strings.Contains(text, string(s)) {
			return s
		}
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "complete") || strings.Contains(lower, "resolved") || strings.Contains(lower, "answered"):
		return StatusCompleted
	case strings.Contains(lower, "more information") || strings.Contains(lower, "more details") || strings.Contains(lower, "clarif"):
		return StatusNeedsMoreInfo
	default:
		return StatusContinue
	}
}
