package analyze

import (
	"context"
	"strings"

	"github.com/petasbytes/agent-tools/internal/textstat"
	"github.com/petasbytes/agent-tools/memory"
)

// Length thresholds for declaring an answer complete, per task type.
const (
	shortAnswerRunes       = 100
	factualCompleteRunes   = 300
	explainedCompleteRunes = 500
	codeCompleteRunes      = 600
	completeListItems      = 3
)

// HeuristicAnalyzer classifies without any external transport, using answer
// length, list structure, and a coarse request-type guess. It is chosen
// explicitly by the caller when no transport is configured; it is not a
// silent stand-in for the model-assisted analyzer.
type HeuristicAnalyzer struct{}

// NewHeuristicAnalyzer returns the transport-free analyzer.
func NewHeuristicAnalyzer() *HeuristicAnalyzer { return &HeuristicAnalyzer{} }

func (a *HeuristicAnalyzer) Analyze(_ context.Context, history []memory.Turn, latest string) Status {
	feats := textstat.Count(latest)

	// Short replies usually ask for something rather than deliver it.
	if feats.Runes < shortAnswerRunes {
		return StatusNeedsMoreInfo
	}

	lower := strings.ToLower(latest)
	for _, phrase := range completionPhrases {
		if strings.Contains(lower, phrase) {
			return StatusCompleted
		}
	}

	// Multi-item lists tend to be complete enumerations.
	if feats.ListItems > completeListItems {
		return StatusCompleted
	}

	switch DetectTaskType(memory.OriginalRequest(history)) {
	case TaskFactual:
		if feats.Runes > factualCompleteRunes {
			return StatusCompleted
		}
	case TaskExplanation:
		if feats.Runes > explainedCompleteRunes {
			return StatusCompleted
		}
	case TaskCode:
		if feats.CodeFences > 0 && feats.Runes > codeCompleteRunes {
			return StatusCompleted
		}
	}
	return StatusContinue
}
