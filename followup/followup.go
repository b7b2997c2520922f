package followup

import (
	"context"
	"strings"

	"github.com/petasbytes/agent-tools/analyze"
	"github.com/petasbytes/agent-tools/memory"
)

// Generator synthesizes the next user-turn text for an unfinished task.
// Generate returns ("", false) when no follow-up is needed (the task is
// complete and the loop should stop).
type Generator interface {
	Generate(ctx context.Context, status analyze.Status, history []memory.Turn, latest string) (string, bool)
}

// Default prompts per status.
const (
	needMoreInfoPrompt = "I need more information about your request. Please share more detail so I can help properly."
	continuePrompt     = "Please continue the explanation you just started."
)

// contentCategory is a detectable shape of the latest answer; each has its
// own continuation prompt.
type contentCategory struct {
	name     string
	keywords []string
	prompt   string
}

// Categories are checked in this fixed order; first match wins.
var categories = []contentCategory{
	{"code", []string{"```", "code", "function", "class"},
		"Please continue with the remaining code and make sure the full solution is explained."},
	{"explanation", []string{"explain", "explanation", "first,", "first of all"},
		"Please continue your explanation and cover all the points you mentioned."},
	{"comparison", []string{"compare", "comparison", "advantage", "disadvantage", "difference"},
		"Please continue comparing the strengths and weaknesses of these options."},
	{"example", []string{"for example", "for instance", "example"},
		"Please continue with concrete usage examples."},
	{"implementation", []string{"implementation", "step", "workflow"},
		"Please continue describing the implementation details and steps."},
}

// RuleGenerator picks a continuation prompt from a fixed table.
type RuleGenerator struct{}

// NewRuleGenerator returns the rule-based generator.
func NewRuleGenerator() *RuleGenerator { return &RuleGenerator{} }

func (g *RuleGenerator) Generate(_ context.Context, status analyze.Status, _ []memory.Turn, latest string) (string, bool) {
	switch status {
	case analyze.StatusCompleted:
		return "", false
	case analyze.StatusContinue:
		if prompt, ok := detectCategoryPrompt(latest); ok {
			return prompt, true
		}
		return continuePrompt, true
	case analyze.StatusNeedsMoreInfo:
		return needMoreInfoPrompt, true
	default:
		return continuePrompt, true
	}
}

// detectCategoryPrompt returns the continuation prompt for the first
// category whose keywords appear in the latest answer.
func detectCategoryPrompt(latest string) (string, bool) {
	lower := strings.ToLower(latest)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.prompt, true
			}
		}
	}
	return "", false
}
