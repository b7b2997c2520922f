package followup

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/petasbytes/agent-tools/analyze"
	"github.com/petasbytes/agent-tools/llm"
	"github.com/petasbytes/agent-tools/memory"
)

// ModelGenerator asks a model to phrase the follow-up. A transport failure
// falls back to the rule table rather than stopping the loop.
type ModelGenerator struct {
	transport llm.Transport
	rules     *RuleGenerator
	log       *zap.Logger
}

// NewModelGenerator builds a model-assisted generator. The transport is
// required; a nil logger disables logging.
func NewModelGenerator(transport llm.Transport, log *zap.Logger) (*ModelGenerator, error) {
	if transport == nil {
		return nil, fmt.Errorf("followup: transport is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ModelGenerator{transport: transport, rules: NewRuleGenerator(), log: log}, nil
}

const generatorSystemPrompt = "You are a conversation assistant. Reply with the follow-up question text only."

var statusDescriptions = map[analyze.Status]string{
	analyze.StatusNeedsMoreInfo: "The AI needs the user to provide more information to finish the task.",
	analyze.StatusContinue:      "The AI has started answering but the task is not finished yet.",
}

func (g *ModelGenerator) Generate(ctx context.Context, status analyze.Status, history []memory.Turn, latest string) (string, bool) {
	if status == analyze.StatusCompleted {
		return "", false
	}
	prompt := buildGeneratorPrompt(status, history, latest)
	answer, err := g.transport(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: generatorSystemPrompt,
		Messages: []llm.Message{
			{Role: "system", Content: generatorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: false,
	})
	if err != nil {
		g.log.Warn("generator transport failed; using rule table", zap.Error(err))
		return g.rules.Generate(ctx, status, history, latest)
	}
	followup := strings.TrimSpace(answer)
	if followup == "" {
		return g.rules.Generate(ctx, status, history, latest)
	}
	return followup, true
}

func buildGeneratorPrompt(status analyze.Status, history []memory.Turn, latest string) string {
	var b strings.Builder
	b.WriteString("Write one short follow-up question so the user's task can be finished.\n\n")
	fmt.Fprintf(&b, "Original request:\n%s\n\n", memory.OriginalRequest(history))
	fmt.Fprintf(&b, "Recent conversation:\n%s\n\n", llm.SummarizeHistory(llm.TailHistory(history, 2)))
	fmt.Fprintf(&b, "Latest AI reply:\n%s\n\n", latest)
	fmt.Fprintf(&b, "Current status: %s\n%s\n\n", status, statusDescriptions[status])
	b.WriteString("Keep the question under 30 words. For NEEDS_MORE_INFO ask the user for the missing detail; for CONTINUE ask the AI to finish what it started. Give the question text only, without explanation.")
	return b.String()
}
