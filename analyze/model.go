package analyze

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/petasbytes/agent-tools/llm"
	"github.com/petasbytes/agent-tools/memory"
)

// ModelAnalyzer asks a second model whether the task is done. A transport
// failure maps conservatively to CONTINUE, never to COMPLETED.
type ModelAnalyzer struct {
	transport llm.Transport
	log       *zap.Logger
}

// NewModelAnalyzer builds a model-assisted analyzer. The transport is
// required; a nil logger disables logging.
func NewModelAnalyzer(transport llm.Transport, log *zap.Logger) (*ModelAnalyzer, error) {
	if transport == nil {
		return nil, fmt.Errorf("analyze: transport is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ModelAnalyzer{transport: transport, log: log}, nil
}

const analyzerSystemPrompt = "You are a conversation analysis expert. Answer with exactly one status keyword."

func (a *ModelAnalyzer) Analyze(ctx context.Context, history []memory.Turn, latest string) Status {
	prompt := buildAnalyzerPrompt(history, latest)
	answer, err := a.transport(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: analyzerSystemPrompt,
		Messages: []llm.Message{
			{Role: "system", Content: analyzerSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: false,
	})
	if err != nil {
		a.log.Warn("analyzer transport failed; defaulting to CONTINUE", zap.Error(err))
		return StatusContinue
	}
	return ParseStatus(answer)
}

func buildAnalyzerPrompt(history []memory.Turn, latest string) string {
	original := memory.OriginalRequest(history)
	prior := history
	if len(history) > 0 {
		prior = history[:len(history)-1]
	}

	var b strings.Builder
	b.WriteString("Judge whether the latest AI reply completes the user's task.\n\n")
	fmt.Fprintf(&b, "Original request:\n%s\n\n", original)
	fmt.Fprintf(&b, "Task type: %s\n\n", DetectTaskType(original))
	fmt.Fprintf(&b, "Conversation summary:\n%s\n\n", llm.SummarizeHistory(prior))
	fmt.Fprintf(&b, "Latest AI reply:\n%s\n\n", latest)
	b.WriteString("Consider whether the reply fully answers the request, whether it asks the user for more information, and whether it is an unfinished answer.\n\n")
	b.WriteString("Return exactly one of:\n")
	b.WriteString("COMPLETED - the task is done, no further interaction needed\n")
	b.WriteString("NEEDS_MORE_INFO - the user must provide more information\n")
	b.WriteString("CONTINUE - the task is underway and the AI should continue\n")
	return b.String()
}
