// Package provider adapts the Anthropic Messages API to the llm.Transport
// contract.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/agent-tools/llm"
)

const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

const defaultMaxTokens = 1024

// Options configures the Anthropic transport.
type Options struct {
	Model     anthropic.Model // DefaultModel when empty
	MaxTokens int64           // defaultMaxTokens when <= 0
}

// NewAnthropicTransport returns an llm.Transport backed by the official SDK
// client (API key read from the environment by the SDK).
func NewAnthropicTransport(opts Options) llm.Transport {
	client := anthropic.NewClient()
	return newTransport(&client, opts)
}

func newTransport(client *anthropic.Client, opts Options) llm.Transport {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return func(ctx context.Context, req llm.Request) (string, error) {
		params := anthropic.MessageNewParams{
			Model:     model,
			MaxTokens: maxTokens,
			Messages:  convertMessages(req),
		}
		if req.SystemPrompt != "" {
			params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
		}

		msg, err := client.Messages.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("anthropic: %w", err)
		}

		var parts []string
		for _, block := range msg.Content {
			if tb, ok := block.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
				parts = append(parts, tb.Text)
			}
		}
		return strings.Join(parts, "\n"), nil
	}
}

// convertMessages maps role-tagged messages onto Messages-API params.
// System entries are carried in params.System, so they are skipped here;
// when the message list is empty the bare prompt becomes the sole user
// message.
func convertMessages(req llm.Request) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	for _, m := range req.Messages {
		switch m.Role {
		case "assistant":
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case "system":
			// handled via params.System
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(out) == 0 {
		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)))
	}
	return out
}
