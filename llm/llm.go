package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/petasbytes/agent-tools/memory"
)

// Message is one role-tagged entry of a transport request.
type Message struct {
	Role    string
	Content string
}

// Request carries everything a transport needs for a single model call.
// Requests are built by the caller and passed by value.
type Request struct {
	Prompt       string
	SystemPrompt string
	Messages     []Message
	Stream       bool
}

// Transport invokes the underlying language model and returns its raw text.
// Implementations live outside this core (see internal/provider for the
// Anthropic-backed one). The core always calls it with Stream=false.
type Transport func(ctx context.Context, req Request) (string, error)

// Service wraps a transport with role configuration. The system prompt of
// the current role is injected both as the leading system message and as the
// standalone SystemPrompt argument so the model keeps its role across
// providers that honour either mechanism.
type Service struct {
	transport Transport
	roles     Roles
	current   string
}

// NewService builds a Service using the "default" role. The transport must
// not be nil and roles must contain a default entry.
func NewService(transport Transport, roles Roles) (*Service, error) {
	if transport == nil {
		return nil, fmt.Errorf("llm: transport is nil")
	}
	if _, ok := roles[DefaultRole]; !ok {
		return nil, fmt.Errorf("llm: roles missing %q entry", DefaultRole)
	}
	return &Service{transport: transport, roles: roles, current: DefaultRole}, nil
}

// SetRole switches the current role; unknown roles are rejected.
func (s *Service) SetRole(name string) error {
	if _, ok := s.roles[name]; !ok {
		return fmt.Errorf("llm: unknown role %q", name)
	}
	s.current = name
	return nil
}

// Role returns the current role identifier.
func (s *Service) Role() string { return s.current }

// Chat sends a single prompt under the current role and returns the raw
// model text.
func (s *Service) Chat(ctx context.Context, prompt string) (string, error) {
	system := s.roles[s.current].SystemPrompt
	req := Request{
		Prompt:       prompt,
		SystemPrompt: system,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}
	return s.transport(ctx, req)
}

// answerClampRunes bounds each assistant answer when summarising history for
// classification and generation prompts.
const answerClampRunes = 100

// SummarizeHistory renders turns as a compact "User/AI" transcript with each
// answer clamped to answerClampRunes runes. An empty history renders as
// "(no prior conversation)".
func SummarizeHistory(turns []memory.Turn) string {
	if len(turns) == 0 {
		return "(no prior conversation)"
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "User: %s\nAI: %s", t.User, clampRunes(t.Assistant, answerClampRunes))
	}
	return b.String()
}

// TailHistory returns at most the last n turns.
func TailHistory(turns []memory.Turn, n int) []memory.Turn {
	if n <= 0 || len(turns) == 0 {
		return nil
	}
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// clampRunes truncates s to at most n runes, appending an ellipsis marker
// when anything was cut.
func clampRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
