package followup_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/agent-tools/analyze"
	"github.com/petasbytes/agent-tools/followup"
	"github.com/petasbytes/agent-tools/llm"
	"github.com/petasbytes/agent-tools/memory"
)

func TestRuleGenerator_CompletedMeansNoFollowup(t *testing.T) {
	g := followup.NewRuleGenerator()
	text, ok := g.Generate(context.Background(), analyze.StatusCompleted, nil, "all done")
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestRuleGenerator_NeedsMoreInfo(t *testing.T) {
	g := followup.NewRuleGenerator()
	text, ok := g.Generate(context.Background(), analyze.StatusNeedsMoreInfo, nil, "short")
	require.True(t, ok)
	assert.Contains(t, text, "more information")
}

func TestRuleGenerator_ContinueCategories(t *testing.T) {
	g := followup.NewRuleGenerator()
	ctx := context.Background()

	cases := []struct {
		name   string
		latest string
		want   string
	}{
		{"code", "Here is a function:\n```go\nfunc f() {}\n```", "code"},
		{"explanation", "Let me explain the idea.", "explanation"},
		{"comparison", "The main difference between the two is speed.", "comparing"},
		{"example", "For example, take a queue.", "examples"},
		{"implementation", "The first step of the workflow is setup.", "implementation"},
		{"generic", "Something without any cue words.", "continue the explanation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, ok := g.Generate(ctx, analyze.StatusContinue, nil, tc.latest)
			require.True(t, ok)
			assert.Contains(t, strings.ToLower(text), tc.want)
		})
	}
}

func TestRuleGenerator_CategoryPrecedence(t *testing.T) {
	g := followup.NewRuleGenerator()
	// Mentions both code and an example; code is checked first.
	text, ok := g.Generate(context.Background(), analyze.StatusContinue, nil,
		"Here is some code, for example:")
	require.True(t, ok)
	assert.Contains(t, strings.ToLower(text), "code")
}

func TestModelGenerator_ReturnsTrimmedTransportOutput(t *testing.T) {
	transport := func(_ context.Context, req llm.Request) (string, error) {
		return "  Could you share the schema?  \n", nil
	}
	g, err := followup.NewModelGenerator(transport, nil)
	require.NoError(t, err)

	history := []memory.Turn{{User: "Design a table", Assistant: "Sure..."}}
	text, ok := g.Generate(context.Background(), analyze.StatusNeedsMoreInfo, history, "Which columns?")
	require.True(t, ok)
	assert.Equal(t, "Could you share the schema?", text)
}

func TestModelGenerator_CompletedStillTerminates(t *testing.T) {
	called := false
	transport := func(context.Context, llm.Request) (string, error) {
		called = true
		return "anything", nil
	}
	g, err := followup.NewModelGenerator(transport, nil)
	require.NoError(t, err)

	_, ok := g.Generate(context.Background(), analyze.StatusCompleted, nil, "done")
	assert.False(t, ok)
	assert.False(t, called, "no transport call for a completed task")
}

func TestModelGenerator_TransportFailureFallsBackToRules(t *testing.T) {
	transport := func(context.Context, llm.Request) (string, error) {
		return "", errors.New("wire down")
	}
	g, err := followup.NewModelGenerator(transport, nil)
	require.NoError(t, err)

	text, ok := g.Generate(context.Background(), analyze.StatusNeedsMoreInfo, nil, "short")
	require.True(t, ok)
	assert.Contains(t, text, "more information")
}
