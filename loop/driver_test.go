package loop_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/agent-tools/analyze"
	"github.com/petasbytes/agent-tools/followup"
	"github.com/petasbytes/agent-tools/llm"
	"github.com/petasbytes/agent-tools/loop"
	"github.com/petasbytes/agent-tools/memory"
	"github.com/petasbytes/agent-tools/parse"
	"github.com/petasbytes/agent-tools/tools"
)

// script is a transport that replays canned replies and records prompts.
type script struct {
	replies []string
	prompts []string
	errAt   int // 1-based call index that fails; 0 disables
}

func (s *script) transport(_ context.Context, req llm.Request) (string, error) {
	s.prompts = append(s.prompts, req.Prompt)
	n := len(s.prompts)
	if s.errAt != 0 && n == s.errAt {
		return "", errors.New("transport down")
	}
	if n > len(s.replies) {
		return s.replies[len(s.replies)-1], nil
	}
	return s.replies[n-1], nil
}

func newDriver(t *testing.T, s *script, cfg loop.Config) *loop.Driver {
	t.Helper()
	svc, err := llm.NewService(s.transport, llm.DefaultRoles())
	require.NoError(t, err)
	cfg.Service = svc
	if cfg.Registry == nil {
		cfg.Registry = tools.NewRegistry()
	}
	if cfg.Parser == nil {
		cfg.Parser = parse.NewLenient(nil)
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = analyze.NewRuleAnalyzer()
	}
	if cfg.Generator == nil {
		cfg.Generator = followup.NewRuleGenerator()
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 5
	}
	d, err := loop.New(cfg)
	require.NoError(t, err)
	return d
}

func TestNew_Validation(t *testing.T) {
	_, err := loop.New(loop.Config{})
	assert.Error(t, err)

	s := &script{replies: []string{"x"}}
	svc, err := llm.NewService(s.transport, llm.DefaultRoles())
	require.NoError(t, err)
	_, err = loop.New(loop.Config{
		Service:   svc,
		Registry:  tools.NewRegistry(),
		Parser:    parse.NewLenient(nil),
		Analyzer:  analyze.NewRuleAnalyzer(),
		Generator: followup.NewRuleGenerator(),
		MaxTurns:  0,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxTurns")
}

func TestRun_StopsOnCompletion(t *testing.T) {
	s := &script{replies: []string{
		"Let me work through this.",
		"2+2 equals 4. Hope this helps!",
	}}
	d := newDriver(t, s, loop.Config{})

	history, err := d.Run(context.Background(), "What is 2+2?")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "What is 2+2?", history[0].User)
	assert.Equal(t, "2+2 equals 4. Hope this helps!", history[1].Assistant)
	// The second prompt came from the follow-up generator.
	require.Len(t, s.prompts, 2)
	assert.NotEqual(t, "What is 2+2?", s.prompts[1])
}

func TestRun_DispatchesToolAndFoldsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"temp": 21}`)
	}))
	defer srv.Close()

	reply := fmt.Sprintf("Fetching the data now.\n"+
		"```json\n{\"tool_calls\": [{\"tool_name\": \"api_call\", \"parameters\": {\"url\": %q, \"method\": \"get\"}}]}\n```\n", srv.URL)
	s := &script{replies: []string{reply, "The temperature is 21. Hope this helps!"}}

	registry := tools.NewRegistry()
	registry.Register(tools.NewHTTPTool(srv.Client()), tools.HTTPToolDefinition)
	d := newDriver(t, s, loop.Config{
		Registry: registry,
		Parser:   parse.NewStrict(nil),
	})

	history, err := d.Run(context.Background(), "What's the temperature?")
	require.NoError(t, err)
	require.Len(t, history, 2)

	require.Len(t, s.prompts, 2)
	assert.Contains(t, s.prompts[1], "Tool execution report")
	assert.Contains(t, s.prompts[1], `"success":true`)
	assert.Contains(t, s.prompts[1], `"temp":21`)
}

func TestRun_FailedToolCallIsReported(t *testing.T) {
	reply := "Trying a tool.\n" +
		"```json\n{\"tool_calls\": [{\"tool_name\": \"api_call\", \"parameters\": {\"url\": \"https://x\", \"method\": \"get\"}}]}\n```\n"
	s := &script{replies: []string{reply, "Understood, giving up. Hope this helps!"}}

	// No capability registered: dispatch must fail but the loop keeps going.
	d := newDriver(t, s, loop.Config{Parser: parse.NewStrict(nil)})

	history, err := d.Run(context.Background(), "Fetch something")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Contains(t, s.prompts[1], `"success":false`)
	assert.Contains(t, s.prompts[1], "not registered")
}

func TestRun_TurnLimit(t *testing.T) {
	s := &script{replies: []string{"still working on the next part"}}
	d := newDriver(t, s, loop.Config{MaxTurns: 3})

	history, err := d.Run(context.Background(), "Write an essay")
	require.ErrorIs(t, err, loop.ErrTurnLimit)
	assert.Len(t, history, 3)
}

func TestRun_TransportFailureAborts(t *testing.T) {
	s := &script{replies: []string{"partial work underway right now"}, errAt: 2}
	d := newDriver(t, s, loop.Config{})

	history, err := d.Run(context.Background(), "Do a thing")
	require.Error(t, err)
	assert.Len(t, history, 1, "history up to the failure is returned")
}

func TestRun_PersistsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.json")
	s := &script{replies: []string{"Done already. Hope this helps!", "unused"}}
	d := newDriver(t, s, loop.Config{
		PersistPath: path,
		Analyzer:    analyze.NewHeuristicAnalyzer(),
	})

	// Heuristic analyzer: completion phrase plus enough length.
	s.replies[0] = "Everything you asked for is in place and verified working. Hope this helps! " +
		"The configuration has been applied and all checks passed."
	history, err := d.Run(context.Background(), "Set it up")
	require.NoError(t, err)
	require.Len(t, history, 1)

	persisted, err := memory.LoadConversation(path)
	require.NoError(t, err)
	assert.Equal(t, history, persisted)
}

func TestRun_ObservesTurns(t *testing.T) {
	var seen []memory.Turn
	s := &script{replies: []string{"First part.", "Rest of it. Hope this helps!"}}
	d := newDriver(t, s, loop.Config{
		OnTurn: func(turn memory.Turn) { seen = append(seen, turn) },
	})

	history, err := d.Run(context.Background(), "Tell me things")
	require.NoError(t, err)
	assert.Equal(t, history, seen)
}
