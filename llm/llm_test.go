package llm_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/agent-tools/llm"
	"github.com/petasbytes/agent-tools/memory"
)

func TestNewService_Validation(t *testing.T) {
	_, err := llm.NewService(nil, llm.DefaultRoles())
	assert.Error(t, err)

	transport := func(context.Context, llm.Request) (string, error) { return "", nil }
	_, err = llm.NewService(transport, llm.Roles{"other": {SystemPrompt: "x"}})
	assert.Error(t, err, "roles without a default entry are rejected")
}

func TestService_ChatInjectsRolePrompt(t *testing.T) {
	var seen llm.Request
	transport := func(_ context.Context, req llm.Request) (string, error) {
		seen = req
		return "answer", nil
	}
	roles := llm.Roles{
		llm.DefaultRole: {SystemPrompt: "default prompt"},
		"reviewer":      {SystemPrompt: "review prompt"},
	}
	svc, err := llm.NewService(transport, roles)
	require.NoError(t, err)

	out, err := svc.Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "answer", out)
	assert.False(t, seen.Stream)
	assert.Equal(t, "default prompt", seen.SystemPrompt)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, llm.Message{Role: "system", Content: "default prompt"}, seen.Messages[0])
	assert.Equal(t, llm.Message{Role: "user", Content: "hello"}, seen.Messages[1])

	require.NoError(t, svc.SetRole("reviewer"))
	_, err = svc.Chat(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, "review prompt", seen.SystemPrompt)

	assert.Error(t, svc.SetRole("nope"))
	assert.Equal(t, "reviewer", svc.Role())
}

func TestSummarizeHistory(t *testing.T) {
	assert.Equal(t, "(no prior conversation)", llm.SummarizeHistory(nil))

	long := strings.Repeat("x", 150)
	turns := []memory.Turn{
		{User: "q1", Assistant: "short"},
		{User: "q2", Assistant: long},
	}
	got := llm.SummarizeHistory(turns)
	assert.Contains(t, got, "User: q1\nAI: short")
	assert.Contains(t, got, "User: q2")
	assert.NotContains(t, got, long, "long answers are clamped")
	assert.Contains(t, got, strings.Repeat("x", 100)+"...")
}

func TestTailHistory(t *testing.T) {
	turns := []memory.Turn{{User: "a"}, {User: "b"}, {User: "c"}}
	assert.Nil(t, llm.TailHistory(turns, 0))
	assert.Equal(t, turns, llm.TailHistory(turns, 5))
	assert.Equal(t, turns[1:], llm.TailHistory(turns, 2))
}

func TestLoadRoles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roles.yaml")
	body := "default:\n  system_prompt: be helpful\nreviewer:\n  system_prompt: be critical\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	roles, err := llm.LoadRoles(path)
	require.NoError(t, err)
	assert.Equal(t, "be helpful", roles[llm.DefaultRole].SystemPrompt)
	assert.Equal(t, "be critical", roles["reviewer"].SystemPrompt)
}

func TestLoadRoles_MissingDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reviewer:\n  system_prompt: x\n"), 0o644))

	_, err := llm.LoadRoles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default")
}
