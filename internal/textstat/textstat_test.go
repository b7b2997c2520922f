package textstat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petasbytes/agent-tools/internal/textstat"
)

func TestCount(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want textstat.Features
	}{
		{"empty", "", textstat.Features{}},
		{"single line", "hello world", textstat.Features{Runes: 11, Words: 2, Lines: 1}},
		{"multibyte runes", "héllo", textstat.Features{Runes: 5, Words: 1, Lines: 1}},
		{
			"list",
			"Plan:\n- first\n- second\n  - indented\nDone",
			textstat.Features{Runes: 40, Words: 8, Lines: 5, ListItems: 3},
		},
		{
			"fenced code",
			"Use this:\n```go\nfunc f() {}\n```\n",
			textstat.Features{Runes: 32, Words: 7, Lines: 5, CodeFences: 1},
		},
		{"unclosed fence ignored", "```", textstat.Features{Runes: 3, Words: 1, Lines: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, textstat.Count(tc.in))
		})
	}
}
