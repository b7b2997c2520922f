// Package textstat computes local text features used by the heuristic task
// analyzer.
package textstat

import (
	"strings"
	"unicode/utf8"
)

// Features holds basic features derived from an input string.
type Features struct {
	Runes      int
	Words      int
	Lines      int
	ListItems  int
	CodeFences int
}

// Count computes the features for s.
func Count(s string) Features {
	return Features{
		Runes:      utf8.RuneCountInString(s),
		Words:      len(strings.Fields(s)),
		Lines:      countLines(s),
		ListItems:  countListItems(s),
		CodeFences: strings.Count(s, "```") / 2,
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of
// '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}

// countListItems counts lines that open with a dash bullet.
func countListItems(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- ") {
			n++
		}
	}
	return n
}
