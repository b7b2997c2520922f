package memory

import (
	"encoding/json"
	"errors"
	"os"
)

// Turn is one completed exchange: the user text that was sent and the
// assistant text that came back. Turns are append-only and immutable once
// recorded; the first turn's User field is the original request.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant,omitempty"`
}

// OriginalRequest returns the first user text of the conversation, or ""
// when the history is empty.
func OriginalRequest(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}
	return turns[0].User
}

// LoadConversation reads a persisted history. A missing file is not an
// error; it returns an empty history.
func LoadConversation(path string) ([]Turn, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var turns []Turn
	if err := json.Unmarshal(b, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// SaveConversation writes the full history to path.
func SaveConversation(path string, turns []Turn) error {
	b, err := json.MarshalIndent(turns, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
