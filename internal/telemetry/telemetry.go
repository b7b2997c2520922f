// Package telemetry emits env-gated JSONL events for conversation turns and
// tool executions, and carries turn IDs through context.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/sjson"
)

// observeEnabled reports whether JSONL emission is on (ATL_OBSERVE_JSON=1).
func observeEnabled() bool {
	return os.Getenv("ATL_OBSERVE_JSON") == "1"
}

// Emit writes a single JSON line to .agent/events.jsonl when
// ATL_OBSERVE_JSON=1. It augments fields with RFC3339Nano time and the
// event name. Callers' maps are never mutated.
func Emit(name string, fields map[string]any) {
	if !observeEnabled() {
		return
	}

	line, err := sjson.Set("", "event", name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: build: %v\n", err)
		return
	}
	line, _ = sjson.Set(line, "time", time.Now().UTC().Format(time.RFC3339Nano))
	for k, v := range fields {
		if line, err = sjson.Set(line, k, v); err != nil {
			fmt.Fprintf(os.Stderr, "telemetry: set %s: %v\n", k, err)
			return
		}
	}

	dir := ".agent"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}

	path := filepath.Join(dir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append([]byte(line), '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
	}
}
