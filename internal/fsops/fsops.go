// Package fsops provides sandboxed file access for the file capability.
//
// All paths are relative to a sandbox root. Absolute inputs, parent
// traversal, and symlink escapes are rejected; entries under .git/ and
// .agent/ are denied.
package fsops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToolError is a machine-readable error body surfaced back to the agent.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact single-line JSON string to keep tool results small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Sandbox confines file operations beneath a single root directory.
type Sandbox struct {
	root string
}

// NewSandbox resolves root (CWD when empty) to an absolute, symlink-free
// path and returns a sandbox rooted there.
func NewSandbox(root string) (*Sandbox, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		root = cwd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("abs(root): %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &Sandbox{root: abs}, nil
}

// Root returns the absolute sandbox root.
func (s *Sandbox) Root() string { return s.root }

// Resolve validates relPath and returns the absolute path inside the
// sandbox. On violation it returns a ToolError.
func (s *Sandbox) Resolve(relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "absolute paths are not allowed"}
	}

	cleaned := filepath.Clean(relPath)
	if cleaned == "" {
		cleaned = "."
	}
	candidate := filepath.Join(s.root, cleaned)

	// Best-effort symlink resolution: the whole candidate when it exists,
	// otherwise its parent, so escapes via a symlinked directory are caught
	// even for files not yet created.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else {
		parent := filepath.Dir(candidate)
		if resolvedParent, err2 := filepath.EvalSymlinks(parent); err2 == nil {
			candidate = filepath.Join(resolvedParent, filepath.Base(candidate))
		}
	}

	rel, err := filepath.Rel(s.root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "requested path resolves outside the sandbox root"}
	}

	relSlash := filepath.ToSlash(rel)
	for _, denied := range []string{".git", ".agent"} {
		if relSlash == denied || strings.HasPrefix(relSlash, denied+"/") {
			return "", ToolError{Code: "ERR_DENIED_PATH", Message: fmt.Sprintf("access under %s/ is not allowed", denied)}
		}
	}
	return candidate, nil
}

// ReadFile reads a file addressed by a relative path under the sandbox.
func (s *Sandbox) ReadFile(relPath string) (string, error) {
	abs, err := s.Resolve(relPath)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", ToolError{Code: "ERR_NOT_A_FILE", Message: "path is a directory"}
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFile writes content to a relative path under the sandbox, creating
// parent directories as needed.
func (s *Sandbox) WriteFile(relPath, content string) (string, error) {
	abs, err := s.Resolve(relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return "", err
	}
	return abs, nil
}
