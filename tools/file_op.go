package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/petasbytes/agent-tools/internal/fsops"
)

// FileParams documents the file_operation parameter surface for schema
// generation.
type FileParams struct {
	Operation       string `json:"operation" jsonschema_description:"One of create, read, modify."`
	Path            string `json:"path" jsonschema_description:"Relative file path inside the workspace."`
	Content         string `json:"content,omitempty" jsonschema_description:"File content for create."`
	OriginalSnippet string `json:"original_snippet,omitempty" jsonschema_description:"Exact text to replace for modify."`
	NewSnippet      string `json:"new_snippet,omitempty" jsonschema_description:"Replacement text for modify."`
}

// FileToolName is the registry name of the file capability.
const FileToolName = "file_operation"

// FileToolDefinition is the model-facing description of the capability.
var FileToolDefinition = Definition{
	Name:        FileToolName,
	Description: "Create, read, or modify a text file inside the workspace. Modify replaces the first occurrence of original_snippet with new_snippet.",
	InputSchema: GenerateSchema[FileParams](),
}

// FileTool performs create/read/modify operations through a sandbox.
type FileTool struct {
	sandbox *fsops.Sandbox
}

// NewFileTool returns a file capability confined to sandbox.
func NewFileTool(sandbox *fsops.Sandbox) *FileTool {
	return &FileTool{sandbox: sandbox}
}

func (t *FileTool) Name() string { return FileToolName }

// Validate checks the operation name and the string parameters that
// operation requires. It performs no I/O.
func (t *FileTool) Validate(params map[string]any) error {
	op, _ := stringParam(params, "operation")
	switch op {
	case "create", "read", "modify":
	default:
		return fmt.Errorf("parameter 'operation' must be one of create, read, modify")
	}
	if _, ok := stringParam(params, "path"); !ok {
		return fmt.Errorf("a string 'path' parameter is required")
	}
	switch op {
	case "create":
		if _, ok := stringParam(params, "content"); !ok {
			return fmt.Errorf("create requires a string 'content' parameter")
		}
	case "modify":
		for _, key := range []string{"original_snippet", "new_snippet"} {
			if _, ok := stringParam(params, key); !ok {
				return fmt.Errorf("modify requires a string %q parameter", key)
			}
		}
	}
	return nil
}

// Execute routes the operation. I/O failures come back as failure Results
// carrying the underlying message.
func (t *FileTool) Execute(ctx context.Context, params map[string]any) Result {
	op, _ := stringParam(params, "operation")
	switch op {
	case "create":
		return t.create(params)
	case "read":
		return t.read(params)
	case "modify":
		return t.modify(params)
	default:
		return Fail("invalid operation: %s", op)
	}
}

func (t *FileTool) create(params map[string]any) Result {
	path, _ := stringParam(params, "path")
	content, _ := stringParam(params, "content")
	abs, err := t.sandbox.WriteFile(path, content)
	if err != nil {
		return Fail("create failed: %s", err)
	}
	return Ok(map[string]any{"path": abs})
}

func (t *FileTool) read(params map[string]any) Result {
	path, _ := stringParam(params, "path")
	content, err := t.sandbox.ReadFile(path)
	if err != nil {
		return Fail("read failed: %s", err)
	}
	return Ok(map[string]any{"content": content})
}

func (t *FileTool) modify(params map[string]any) Result {
	path, _ := stringParam(params, "path")
	original, _ := stringParam(params, "original_snippet")
	replacement, _ := stringParam(params, "new_snippet")

	current, err := t.sandbox.ReadFile(path)
	if err != nil {
		return Fail("modify failed: %s", err)
	}
	if !strings.Contains(current, original) {
		return FailDetails(map[string]any{
			"expected": original,
			"actual":   current,
		}, "original snippet not found")
	}
	updated := strings.Replace(current, original, replacement, 1)
	abs, err := t.sandbox.WriteFile(path, updated)
	if err != nil {
		return Fail("modify failed: %s", err)
	}
	return Ok(map[string]any{"path": abs})
}
