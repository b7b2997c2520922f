package tools

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Result is the outcome of a capability execution. Exactly one of Result
// and Error is populated. Details carries auxiliary diagnostic context and
// is never required for correctness.
type Result struct {
	Success bool           `json:"success"`
	Result  any            `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Ok builds a success result.
func Ok(value any) Result {
	return Result{Success: true, Result: value}
}

// Fail builds a failure result from a formatted error description.
func Fail(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// FailDetails builds a failure result carrying diagnostic details.
func FailDetails(details map[string]any, format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...), Details: details}
}

// Capability is the contract a registered tool must satisfy.
//
// Validate is pure: it checks presence and type of every parameter the
// capability requires and performs no side effects. Execute performs the
// effect and must translate every internal failure into a failure Result
// rather than letting it propagate.
type Capability interface {
	Name() string
	Validate(params map[string]any) error
	Execute(ctx context.Context, params map[string]any) Result
}

// Definition is the model-facing description of a capability, advertised in
// the system prompt so the assistant knows what it may call.
type Definition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// GenerateSchema derives a JSON Schema for a capability's parameter struct.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// Parameter helpers shared by the built-in capabilities.

func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func mapParam(params map[string]any, key string) (map[string]any, bool) {
	v, ok := params[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
