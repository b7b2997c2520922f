package llm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRole is the role identifier every Roles set must provide.
const DefaultRole = "default"

// Role holds the system prompt configured for one role identifier.
type Role struct {
	SystemPrompt string `yaml:"system_prompt"`
}

// Roles maps role identifiers to their configuration.
type Roles map[string]Role

// DefaultRoles returns the built-in role set used when no roles file is
// configured.
func DefaultRoles() Roles {
	return Roles{
		DefaultRole: {SystemPrompt: "You are a helpful assistant. When a registered tool can satisfy the request, reply with a fenced json block containing a tool_calls list."},
	}
}

// LoadRoles reads a YAML roles file of the form:
//
//	default:
//	  system_prompt: ...
//	reviewer:
//	  system_prompt: ...
//
// A default entry is required.
func LoadRoles(path string) (Roles, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("llm: read roles: %w", err)
	}
	var roles Roles
	if err := yaml.Unmarshal(b, &roles); err != nil {
		return nil, fmt.Errorf("llm: parse roles: %w", err)
	}
	if _, ok := roles[DefaultRole]; !ok {
		return nil, fmt.Errorf("llm: roles file %s has no %q entry", path, DefaultRole)
	}
	return roles, nil
}
